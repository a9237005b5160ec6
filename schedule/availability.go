package schedule

import "time"

const (
	openHour         = 9
	closeHour        = 17
	maxAlternatives  = 5
	alternativeScanDays = 14
)

// candidateHours is the fixed list of slot start times alternative proposals
// are drawn from.
var candidateHours = []int{9, 10, 11, 13, 14, 15, 16}

// unavailableReason explains why a slot fails the availability rule; empty
// means available.
func unavailableReason(at time.Time, taken func(time.Time) bool) string {
	switch at.Weekday() {
	case time.Saturday, time.Sunday:
		return "we're closed on weekends"
	}
	if at.Hour() < openHour || at.Hour() >= closeHour {
		return "that time is outside our business hours (9 AM to 5 PM)"
	}
	if taken(at) {
		return "that time is already booked"
	}
	return ""
}

// proposeAlternatives walks forward from the requested slot's day, skipping
// weekends, checking each candidate hour against the same availability rule,
// and returns up to five open slots.
func proposeAlternatives(from time.Time, taken func(time.Time) bool) []time.Time {
	var out []time.Time
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	for d := 0; d < alternativeScanDays && len(out) < maxAlternatives; d++ {
		candidateDay := day.AddDate(0, 0, d)
		if candidateDay.Weekday() == time.Saturday || candidateDay.Weekday() == time.Sunday {
			continue
		}
		for _, hour := range candidateHours {
			slot := time.Date(candidateDay.Year(), candidateDay.Month(), candidateDay.Day(), hour, 0, 0, 0, from.Location())
			if !slot.After(from) {
				continue
			}
			if unavailableReason(slot, taken) == "" {
				out = append(out, slot)
				if len(out) == maxAlternatives {
					break
				}
			}
		}
	}
	return out
}
