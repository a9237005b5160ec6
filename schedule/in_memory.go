package schedule

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tywade1980/smart-incallservice/core"
)

// InMemoryStore is a volatile core.AppointmentStore. Safe for concurrent
// use; suited to tests and single-process deployments.
type InMemoryStore struct {
	mu    sync.RWMutex
	appts []core.Appointment
	now   func() time.Time
}

// InMemoryOptions configures the in-memory store.
type InMemoryOptions struct {
	// Now supplies the clock used to find upcoming appointments.
	Now func() time.Time
}

// NewInMemoryStore constructs an empty in-memory appointment store.
func NewInMemoryStore(optFns ...func(o *InMemoryOptions)) *InMemoryStore {
	opts := InMemoryOptions{Now: time.Now}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &InMemoryStore{now: opts.Now}
}

// Book implements core.AppointmentStore, enforcing the availability rule and
// proposing alternatives on conflict.
func (s *InMemoryStore) Book(_ context.Context, appt core.Appointment) (core.BookingResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	taken := func(slot time.Time) bool { return s.slotTakenLocked(appt.PhoneNumber, slot) }
	if reason := unavailableReason(appt.At, taken); reason != "" {
		return core.BookingResult{
			Booked:       false,
			Reason:       reason,
			Alternatives: proposeAlternatives(appt.At, taken),
		}, nil
	}

	if appt.ID == "" {
		appt.ID = core.NewID()
	}
	if appt.Status == "" {
		appt.Status = core.AppointmentScheduled
	}
	s.appts = append(s.appts, appt)
	return core.BookingResult{Booked: true, AppointmentID: appt.ID}, nil
}

// ListByPhone implements core.AppointmentStore, returning the caller's
// appointments ordered by time ascending.
func (s *InMemoryStore) ListByPhone(_ context.Context, phoneNumber string) ([]core.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.Appointment
	for _, appt := range s.appts {
		if appt.PhoneNumber == phoneNumber {
			out = append(out, appt)
		}
	}
	sortByTime(out)
	return out, nil
}

// Cancel implements core.AppointmentStore, cancelling the caller's first
// upcoming scheduled or confirmed appointment.
func (s *InMemoryStore) Cancel(_ context.Context, phoneNumber string) (core.CancelResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	bestIdx := -1
	for i, appt := range s.appts {
		if appt.PhoneNumber != phoneNumber || !appt.At.After(now) {
			continue
		}
		if appt.Status != core.AppointmentScheduled && appt.Status != core.AppointmentConfirmed {
			continue
		}
		if bestIdx == -1 || appt.At.Before(s.appts[bestIdx].At) {
			bestIdx = i
		}
	}
	if bestIdx == -1 {
		return core.CancelResult{Cancelled: false, Reason: "no upcoming appointment found"}, nil
	}
	s.appts[bestIdx].Status = core.AppointmentCancelled
	return core.CancelResult{Cancelled: true, AppointmentID: s.appts[bestIdx].ID}, nil
}

// slotTakenLocked reports an exact time collision among the caller's
// non-cancelled appointments on that day.
func (s *InMemoryStore) slotTakenLocked(phoneNumber string, slot time.Time) bool {
	for _, appt := range s.appts {
		if appt.PhoneNumber != phoneNumber || appt.Status == core.AppointmentCancelled {
			continue
		}
		if appt.At.Equal(slot) {
			return true
		}
	}
	return false
}

func sortByTime(appts []core.Appointment) {
	sort.Slice(appts, func(i, j int) bool { return appts[i].At.Before(appts[j].At) })
}
