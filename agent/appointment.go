package agent

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tywade1980/smart-incallservice/core"
	"github.com/tywade1980/smart-incallservice/logging"
)

// AppointmentDetails holds the fields extracted from a booking request. All
// three must be present before a booking is attempted.
type AppointmentDetails struct {
	Date        *time.Time
	TimeOfDay   string // "15:04" (24h)
	ServiceType string
}

// IsComplete reports whether date, time and service type are all present.
func (d AppointmentDetails) IsComplete() bool {
	return d.Date != nil && d.TimeOfDay != "" && d.ServiceType != ""
}

// At combines the extracted date and time into a concrete slot.
func (d AppointmentDetails) At() time.Time {
	parts := strings.SplitN(d.TimeOfDay, ":", 2)
	hour, _ := strconv.Atoi(parts[0])
	minute := 0
	if len(parts) == 2 {
		minute, _ = strconv.Atoi(parts[1])
	}
	day := *d.Date
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

var apptTimePattern = regexp.MustCompile(`(?i)\b(\d{1,2}):(\d{2})\s*(am|pm)?\b`)

// serviceKeywords maps utterance keywords to a normalized service type.
// Order matters only for readability; the first keyword present wins.
var serviceKeywords = []struct {
	keyword string
	service string
}{
	{"consultation", "consultation"},
	{"consult", "consultation"},
	{"checkup", "checkup"},
	{"check-up", "checkup"},
	{"cleaning", "cleaning"},
	{"repair", "repair"},
	{"maintenance", "maintenance"},
	{"follow up", "follow_up"},
	{"follow-up", "follow_up"},
	{"meeting", "meeting"},
	{"estimate", "estimate"},
}

// AppointmentAgent handles booking, inquiry, cancellation and rescheduling
// through the scheduling collaborator.
type AppointmentAgent struct {
	BaseAgent
	store core.AppointmentStore
	now   func() time.Time
}

// AppointmentOptions configures the appointment agent.
type AppointmentOptions struct {
	// Now supplies the clock used to resolve relative dates like "tomorrow".
	Now    func() time.Time
	Logger logging.Logger
}

// NewAppointmentAgent constructs the appointment agent backed by the given
// store.
func NewAppointmentAgent(store core.AppointmentStore, optFns ...func(o *AppointmentOptions)) *AppointmentAgent {
	opts := AppointmentOptions{Now: time.Now, Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &AppointmentAgent{
		BaseAgent: NewBaseAgent(AppointmentAgentID, "Appointment Agent", 6, opts.Logger,
			core.CapabilityAppointmentScheduling, core.CapabilityContextAwareness),
		store: store,
		now:   opts.Now,
	}
}

// Process dispatches on the detected intent (or content keywords when the
// context carries none). Chained inputs carry the understanding agent's
// reply as content; the caller's own words arrive in the metadata and take
// precedence for extraction.
func (a *AppointmentAgent) Process(ctx context.Context, input core.AgentInput) core.AgentResponse {
	intent := ""
	phone := ""
	caller := ""
	if input.Context != nil {
		intent = input.Context.Intent
		phone = input.Context.PhoneNumber
		caller = input.Context.CallerName
	}
	// Chained metadata reflects this turn's classification; the context
	// snapshot may still carry the previous turn's intent.
	if m := input.MetaString("intent"); m != "" {
		intent = m
	}
	utterance := input.Content
	if u := input.MetaString("utterance"); u != "" {
		utterance = u
	}

	switch a.classify(intent, utterance) {
	case "booking":
		return a.handleBooking(ctx, utterance, phone, caller)
	case "inquiry":
		return a.handleInquiry(ctx, phone)
	case "cancellation":
		return a.handleCancellation(ctx, phone)
	case "reschedule":
		return a.handleReschedule(ctx, utterance, phone, caller)
	default:
		return core.NewResponse(a.ID(), core.ResponseTypeText,
			"I can help you book, check, reschedule or cancel an appointment. What would you like to do?", 0.7).
			WithDelta(&core.ContextDelta{IncrementResponses: true})
	}
}

func (a *AppointmentAgent) classify(intent, content string) string {
	lower := strings.ToLower(content)
	switch {
	case strings.Contains(intent, "cancel") || strings.Contains(lower, "cancel"):
		return "cancellation"
	case strings.Contains(intent, "resched") || strings.Contains(lower, "reschedule") || strings.Contains(lower, "move my appointment"):
		return "reschedule"
	case strings.Contains(intent, "booking") || strings.Contains(lower, "book") || strings.Contains(lower, "schedule"):
		return "booking"
	case strings.Contains(lower, "do i have") || strings.Contains(lower, "my appointment") || strings.Contains(lower, "when is"):
		return "inquiry"
	default:
		return "general"
	}
}

func (a *AppointmentAgent) handleBooking(ctx context.Context, text, phone, caller string) core.AgentResponse {
	details := a.extractDetails(text)
	if !details.IsComplete() {
		return a.askForMissing(details)
	}

	result, err := a.store.Book(ctx, core.Appointment{
		ID:          core.NewID(),
		PhoneNumber: phone,
		CallerName:  caller,
		ServiceType: details.ServiceType,
		At:          details.At(),
		Status:      core.AppointmentScheduled,
	})
	if err != nil {
		a.Logger().Error("booking failed", "phone", phone, "error", err)
		return a.errorResponse("I'm sorry, I couldn't complete your booking right now. Please try again in a moment.")
	}

	if !result.Booked {
		content := fmt.Sprintf("Unfortunately that slot isn't available: %s.", result.Reason)
		if len(result.Alternatives) > 0 {
			content += " Here are some alternatives: " + formatSlots(result.Alternatives) + "."
		}
		return core.NewResponse(a.ID(), core.ResponseTypeText, content, 0.8).
			WithMeta("alternatives", result.Alternatives).
			WithDelta(&core.ContextDelta{IncrementResponses: true})
	}

	slot := details.At()
	content := fmt.Sprintf("You're all set! Your %s is booked for %s.",
		details.ServiceType, slot.Format("Monday, January 2 at 3:04 PM"))
	return core.NewResponse(a.ID(), core.ResponseTypeText, content, 0.9).
		WithMeta("appointment_id", result.AppointmentID).
		WithAction(core.AgentAction{
			Type: core.ActionSendSMS,
			Params: map[string]any{
				"to":      phone,
				"message": fmt.Sprintf("Appointment confirmed: %s on %s.", details.ServiceType, slot.Format("Jan 2 at 3:04 PM")),
			},
			Priority: 5,
		}).
		WithDelta(&core.ContextDelta{IncrementResponses: true})
}

// askForMissing prompts for exactly the fields the caller omitted instead of
// attempting a partial booking.
func (a *AppointmentAgent) askForMissing(details AppointmentDetails) core.AgentResponse {
	var missing []string
	if details.Date == nil {
		missing = append(missing, "what day works for you")
	}
	if details.TimeOfDay == "" {
		missing = append(missing, "what time you'd prefer")
	}
	if details.ServiceType == "" {
		missing = append(missing, "what service you need")
	}
	content := "I'd be happy to book that. Could you tell me " + strings.Join(missing, " and ") + "?"
	return core.NewResponse(a.ID(), core.ResponseTypeText, content, 0.8).
		WithMeta("missing_fields", len(missing)).
		WithDelta(&core.ContextDelta{IncrementResponses: true})
}

func (a *AppointmentAgent) handleInquiry(ctx context.Context, phone string) core.AgentResponse {
	if phone == "" {
		return core.NewResponse(a.ID(), core.ResponseTypeText,
			"Could you share the phone number the appointment was booked under?", 0.7).
			WithDelta(&core.ContextDelta{IncrementResponses: true})
	}
	appts, err := a.store.ListByPhone(ctx, phone)
	if err != nil {
		a.Logger().Error("appointment lookup failed", "phone", phone, "error", err)
		return a.errorResponse("I'm sorry, I couldn't look up your appointments right now.")
	}
	upcoming := firstUpcoming(appts, a.now())
	if upcoming == nil {
		return core.NewResponse(a.ID(), core.ResponseTypeText,
			"I don't see any upcoming appointments for you. Would you like to book one?", 0.8).
			WithDelta(&core.ContextDelta{IncrementResponses: true})
	}
	content := fmt.Sprintf("Your next appointment is a %s on %s.",
		upcoming.ServiceType, upcoming.At.Format("Monday, January 2 at 3:04 PM"))
	return core.NewResponse(a.ID(), core.ResponseTypeText, content, 0.9).
		WithMeta("appointment_id", upcoming.ID).
		WithDelta(&core.ContextDelta{IncrementResponses: true})
}

func (a *AppointmentAgent) handleCancellation(ctx context.Context, phone string) core.AgentResponse {
	if phone == "" {
		return core.NewResponse(a.ID(), core.ResponseTypeText,
			"Could you share the phone number the appointment was booked under?", 0.7).
			WithDelta(&core.ContextDelta{IncrementResponses: true})
	}
	result, err := a.store.Cancel(ctx, phone)
	if err != nil {
		a.Logger().Error("cancellation failed", "phone", phone, "error", err)
		return a.errorResponse("I'm sorry, I couldn't cancel your appointment right now.")
	}
	if !result.Cancelled {
		return core.NewResponse(a.ID(), core.ResponseTypeText,
			"I couldn't find an upcoming appointment to cancel. "+result.Reason, 0.8).
			WithDelta(&core.ContextDelta{IncrementResponses: true})
	}
	return core.NewResponse(a.ID(), core.ResponseTypeText,
		"Your appointment has been cancelled. Is there anything else I can help with?", 0.9).
		WithMeta("appointment_id", result.AppointmentID).
		WithDelta(&core.ContextDelta{IncrementResponses: true})
}

func (a *AppointmentAgent) handleReschedule(ctx context.Context, text, phone, caller string) core.AgentResponse {
	// Reschedule is cancel-then-book: only proceed once the new slot is
	// fully specified.
	details := a.extractDetails(text)
	if !details.IsComplete() {
		return a.askForMissing(details)
	}
	result, err := a.store.Cancel(ctx, phone)
	if err != nil {
		a.Logger().Error("reschedule cancel failed", "phone", phone, "error", err)
		return a.errorResponse("I'm sorry, I couldn't reschedule your appointment right now.")
	}
	if !result.Cancelled {
		return core.NewResponse(a.ID(), core.ResponseTypeText,
			"I couldn't find an upcoming appointment to reschedule. Would you like to book a new one instead?", 0.8).
			WithDelta(&core.ContextDelta{IncrementResponses: true})
	}
	return a.handleBooking(ctx, text, phone, caller)
}

// extractDetails applies the keyword date heuristic, the HH:MM time regex and
// the service keyword table. There is no general date parser; unrecognized
// dates stay nil and trigger a follow-up question.
func (a *AppointmentAgent) extractDetails(text string) AppointmentDetails {
	details := AppointmentDetails{}
	lower := strings.ToLower(text)
	today := a.now()

	switch {
	case strings.Contains(lower, "today"):
		d := today
		details.Date = &d
	case strings.Contains(lower, "tomorrow"):
		d := today.AddDate(0, 0, 1)
		details.Date = &d
	case strings.Contains(lower, "next week"):
		d := today.AddDate(0, 0, 7)
		details.Date = &d
	}

	if m := apptTimePattern.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := m[2]
		switch strings.ToLower(m[3]) {
		case "pm":
			if hour < 12 {
				hour += 12
			}
		case "am":
			if hour == 12 {
				hour = 0
			}
		}
		details.TimeOfDay = fmt.Sprintf("%02d:%s", hour, minute)
	}

	for _, sk := range serviceKeywords {
		if strings.Contains(lower, sk.keyword) {
			details.ServiceType = sk.service
			break
		}
	}
	return details
}

func firstUpcoming(appts []core.Appointment, now time.Time) *core.Appointment {
	for i := range appts {
		appt := appts[i]
		if appt.At.After(now) && (appt.Status == core.AppointmentScheduled || appt.Status == core.AppointmentConfirmed) {
			return &appt
		}
	}
	return nil
}

func formatSlots(slots []time.Time) string {
	parts := make([]string, 0, len(slots))
	for _, s := range slots {
		parts = append(parts, s.Format("Mon Jan 2 at 3:04 PM"))
	}
	return strings.Join(parts, ", ")
}
