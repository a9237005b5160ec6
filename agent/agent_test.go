package agent

import (
	"context"
	"errors"
	"time"

	"github.com/tywade1980/smart-incallservice/core"
)

// Shared fakes for the collaborator contracts. Each fake returns canned data
// and records calls where a test needs to assert on them.

type fakeHistory struct {
	byPhone map[string]*core.CallerHistory
	err     error
}

func (f *fakeHistory) Get(_ context.Context, phone string) (*core.CallerHistory, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byPhone[phone], nil
}

func (f *fakeHistory) RecordCall(context.Context, string, time.Time, *float64) error { return nil }
func (f *fakeHistory) SetVIP(context.Context, string, bool) error                    { return nil }

type fakeKnowledge struct {
	results []core.KnowledgeResult
	err     error

	lastQuery  string
	lastIntent string
}

func (f *fakeKnowledge) Search(_ context.Context, query, intent string) ([]core.KnowledgeResult, error) {
	f.lastQuery = query
	f.lastIntent = intent
	return f.results, f.err
}

type fakeAppointments struct {
	bookResult   core.BookingResult
	bookErr      error
	listResult   []core.Appointment
	listErr      error
	cancelResult core.CancelResult
	cancelErr    error

	booked []core.Appointment
}

func (f *fakeAppointments) Book(_ context.Context, appt core.Appointment) (core.BookingResult, error) {
	f.booked = append(f.booked, appt)
	return f.bookResult, f.bookErr
}

func (f *fakeAppointments) ListByPhone(context.Context, string) ([]core.Appointment, error) {
	return f.listResult, f.listErr
}

func (f *fakeAppointments) Cancel(context.Context, string) (core.CancelResult, error) {
	return f.cancelResult, f.cancelErr
}

type fakeSpeech struct {
	transcription core.Transcription
	transcribeErr error
	synthesis     core.Synthesis
	synthesizeErr error

	lastText  string
	lastStyle string
}

func (f *fakeSpeech) Transcribe(context.Context, string, string) (core.Transcription, error) {
	return f.transcription, f.transcribeErr
}

func (f *fakeSpeech) Synthesize(_ context.Context, text, _, style string) (core.Synthesis, error) {
	f.lastText = text
	f.lastStyle = style
	return f.synthesis, f.synthesizeErr
}

type fakeInference struct {
	reply string
	err   error
}

func (f *fakeInference) GenerateResponse(context.Context, string, []string, int) (string, error) {
	return f.reply, f.err
}

type fakeIntegrations struct {
	result core.IntegrationResult

	lastMethod string
	lastArgs   []string
}

func (f *fakeIntegrations) record(method string, args ...string) core.IntegrationResult {
	f.lastMethod = method
	f.lastArgs = args
	return f.result
}

func (f *fakeIntegrations) Call(_ context.Context, endpoint, method string, _ map[string]string, _ []byte) core.IntegrationResult {
	return f.record("call", endpoint, method)
}

func (f *fakeIntegrations) LookupCRMContact(_ context.Context, phone string) core.IntegrationResult {
	return f.record("crm", phone)
}

func (f *fakeIntegrations) CheckCalendar(_ context.Context, date string) core.IntegrationResult {
	return f.record("calendar", date)
}

func (f *fakeIntegrations) SendEmail(_ context.Context, to, subject, body string) core.IntegrationResult {
	return f.record("email", to, subject, body)
}

func (f *fakeIntegrations) SendSMS(_ context.Context, to, message string) core.IntegrationResult {
	return f.record("sms", to, message)
}

func (f *fakeIntegrations) SendSlackMessage(_ context.Context, channel, message string) core.IntegrationResult {
	return f.record("slack", channel, message)
}

func (f *fakeIntegrations) TriggerWebhook(_ context.Context, url string, _ map[string]any) core.IntegrationResult {
	return f.record("webhook", url)
}

var errBackend = errors.New("backend unavailable")

func textInput(content string, callCtx *core.CallContext) core.AgentInput {
	return core.NewInput(core.InputTypeTextMessage, content, callCtx)
}

func activeCall(phone string) *core.CallContext {
	callCtx := core.NewCallContext("call-test", phone, true)
	callCtx.State = core.CallStateActive
	return callCtx
}
