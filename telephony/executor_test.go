package telephony

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tywade1980/smart-incallservice/core"
)

// recordingController captures call-control operations in order.
type recordingController struct {
	ops  []string
	errs map[string]error
}

func (c *recordingController) record(op string) error {
	c.ops = append(c.ops, op)
	return c.errs[op]
}

func (c *recordingController) Answer(_ context.Context, _ string) error { return c.record("answer") }
func (c *recordingController) Transfer(_ context.Context, _, destination string) error {
	return c.record("transfer:" + destination)
}
func (c *recordingController) End(_ context.Context, _ string) error { return c.record("end") }
func (c *recordingController) Hold(_ context.Context, _ string, hold bool) error {
	if hold {
		return c.record("hold")
	}
	return c.record("resume")
}
func (c *recordingController) PlayAudio(_ context.Context, _, audioRef string) error {
	return c.record("play:" + audioRef)
}
func (c *recordingController) RequestOperator(_ context.Context, _, department string, _ int) error {
	return c.record("operator:" + department)
}

type stubIntegrations struct {
	result core.IntegrationResult
	calls  []string
}

func (s *stubIntegrations) record(name string) core.IntegrationResult {
	s.calls = append(s.calls, name)
	return s.result
}

func (s *stubIntegrations) Call(context.Context, string, string, map[string]string, []byte) core.IntegrationResult {
	return s.record("call")
}
func (s *stubIntegrations) LookupCRMContact(context.Context, string) core.IntegrationResult {
	return s.record("crm")
}
func (s *stubIntegrations) CheckCalendar(context.Context, string) core.IntegrationResult {
	return s.record("calendar")
}
func (s *stubIntegrations) SendEmail(context.Context, string, string, string) core.IntegrationResult {
	return s.record("email")
}
func (s *stubIntegrations) SendSMS(context.Context, string, string) core.IntegrationResult {
	return s.record("sms")
}
func (s *stubIntegrations) SendSlackMessage(context.Context, string, string) core.IntegrationResult {
	return s.record("slack")
}
func (s *stubIntegrations) TriggerWebhook(context.Context, string, map[string]any) core.IntegrationResult {
	return s.record("webhook")
}

func TestActionExecutor_OrdersByPriorityDescending(t *testing.T) {
	controller := &recordingController{}
	e := NewActionExecutor(controller, nil)

	actions := []core.AgentAction{
		{Type: core.ActionPlayAudio, Params: map[string]any{"audio_ref": "a"}, Priority: 3},
		{Type: core.ActionRequestHuman, Params: map[string]any{"department": "billing"}, Priority: 9},
		{Type: core.ActionTransferCall, Params: map[string]any{"destination": "front_desk"}, Priority: 5},
	}
	results := e.Execute(context.Background(), "call-1", actions)

	require.Len(t, results, 3)
	assert.Equal(t, []string{"operator:billing", "transfer:front_desk", "play:a"}, controller.ops)
}

func TestActionExecutor_EqualPriorityKeepsEmissionOrder(t *testing.T) {
	controller := &recordingController{}
	e := NewActionExecutor(controller, nil)

	actions := []core.AgentAction{
		{Type: core.ActionPlayAudio, Params: map[string]any{"audio_ref": "first"}, Priority: 5},
		{Type: core.ActionPlayAudio, Params: map[string]any{"audio_ref": "second"}, Priority: 5},
	}
	e.Execute(context.Background(), "call-1", actions)

	assert.Equal(t, []string{"play:first", "play:second"}, controller.ops)
}

func TestActionExecutor_FailureDoesNotStopRemaining(t *testing.T) {
	controller := &recordingController{errs: map[string]error{"transfer:ops": errors.New("line busy")}}
	e := NewActionExecutor(controller, nil)

	actions := []core.AgentAction{
		{Type: core.ActionTransferCall, Params: map[string]any{"destination": "ops"}, Priority: 9},
		{Type: core.ActionPlayAudio, Params: map[string]any{"audio_ref": "bye"}, Priority: 1},
	}
	results := e.Execute(context.Background(), "call-1", actions)

	require.Len(t, results, 2)
	assert.False(t, results[0].OK())
	assert.True(t, results[1].OK())
	assert.Equal(t, []string{"transfer:ops", "play:bye"}, controller.ops)
}

func TestActionExecutor_HoldAndResume(t *testing.T) {
	controller := &recordingController{}
	e := NewActionExecutor(controller, nil)

	e.Execute(context.Background(), "call-1", []core.AgentAction{
		{Type: core.ActionHoldCall, Priority: 2},
		{Type: core.ActionHoldCall, Params: map[string]any{"hold": false}, Priority: 1},
	})

	assert.Equal(t, []string{"hold", "resume"}, controller.ops)
}

func TestActionExecutor_IntegrationActions(t *testing.T) {
	integrations := &stubIntegrations{result: core.IntegrationResult{OK: true}}
	e := NewActionExecutor(&recordingController{}, integrations)

	results := e.Execute(context.Background(), "call-1", []core.AgentAction{
		{Type: core.ActionSendSMS, Params: map[string]any{"to": "+15550100", "message": "hi"}, Priority: 5},
		{Type: core.ActionSendEmail, Params: map[string]any{"to": "a@b.c", "subject": "s", "body": "b"}, Priority: 4},
		{Type: core.ActionTriggerIntegration, Params: map[string]any{"url": "https://x", "payload": map[string]any{"k": "v"}}, Priority: 3},
	})

	for _, r := range results {
		assert.True(t, r.OK())
	}
	assert.Equal(t, []string{"sms", "email", "webhook"}, integrations.calls)
}

func TestActionExecutor_IntegrationFailureIsReported(t *testing.T) {
	integrations := &stubIntegrations{result: core.IntegrationResult{OK: false, Err: "timeout"}}
	e := NewActionExecutor(&recordingController{}, integrations)

	results := e.Execute(context.Background(), "call-1", []core.AgentAction{
		{Type: core.ActionSendSMS, Params: map[string]any{"to": "+15550100", "message": "hi"}, Priority: 5},
	})

	require.Len(t, results, 1)
	assert.False(t, results[0].OK())
	assert.Contains(t, results[0].Err.Error(), "timeout")
}

func TestActionExecutor_NoIntegrationClient(t *testing.T) {
	e := NewActionExecutor(&recordingController{}, nil)

	results := e.Execute(context.Background(), "call-1", []core.AgentAction{
		{Type: core.ActionSendSMS, Params: map[string]any{"to": "+15550100", "message": "hi"}, Priority: 5},
	})

	require.Len(t, results, 1)
	assert.False(t, results[0].OK())
}

func TestActionExecutor_InformationalActionsSucceed(t *testing.T) {
	e := NewActionExecutor(&recordingController{}, nil)

	results := e.Execute(context.Background(), "call-1", []core.AgentAction{
		{Type: core.ActionScheduleAppt, Priority: 5},
		{Type: core.ActionUpdateDatabase, Priority: 4},
	})

	for _, r := range results {
		assert.True(t, r.OK())
	}
}

func TestActionExecutor_EmptyActions(t *testing.T) {
	e := NewActionExecutor(&recordingController{}, nil)
	assert.Nil(t, e.Execute(context.Background(), "call-1", nil))
}
