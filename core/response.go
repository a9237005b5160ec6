package core

import "time"

// ResponseType categorizes an agent's output.
type ResponseType string

const (
	ResponseTypeSpeechOutput    ResponseType = "speech_output"
	ResponseTypeText            ResponseType = "text_response"
	ResponseTypeActionCommand   ResponseType = "action_command"
	ResponseTypeRoutingDecision ResponseType = "routing_decision"
	ResponseTypeDataQuery       ResponseType = "data_query"
	ResponseTypeIntegrationCall ResponseType = "integration_call"
)

// ActionType enumerates the side effects an agent may request. Actions are
// data only; execution belongs to the telephony/integration layer.
type ActionType string

const (
	ActionTransferCall       ActionType = "transfer_call"
	ActionEndCall            ActionType = "end_call"
	ActionHoldCall           ActionType = "hold_call"
	ActionPlayAudio          ActionType = "play_audio"
	ActionSendSMS            ActionType = "send_sms"
	ActionSendEmail          ActionType = "send_email"
	ActionScheduleAppt       ActionType = "schedule_appointment"
	ActionUpdateDatabase     ActionType = "update_database"
	ActionTriggerIntegration ActionType = "trigger_integration"
	ActionRequestHuman       ActionType = "request_human_operator"
)

// AgentAction is a requested side effect. Priority orders execution when a
// response carries several actions (higher executes first).
type AgentAction struct {
	Type     ActionType     `json:"type"`
	Params   map[string]any `json:"params,omitempty"`
	Priority int            `json:"priority"`
}

// AgentResponse is the immutable result of one agent invocation.
//
// NextAgent, when non-empty, asks the orchestrator to hand the response off
// to the named agent for exactly one further hop. ContextDelta carries the
// agent's requested mutations of the call context; the service layer applies
// it, the agent never mutates shared state directly.
type AgentResponse struct {
	ID           string         `json:"id"`
	AgentID      string         `json:"agent_id"`
	Type         ResponseType   `json:"type"`
	Content      string         `json:"content"`
	Confidence   float64        `json:"confidence"`
	Actions      []AgentAction  `json:"actions,omitempty"`
	NextAgent    string         `json:"next_agent,omitempty"`
	ContextDelta *ContextDelta  `json:"-"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
}

// NewResponse constructs a response with a fresh ID and timestamp.
func NewResponse(agentID string, t ResponseType, content string, confidence float64) AgentResponse {
	return AgentResponse{
		ID:         NewID(),
		AgentID:    agentID,
		Type:       t,
		Content:    content,
		Confidence: confidence,
		Metadata:   map[string]any{},
		Timestamp:  time.Now().UTC(),
	}
}

// NewErrorResponse builds the standard degraded response used for expected
// failure modes: confidence 0 and a human-readable message. No raw error text
// reaches the caller.
func NewErrorResponse(agentID, message string) AgentResponse {
	return NewResponse(agentID, ResponseTypeText, message, 0.0)
}

// WithAction returns a copy of the response with the action appended.
func (r AgentResponse) WithAction(a AgentAction) AgentResponse {
	actions := make([]AgentAction, len(r.Actions), len(r.Actions)+1)
	copy(actions, r.Actions)
	r.Actions = append(actions, a)
	return r
}

// WithNextAgent returns a copy of the response suggesting a chained agent.
func (r AgentResponse) WithNextAgent(agentID string) AgentResponse {
	r.NextAgent = agentID
	return r
}

// WithDelta returns a copy of the response carrying a context delta.
func (r AgentResponse) WithDelta(d *ContextDelta) AgentResponse {
	r.ContextDelta = d
	return r
}

// WithMeta returns a copy of the response with one metadata entry set.
func (r AgentResponse) WithMeta(key string, value any) AgentResponse {
	md := make(map[string]any, len(r.Metadata)+1)
	for k, v := range r.Metadata {
		md[k] = v
	}
	md[key] = value
	r.Metadata = md
	return r
}
