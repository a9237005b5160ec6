package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tywade1980/smart-incallservice/core"
)

func TestCustomerServiceAgent_AnswersFromKnowledgeBase(t *testing.T) {
	kb := &fakeKnowledge{results: []core.KnowledgeResult{
		{ID: "hours", Content: "Monday to Friday, 9 AM to 5 PM", Confidence: 0.85},
	}}
	a := NewCustomerServiceAgent(kb)
	callCtx := activeCall("+15550100")
	callCtx.Intent = "hours_inquiry"

	resp := a.Process(context.Background(), textInput("what are your hours", callCtx))

	assert.Equal(t, "Our hours are as follows: Monday to Friday, 9 AM to 5 PM", resp.Content)
	assert.Equal(t, 0.85, resp.Confidence)
	assert.Equal(t, 1, resp.Metadata["results_found"])
	assert.Equal(t, "hours_inquiry", kb.lastIntent)
	assert.Empty(t, resp.Actions)
}

func TestCustomerServiceAgent_NoResultsClarifies(t *testing.T) {
	a := NewCustomerServiceAgent(&fakeKnowledge{})
	callCtx := activeCall("+15550100")
	callCtx.Intent = "hours_inquiry"

	resp := a.Process(context.Background(), textInput("what are your holiday hours", callCtx))

	// hours_inquiry is not an account-class intent, so an empty result set
	// asks for clarification rather than escalating.
	assert.Contains(t, resp.Content, "rephrase")
	assert.Equal(t, 0.5, resp.Confidence)
	assert.Empty(t, resp.Actions)
}

func TestCustomerServiceAgent_EscalationTriggers(t *testing.T) {
	tests := []struct {
		name    string
		intent  string
		results []core.KnowledgeResult
		prepare func(callCtx *core.CallContext)
		reason  string
	}{
		{
			name:   "sensitive intent always escalates",
			intent: "refund_request",
			results: []core.KnowledgeResult{
				{Content: "refund policy", Confidence: 0.9},
			},
			reason: "sensitive_intent",
		},
		{
			name:   "account intent with no answer escalates",
			intent: "billing_inquiry",
			reason: "no_answer_for_account_issue",
		},
		{
			name:   "caller asked for a human",
			intent: "general_inquiry",
			prepare: func(callCtx *core.CallContext) {
				callCtx.LastUserInput = "I want to SPEAK TO A HUMAN right now"
			},
			reason: "caller_requested_human",
		},
		{
			name:   "angry sentiment escalates",
			intent: "general_inquiry",
			prepare: func(callCtx *core.CallContext) {
				callCtx.Sentiment = "angry"
			},
			reason: "negative_sentiment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewCustomerServiceAgent(&fakeKnowledge{results: tt.results})
			callCtx := activeCall("+15550100")
			callCtx.Intent = tt.intent
			if tt.prepare != nil {
				tt.prepare(callCtx)
			}

			resp := a.Process(context.Background(), textInput("help me", callCtx))

			assert.Equal(t, tt.reason, resp.Metadata["escalation_reason"])
			assert.Equal(t, 0.9, resp.Confidence)
			assert.Empty(t, resp.NextAgent)
			require.Len(t, resp.Actions, 1)
			assert.Equal(t, core.ActionRequestHuman, resp.Actions[0].Type)
			assert.Equal(t, 9, resp.Actions[0].Priority)
			require.NotNil(t, resp.ContextDelta)
			require.NotNil(t, resp.ContextDelta.TransferRequested)
			assert.True(t, *resp.ContextDelta.TransferRequested)
		})
	}
}

func TestCustomerServiceAgent_BillingWithAnswerDoesNotEscalate(t *testing.T) {
	kb := &fakeKnowledge{results: []core.KnowledgeResult{
		{Content: "Invoices are sent on the 1st.", Confidence: 0.8},
	}}
	a := NewCustomerServiceAgent(kb)
	callCtx := activeCall("+15550100")
	callCtx.Intent = "billing_inquiry"

	resp := a.Process(context.Background(), textInput("when are invoices sent", callCtx))

	assert.Empty(t, resp.Actions)
	assert.Equal(t, "Invoices are sent on the 1st.", resp.Content)
}

func TestCustomerServiceAgent_SearchFailureDegrades(t *testing.T) {
	a := NewCustomerServiceAgent(&fakeKnowledge{err: errBackend})

	resp := a.Process(context.Background(), textInput("hello", activeCall("+15550100")))

	assert.Zero(t, resp.Confidence)
	assert.Contains(t, resp.Content, "trouble looking that up")
}

func TestCustomerServiceAgent_CannedReplies(t *testing.T) {
	a := NewCustomerServiceAgent(&fakeKnowledge{})
	for intent, want := range map[string]string{
		"greeting":  "Hello! Thanks for calling.",
		"complaint": "I'm very sorry to hear that.",
		"thank_you": "You're very welcome!",
	} {
		callCtx := activeCall("+15550100")
		callCtx.Intent = intent
		resp := a.Process(context.Background(), textInput("...", callCtx))
		assert.Contains(t, resp.Content, want, "intent %q", intent)
	}
}
