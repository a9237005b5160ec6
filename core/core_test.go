package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextDelta_Apply(t *testing.T) {
	ctx := NewCallContext("call-1", "+15550001111", true)

	delta := &ContextDelta{
		Intent:             StringPtr("appointment_booking"),
		Sentiment:          StringPtr("neutral"),
		LastUserInput:      StringPtr("I need an appointment"),
		State:              StatePtr(CallStateActive),
		IncrementResponses: true,
		Metadata:           map[string]any{"detected_language": "en"},
	}

	require.NoError(t, delta.Apply(ctx))

	assert.Equal(t, "appointment_booking", ctx.Intent)
	assert.Equal(t, "neutral", ctx.Sentiment)
	assert.Equal(t, "I need an appointment", ctx.LastUserInput)
	assert.Equal(t, CallStateActive, ctx.State)
	assert.Equal(t, 1, ctx.AIResponseCount)
	assert.Equal(t, "en", ctx.Metadata["detected_language"])
}

func TestContextDelta_Apply_CounterOnlyIncreases(t *testing.T) {
	ctx := NewCallContext("call-2", "", true)
	for i := 0; i < 3; i++ {
		require.NoError(t, (&ContextDelta{IncrementResponses: true}).Apply(ctx))
	}
	assert.Equal(t, 3, ctx.AIResponseCount)
}

func TestContextDelta_Apply_EndedContextRejected(t *testing.T) {
	ctx := NewCallContext("call-3", "", true)
	now := time.Now().UTC()
	ctx.EndedAt = &now

	err := (&ContextDelta{Intent: StringPtr("anything")}).Apply(ctx)
	assert.ErrorIs(t, err, ErrContextEnded)
	assert.Empty(t, ctx.Intent)
}

func TestCallContext_Clone_Isolated(t *testing.T) {
	ctx := NewCallContext("call-4", "+15550002222", false)
	ctx.Metadata["key"] = "original"

	clone := ctx.Clone()
	clone.Intent = "mutated"
	clone.Metadata["key"] = "changed"

	assert.Empty(t, ctx.Intent)
	assert.Equal(t, "original", ctx.Metadata["key"])
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse("call_routing_agent", "I'm having trouble routing your call.")

	assert.Equal(t, "call_routing_agent", resp.AgentID)
	assert.Equal(t, ResponseTypeText, resp.Type)
	assert.Zero(t, resp.Confidence)
	assert.NotEmpty(t, resp.ID)
}

func TestAgentResponse_Builders(t *testing.T) {
	base := NewResponse("appointment_agent", ResponseTypeText, "booked", 0.9)

	withAction := base.WithAction(AgentAction{Type: ActionSendSMS, Priority: 5})
	assert.Empty(t, base.Actions, "builders must not mutate the original")
	require.Len(t, withAction.Actions, 1)
	assert.Equal(t, ActionSendSMS, withAction.Actions[0].Type)

	chained := base.WithNextAgent("voice_synthesis_agent").WithMeta("style", "enthusiastic_positive")
	assert.Empty(t, base.NextAgent)
	assert.Equal(t, "voice_synthesis_agent", chained.NextAgent)
	assert.Equal(t, "enthusiastic_positive", chained.Metadata["style"])
}

func TestAgentInput_WithContext(t *testing.T) {
	stale := NewCallContext("call-5", "", true)
	stale.Intent = "stale"
	fresh := NewCallContext("call-5", "", true)
	fresh.Intent = "fresh"

	in := NewInput(InputTypeTextMessage, "hello", stale)
	substituted := in.WithContext(fresh)

	assert.Equal(t, "stale", in.Context.Intent)
	assert.Equal(t, "fresh", substituted.Context.Intent)
	assert.Equal(t, in.ID, substituted.ID)
}
