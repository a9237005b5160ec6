package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tywade1980/smart-incallservice/core"
)

func TestNaturalLanguageAgent_ClassifiesIntents(t *testing.T) {
	a := NewNaturalLanguageAgent()
	tests := []struct {
		text   string
		intent string
	}{
		{"I'd like to book an appointment tomorrow", "appointment_booking"},
		{"I need to cancel my appointment", "appointment_cancellation"},
		{"Can I speak to a real person please", "transfer_request"},
		{"I have a question about my bill", "billing_inquiry"},
		{"This is urgent, I need help immediately", "emergency"},
		{"What are your business hours", "hours_inquiry"},
		{"Where are you located, I need the address", "location_inquiry"},
		{"Tell me about your service prices", "information_request"},
		{"Hello there", "greeting"},
		{"Thank you so much", "thank_you"},
		{"The weather is nice", "general_inquiry"},
	}
	for _, tt := range tests {
		intent, confidence := a.classifyIntent(tt.text)
		assert.Equal(t, tt.intent, intent, "text %q", tt.text)
		if tt.intent == "general_inquiry" {
			assert.Equal(t, 0.5, confidence)
		} else {
			assert.Equal(t, 0.8, confidence)
		}
	}
}

func TestNaturalLanguageAgent_EmergencyWinsOverLaterRules(t *testing.T) {
	a := NewNaturalLanguageAgent()
	// Matches both emergency and billing rules; the ordered table puts
	// emergency first.
	intent, _ := a.classifyIntent("urgent problem with my bill")
	assert.Equal(t, "emergency", intent)
}

func TestNaturalLanguageAgent_Process(t *testing.T) {
	a := NewNaturalLanguageAgent()
	callCtx := activeCall("+15550100")

	resp := a.Process(context.Background(), textInput("Hi, I'd like to book an appointment tomorrow at 2:00 PM", callCtx))

	assert.Equal(t, NaturalLanguageAgentID, resp.AgentID)
	assert.Equal(t, "appointment_booking", resp.Metadata["intent"])
	assert.Equal(t, "Hi, I'd like to book an appointment tomorrow at 2:00 PM", resp.Metadata["utterance"])
	assert.Equal(t, AppointmentAgentID, resp.NextAgent)
	assert.Equal(t, 0.8, resp.Confidence)

	require.NotNil(t, resp.ContextDelta)
	require.NotNil(t, resp.ContextDelta.Intent)
	assert.Equal(t, "appointment_booking", *resp.ContextDelta.Intent)
	require.NotNil(t, resp.ContextDelta.LastUserInput)
	assert.True(t, resp.ContextDelta.IncrementResponses)

	entities, ok := resp.Metadata["entities"].(map[string][]string)
	require.True(t, ok)
	assert.Equal(t, []string{"tomorrow"}, entities["dates"])
	assert.Equal(t, []string{"2:00 PM"}, entities["times"])
}

func TestNaturalLanguageAgent_EmergencyEscalatesImmediately(t *testing.T) {
	a := NewNaturalLanguageAgent()
	callCtx := activeCall("+15550100")

	resp := a.Process(context.Background(), textInput("This is an emergency", callCtx))

	assert.Equal(t, CallRoutingAgentID, resp.NextAgent)
	require.Len(t, resp.Actions, 1)
	assert.Equal(t, core.ActionRequestHuman, resp.Actions[0].Type)
	assert.Equal(t, 10, resp.Actions[0].Priority)
}

func TestNaturalLanguageAgent_TransferRequestAction(t *testing.T) {
	a := NewNaturalLanguageAgent()

	resp := a.Process(context.Background(), textInput("transfer me to an operator", activeCall("+15550100")))

	assert.Equal(t, "transfer_request", resp.Metadata["intent"])
	require.Len(t, resp.Actions, 1)
	assert.Equal(t, core.ActionRequestHuman, resp.Actions[0].Type)
	assert.Equal(t, 8, resp.Actions[0].Priority)
}

func TestNaturalLanguageAgent_BlankInputDegrades(t *testing.T) {
	a := NewNaturalLanguageAgent()

	resp := a.Process(context.Background(), textInput("   ", activeCall("+15550100")))

	assert.Zero(t, resp.Confidence)
	assert.Contains(t, resp.Content, "repeat")
}

func TestNaturalLanguageAgent_EngineComposesReply(t *testing.T) {
	a := NewNaturalLanguageAgent(func(o *NaturalLanguageOptions) {
		o.Engine = &fakeInference{reply: "Certainly, happy to help with that booking."}
	})

	resp := a.Process(context.Background(), textInput("book an appointment", activeCall("+15550100")))

	assert.Equal(t, "Certainly, happy to help with that booking.", resp.Content)
	// Rule-based classification stays authoritative.
	assert.Equal(t, "appointment_booking", resp.Metadata["intent"])
}

func TestNaturalLanguageAgent_EngineFailureFallsBack(t *testing.T) {
	a := NewNaturalLanguageAgent(func(o *NaturalLanguageOptions) {
		o.Engine = &fakeInference{err: errBackend}
	})

	resp := a.Process(context.Background(), textInput("book an appointment", activeCall("+15550100")))

	assert.Equal(t, "I'd be happy to help you book an appointment.", resp.Content)
	assert.Equal(t, 0.8, resp.Confidence)
}

func TestExtractEntities(t *testing.T) {
	entities := extractEntities("Call me at +1 555 010 0123 or jane@example.com on Friday at 3:30pm")

	assert.Len(t, entities["phone_numbers"], 1)
	assert.Equal(t, []string{"jane@example.com"}, entities["emails"])
	assert.Equal(t, []string{"Friday"}, entities["dates"])
	assert.Equal(t, []string{"3:30pm"}, entities["times"])
}

func TestScoreSentiment(t *testing.T) {
	assert.Equal(t, "positive", scoreSentiment("This is great, thank you"))
	assert.Equal(t, "negative", scoreSentiment("This is terrible and I'm upset"))
	assert.Equal(t, "neutral", scoreSentiment("I am calling about my account"))
	// One positive and one negative word tie to neutral.
	assert.Equal(t, "neutral", scoreSentiment("good but terrible"))
}

func TestScoreSentiment_MatchesWholeWordsOnly(t *testing.T) {
	// "badge" must not register as "bad", nor "whatever" as "hate".
	assert.Equal(t, "neutral", scoreSentiment("my badge reader is broken"))
	assert.Equal(t, "neutral", scoreSentiment("whatever works for you"))
	assert.Equal(t, "negative", scoreSentiment("I hate this badge reader"))
}
