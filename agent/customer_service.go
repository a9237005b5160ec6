package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/tywade1980/smart-incallservice/core"
	"github.com/tywade1980/smart-incallservice/logging"
)

// alwaysEscalateIntents always hand the call to a human regardless of other
// context.
var alwaysEscalateIntents = map[string]bool{
	"emergency":               true,
	"legal_issue":             true,
	"refund_request":          true,
	"complex_technical_issue": true,
	"manager_request":         true,
}

// noResultEscalateIntents escalate when the knowledge base comes back empty.
var noResultEscalateIntents = map[string]bool{
	"billing_inquiry": true,
	"account_issue":   true,
	"service_problem": true,
}

// humanRequestPhrases are matched case-insensitively as substrings of the
// caller's last utterance.
var humanRequestPhrases = []string{
	"speak to a human",
	"talk to a person",
	"real person",
	"human operator",
	"speak to someone",
	"talk to an agent",
	"representative",
	"speak to your manager",
}

// CustomerServiceAgent answers questions from the knowledge base and owns the
// escalation policy.
type CustomerServiceAgent struct {
	BaseAgent
	kb core.KnowledgeBase
}

// CustomerServiceOptions configures the customer service agent.
type CustomerServiceOptions struct {
	Logger logging.Logger
}

// NewCustomerServiceAgent constructs the customer service agent backed by the
// given knowledge base.
func NewCustomerServiceAgent(kb core.KnowledgeBase, optFns ...func(o *CustomerServiceOptions)) *CustomerServiceAgent {
	opts := CustomerServiceOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &CustomerServiceAgent{
		BaseAgent: NewBaseAgent(CustomerServiceAgentID, "Customer Service Agent", 7, opts.Logger,
			core.CapabilityCustomerService, core.CapabilityInformationRetrieval, core.CapabilityContextAwareness),
		kb: kb,
	}
}

// Process answers the utterance, escalating to a human when policy demands.
func (a *CustomerServiceAgent) Process(ctx context.Context, input core.AgentInput) core.AgentResponse {
	query := strings.TrimSpace(input.Content)
	intent := ""
	if input.Context != nil {
		intent = input.Context.Intent
	}

	results, err := a.kb.Search(ctx, query, intent)
	if err != nil {
		a.Logger().Error("knowledge base search failed", "query", query, "error", err)
		return a.errorResponse("I'm sorry, I'm having trouble looking that up right now. Would you like to speak with a team member?")
	}

	if reason, escalate := a.shouldEscalateToHuman(intent, results, input.Context); escalate {
		a.Logger().Warn("escalating to human operator", "intent", intent, "reason", reason)
		// Escalation stops the pipeline: a human takes over, so no next
		// agent is suggested.
		return core.NewResponse(a.ID(), core.ResponseTypeText,
			"I understand. Let me connect you with a member of our team who can help you personally.", 0.9).
			WithMeta("escalation_reason", reason).
			WithAction(core.AgentAction{
				Type:     core.ActionRequestHuman,
				Params:   map[string]any{"reason": reason, "intent": intent},
				Priority: 9,
			}).
			WithDelta(&core.ContextDelta{TransferRequested: core.BoolPtr(true), IncrementResponses: true})
	}

	content, confidence := a.composeAnswer(intent, query, results)
	return core.NewResponse(a.ID(), core.ResponseTypeText, content, confidence).
		WithMeta("results_found", len(results)).
		WithDelta(&core.ContextDelta{IncrementResponses: true})
}

// composeAnswer wraps the top knowledge base hit in a per-intent template, or
// falls back to canned replies and finally a clarifying question.
func (a *CustomerServiceAgent) composeAnswer(intent, query string, results []core.KnowledgeResult) (string, float64) {
	if len(results) > 0 {
		top := results[0]
		switch intent {
		case "hours_inquiry":
			return fmt.Sprintf("Our hours are as follows: %s", top.Content), top.Confidence
		case "location_inquiry":
			return fmt.Sprintf("You can find us here: %s", top.Content), top.Confidence
		case "information_request":
			return fmt.Sprintf("Here's what I found about our services: %s", top.Content), top.Confidence
		default:
			return top.Content, top.Confidence
		}
	}

	switch intent {
	case "greeting":
		return "Hello! Thanks for calling. How can I help you today?", 0.9
	case "general_inquiry":
		return "I'd be happy to help. Could you tell me a bit more about what you're looking for?", 0.7
	case "complaint":
		return "I'm very sorry to hear that. Your feedback matters to us and I'd like to make this right.", 0.8
	case "thank_you":
		return "You're very welcome! Is there anything else I can do for you?", 0.9
	default:
		return "I want to make sure I help you with the right thing. Could you rephrase your question?", 0.5
	}
}

// shouldEscalateToHuman evaluates the ordered escalation triggers; any true
// trigger escalates.
func (a *CustomerServiceAgent) shouldEscalateToHuman(intent string, results []core.KnowledgeResult, callCtx *core.CallContext) (string, bool) {
	if alwaysEscalateIntents[intent] {
		return "sensitive_intent", true
	}
	if len(results) == 0 && noResultEscalateIntents[intent] {
		return "no_answer_for_account_issue", true
	}
	if callCtx != nil {
		lower := strings.ToLower(callCtx.LastUserInput)
		for _, phrase := range humanRequestPhrases {
			if strings.Contains(lower, phrase) {
				return "caller_requested_human", true
			}
		}
		if callCtx.Sentiment == "very_negative" || callCtx.Sentiment == "angry" {
			return "negative_sentiment", true
		}
	}
	return "", false
}
