package agent

import (
	"context"
	"regexp"
	"strings"

	"github.com/tywade1980/smart-incallservice/core"
	"github.com/tywade1980/smart-incallservice/logging"
)

// intentRule pairs an intent name with the patterns that detect it. Rules are
// evaluated in order; the first matching pattern wins.
type intentRule struct {
	name     string
	patterns []*regexp.Regexp
}

const (
	intentMatchConfidence    = 0.8
	fallbackIntentConfidence = 0.5
	fallbackIntent           = "general_inquiry"
)

func defaultIntentRules() []intentRule {
	compile := func(exprs ...string) []*regexp.Regexp {
		out := make([]*regexp.Regexp, 0, len(exprs))
		for _, e := range exprs {
			out = append(out, regexp.MustCompile("(?i)"+e))
		}
		return out
	}
	return []intentRule{
		{"emergency", compile(`\bemergenc(y|ies)\b`, `\burgent(ly)?\b`, `\bright away\b`, `\bimmediately\b`)},
		{"appointment_booking", compile(`\b(book|schedule|make|set up)\b.*\bappointment\b`, `\bappointment\b.*\b(book|schedule)\b`, `\bneed to (book|schedule)\b`)},
		{"appointment_cancellation", compile(`\bcancel\b.*\bappointment\b`, `\bappointment\b.*\bcancel\b`)},
		{"transfer_request", compile(`\b(speak|talk)\b.*\b(human|person|agent|operator|representative|someone)\b`, `\btransfer me\b`, `\breal person\b`)},
		{"billing_inquiry", compile(`\b(bill|billing|invoice|charge|payment)\b`)},
		{"complaint", compile(`\b(complain|complaint|unacceptable|terrible service|awful)\b`)},
		{"hours_inquiry", compile(`\b(business |opening |office )?hours\b`, `\bwhen (are you|do you) open\b`, `\bwhat time.*\b(open|close)\b`)},
		{"location_inquiry", compile(`\bwhere (are you|is your)\b`, `\b(address|location|directions)\b`)},
		{"information_request", compile(`\b(what|how|tell me about|information)\b.*\b(service|price|cost|offer)\b`, `\bmore information\b`)},
		{"greeting", compile(`^\s*(hi|hello|hey|good (morning|afternoon|evening))\b`)},
		{"thank_you", compile(`\bthank(s| you)\b`)},
	}
}

// Entity extraction runs independently of intent classification; all matches
// are kept, not just the first.
var (
	phonePattern = regexp.MustCompile(`\+?\d[\d\s().-]{7,}\d`)
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	datePattern  = regexp.MustCompile(`(?i)\b(today|tomorrow|next week|monday|tuesday|wednesday|thursday|friday|saturday|sunday|\d{1,2}/\d{1,2}(/\d{2,4})?)\b`)
	timePattern  = regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}\s*(am|pm)?\b|\b\d{1,2}\s*(am|pm)\b`)
)

var positiveWords = []string{
	"great", "good", "excellent", "wonderful", "perfect", "thanks", "thank",
	"appreciate", "happy", "pleased", "love", "awesome", "helpful",
}

var negativeWords = []string{
	"bad", "terrible", "awful", "horrible", "angry", "upset", "frustrated",
	"annoyed", "disappointed", "unacceptable", "worst", "hate", "useless",
}

// nextAgentByIntent maps a detected intent to the agent best suited to act
// on it.
var nextAgentByIntent = map[string]string{
	"appointment_booking":      AppointmentAgentID,
	"appointment_cancellation": AppointmentAgentID,
	"transfer_request":         CallRoutingAgentID,
	"information_request":      CustomerServiceAgentID,
	"emergency":                CallRoutingAgentID,
}

// NaturalLanguageAgent classifies utterances into intents, extracts entities
// and scores sentiment using ordered rule tables. When an inference engine is
// available it phrases the reply; the rule-based path always remains the
// functional offline fallback and is authoritative for intent, entities and
// sentiment.
type NaturalLanguageAgent struct {
	BaseAgent
	rules     []intentRule
	engine    core.InferenceEngine
	maxTokens int
}

// NaturalLanguageOptions configures the NLU agent.
type NaturalLanguageOptions struct {
	// Engine, when non-nil, generates the reply text. Failure silently falls
	// back to the rule-based phrasing.
	Engine    core.InferenceEngine
	MaxTokens int
	Logger    logging.Logger
}

// NewNaturalLanguageAgent constructs the NLU agent.
func NewNaturalLanguageAgent(optFns ...func(o *NaturalLanguageOptions)) *NaturalLanguageAgent {
	opts := NaturalLanguageOptions{MaxTokens: 256, Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &NaturalLanguageAgent{
		BaseAgent: NewBaseAgent(NaturalLanguageAgentID, "Natural Language Agent", 9, opts.Logger,
			core.CapabilityNaturalLanguage, core.CapabilityMultiLanguage, core.CapabilityContextAwareness),
		rules:     defaultIntentRules(),
		engine:    opts.Engine,
		maxTokens: opts.MaxTokens,
	}
}

// Process classifies the utterance and reports intent, entities, sentiment
// and the suggested next agent.
func (a *NaturalLanguageAgent) Process(ctx context.Context, input core.AgentInput) core.AgentResponse {
	text := strings.TrimSpace(input.Content)
	if text == "" {
		return a.errorResponse("I didn't catch that. Could you please repeat?")
	}

	intent, confidence := a.classifyIntent(text)
	entities := extractEntities(text)
	sentiment := scoreSentiment(text)

	content := a.composeReply(ctx, text, intent)

	// The raw utterance travels in the metadata so chained agents can extract
	// from the caller's words rather than this agent's reply.
	resp := core.NewResponse(a.ID(), core.ResponseTypeText, content, confidence).
		WithMeta("intent", intent).
		WithMeta("sentiment", sentiment).
		WithMeta("entities", entities).
		WithMeta("utterance", text).
		WithDelta(&core.ContextDelta{
			Intent:             core.StringPtr(intent),
			Sentiment:          core.StringPtr(sentiment),
			LastUserInput:      core.StringPtr(text),
			IncrementResponses: true,
		})

	for _, action := range intentActions(intent) {
		resp = resp.WithAction(action)
	}

	next := CustomerServiceAgentID
	if mapped, ok := nextAgentByIntent[intent]; ok {
		next = mapped
	}
	return resp.WithNextAgent(next)
}

// classifyIntent walks the ordered rule table; first match wins at fixed
// confidence 0.8, otherwise general_inquiry at 0.5.
func (a *NaturalLanguageAgent) classifyIntent(text string) (string, float64) {
	for _, rule := range a.rules {
		for _, p := range rule.patterns {
			if p.MatchString(text) {
				return rule.name, intentMatchConfidence
			}
		}
	}
	return fallbackIntent, fallbackIntentConfidence
}

func (a *NaturalLanguageAgent) composeReply(ctx context.Context, text, intent string) string {
	if a.engine != nil {
		reply, err := a.engine.GenerateResponse(ctx, text, nil, a.maxTokens)
		if err == nil && strings.TrimSpace(reply) != "" {
			return reply
		}
		if err != nil {
			a.Logger().Warn("inference engine unavailable, using rule-based reply", "error", err)
		}
	}
	return ruleBasedReply(intent)
}

func ruleBasedReply(intent string) string {
	switch intent {
	case "greeting":
		return "Hello! How can I help you today?"
	case "appointment_booking":
		return "I'd be happy to help you book an appointment."
	case "appointment_cancellation":
		return "I can help you cancel your appointment."
	case "transfer_request":
		return "Of course, let me connect you with someone."
	case "emergency":
		return "I understand this is urgent. Getting you help right away."
	case "thank_you":
		return "You're welcome! Is there anything else I can help with?"
	default:
		return "I understand. Let me see how I can help you with that."
	}
}

// intentActions returns the actions an intent triggers at this stage:
// emergencies and transfer requests escalate immediately, everything else
// waits for downstream agents.
func intentActions(intent string) []core.AgentAction {
	switch intent {
	case "emergency":
		return []core.AgentAction{{
			Type:     core.ActionRequestHuman,
			Params:   map[string]any{"reason": "emergency"},
			Priority: 10,
		}}
	case "transfer_request":
		return []core.AgentAction{{
			Type:     core.ActionRequestHuman,
			Params:   map[string]any{"reason": "caller_request"},
			Priority: 8,
		}}
	default:
		return nil
	}
}

// extractEntities pulls phone numbers, emails and coarse date/time tokens.
// All matches are kept.
func extractEntities(text string) map[string][]string {
	entities := map[string][]string{}
	if m := phonePattern.FindAllString(text, -1); len(m) > 0 {
		entities["phone_numbers"] = m
	}
	if m := emailPattern.FindAllString(text, -1); len(m) > 0 {
		entities["emails"] = m
	}
	if m := datePattern.FindAllString(text, -1); len(m) > 0 {
		entities["dates"] = m
	}
	if m := timePattern.FindAllString(text, -1); len(m) > 0 {
		entities["times"] = m
	}
	return entities
}

// scoreSentiment counts positive versus negative keywords as whole words,
// so "badge" never registers as "bad"; ties are neutral.
func scoreSentiment(text string) string {
	words := tokenize(text)
	pos, neg := 0, 0
	for _, w := range positiveWords {
		if containsWord(words, w) {
			pos++
		}
	}
	for _, w := range negativeWords {
		if containsWord(words, w) {
			neg++
		}
	}
	switch {
	case pos > neg:
		return "positive"
	case neg > pos:
		return "negative"
	default:
		return "neutral"
	}
}
