package agent

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tywade1980/smart-incallservice/core"
	"github.com/tywade1980/smart-incallservice/logging"
)

// RoutingDecision is the per-request outcome of the routing rule table,
// adjusted for caller history and time of day. Decisions are derived fresh
// for every request and never persisted.
type RoutingDecision struct {
	Destination   string  `yaml:"destination"`
	Priority      int     `yaml:"priority"`
	RequiresHuman bool    `yaml:"requires_human"`
	Message       string  `yaml:"message"`
	Confidence    float64 `yaml:"confidence,omitempty"`
	NextAgent     string  `yaml:"next_agent,omitempty"`
}

const (
	maxRoutingPriority       = 10
	defaultRoutingConfidence = 0.8
	defaultSatisfaction      = 0.5
)

// DefaultRoutingRules returns the built-in intent-to-decision table. The
// table is data, not branching logic, so deployments can replace it wholesale
// (see LoadRoutingRules).
func DefaultRoutingRules() map[string]RoutingDecision {
	return map[string]RoutingDecision{
		"general_inquiry": {
			Destination: "front_desk",
			Priority:    3,
			Message:     "I can help you with that. What would you like to know?",
		},
		"information_request": {
			Destination: "front_desk",
			Priority:    3,
			Message:     "Let me find that information for you.",
		},
		"appointment_booking": {
			Destination: "appointment_scheduler",
			Priority:    5,
			Message:     "I'll help you schedule an appointment.",
			NextAgent:   AppointmentAgentID,
		},
		"transfer_request": {
			Destination:   "operator",
			Priority:      7,
			RequiresHuman: true,
			Message:       "I'm connecting you with an operator.",
		},
		"technical_support": {
			Destination:   "technical_support",
			Priority:      6,
			RequiresHuman: true,
			Message:       "Let me connect you with our technical support team.",
		},
		"billing_inquiry": {
			Destination:   "billing_department",
			Priority:      5,
			RequiresHuman: true,
			Message:       "I'm transferring you to our billing department.",
		},
		"complaint": {
			Destination:   "customer_relations",
			Priority:      7,
			RequiresHuman: true,
			Message:       "I'm sorry to hear that. Let me connect you with someone who can help.",
		},
		"emergency": {
			Destination:   "emergency_line",
			Priority:      10,
			RequiresHuman: true,
			Message:       "This sounds urgent. I'm connecting you immediately.",
		},
	}
}

// LoadRoutingRules reads an intent-to-decision table from a YAML file,
// letting deployments override the built-in rules without a rebuild.
func LoadRoutingRules(path string) (map[string]RoutingDecision, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read routing rules: %w", err)
	}
	rules := map[string]RoutingDecision{}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parse routing rules: %w", err)
	}
	return rules, nil
}

// CallRoutingAgent decides where a call should go. The pipeline is strictly
// ordered: base rule lookup, caller-history adjustment, time-of-day
// adjustment, then action construction.
type CallRoutingAgent struct {
	BaseAgent
	rules     map[string]RoutingDecision
	history   core.CallerHistoryStore
	now       func() time.Time
	openHour  int
	closeHour int
}

// CallRoutingOptions configures the routing agent.
type CallRoutingOptions struct {
	// Rules overrides the built-in routing table.
	Rules map[string]RoutingDecision
	// Now supplies the clock used for the after-hours adjustment.
	Now func() time.Time
	// OpenHour and CloseHour bound business hours; requires-human decisions
	// outside [OpenHour, CloseHour) degrade to automated handling.
	OpenHour  int
	CloseHour int
	Logger    logging.Logger
}

// NewCallRoutingAgent constructs the routing agent with the given caller
// history store.
func NewCallRoutingAgent(history core.CallerHistoryStore, optFns ...func(o *CallRoutingOptions)) *CallRoutingAgent {
	opts := CallRoutingOptions{
		Rules:     DefaultRoutingRules(),
		Now:       time.Now,
		OpenHour:  9,
		CloseHour: 17,
		Logger:    logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &CallRoutingAgent{
		BaseAgent: NewBaseAgent(CallRoutingAgentID, "Call Routing Agent", 8, opts.Logger,
			core.CapabilityCallRouting, core.CapabilityContextAwareness),
		rules:     opts.Rules,
		history:   history,
		now:       opts.Now,
		openHour:  opts.OpenHour,
		closeHour: opts.CloseHour,
	}
}

// Process derives a routing decision for the input's call context.
func (a *CallRoutingAgent) Process(ctx context.Context, input core.AgentInput) core.AgentResponse {
	callCtx := input.Context
	if callCtx == nil {
		return a.errorResponse("I'm sorry, I couldn't route your call. Let me connect you with someone who can help.")
	}

	decision := a.baseDecision(callCtx.Intent)
	satisfaction := defaultSatisfaction

	if callCtx.PhoneNumber != "" {
		hist, err := a.history.Get(ctx, callCtx.PhoneNumber)
		if err != nil {
			a.Logger().Error("caller history lookup failed", "phone", callCtx.PhoneNumber, "error", err)
			return a.errorResponse("I'm sorry, I couldn't route your call. Let me connect you with someone who can help.")
		}
		decision = a.adjustForHistory(decision, hist)
		if hist != nil {
			satisfaction = hist.AverageSatisfaction
		}
	}

	decision = a.adjustForTimeOfDay(decision)

	resp := core.NewResponse(a.ID(), core.ResponseTypeRoutingDecision, decision.Message, decision.Confidence).
		WithMeta("destination", decision.Destination).
		WithMeta("priority", decision.Priority).
		WithMeta("requires_human", decision.RequiresHuman).
		WithMeta("caller_satisfaction", satisfaction)

	for _, action := range a.buildActions(decision) {
		resp = resp.WithAction(action)
	}
	if decision.NextAgent != "" {
		resp = resp.WithNextAgent(decision.NextAgent)
	}
	if decision.RequiresHuman {
		resp = resp.WithDelta(&core.ContextDelta{TransferRequested: core.BoolPtr(true), IncrementResponses: true})
	} else {
		resp = resp.WithDelta(&core.ContextDelta{IncrementResponses: true})
	}
	return resp
}

func (a *CallRoutingAgent) baseDecision(intent string) RoutingDecision {
	if intent != "" {
		if d, ok := a.rules[intent]; ok {
			if d.Confidence == 0 {
				d.Confidence = defaultRoutingConfidence
			}
			return d
		}
	}
	d := a.rules["general_inquiry"]
	if d.Destination == "" {
		d = RoutingDecision{Destination: "front_desk", Priority: 3, Message: "I can help you with that."}
	}
	if d.Confidence == 0 {
		d.Confidence = defaultRoutingConfidence
	}
	return d
}

// adjustForHistory applies the caller-history rules in order: VIP first,
// then repeat dissatisfied callers, then first-time callers. A nil history
// means "no history" and leaves the decision untouched.
func (a *CallRoutingAgent) adjustForHistory(d RoutingDecision, hist *core.CallerHistory) RoutingDecision {
	if hist == nil {
		return d
	}
	switch {
	case hist.VIP:
		d.Priority = min(d.Priority+3, maxRoutingPriority)
		d.RequiresHuman = true
		d.Message = "Thank you for being a valued customer. Connecting you with our priority service."
	case hist.CallCount > 5 && hist.AverageSatisfaction < 0.6:
		d.RequiresHuman = true
		d.Priority = min(d.Priority+2, maxRoutingPriority)
		d.Message = "I see you've called us a few times. Let me get you personalized assistance."
	case hist.CallCount <= 1:
		d.Message = "Welcome! " + d.Message
	}
	return d
}

// adjustForTimeOfDay degrades requires-human decisions outside business
// hours so calls still get automated handling when no operator is available.
func (a *CallRoutingAgent) adjustForTimeOfDay(d RoutingDecision) RoutingDecision {
	hour := a.now().Hour()
	if (hour < a.openHour || hour >= a.closeHour) && d.RequiresHuman {
		d.RequiresHuman = false
		d.Message += " Our team is currently unavailable, but I'll do my best to assist you."
		d.NextAgent = CustomerServiceAgentID
	}
	return d
}

func (a *CallRoutingAgent) buildActions(d RoutingDecision) []core.AgentAction {
	switch {
	case d.RequiresHuman:
		return []core.AgentAction{{
			Type:     core.ActionRequestHuman,
			Params:   map[string]any{"department": d.Destination, "priority": d.Priority},
			Priority: d.Priority,
		}}
	case d.Destination == "appointment_scheduler":
		// The appointment agent handles this downstream; no call-control
		// action is needed.
		return nil
	default:
		return []core.AgentAction{{
			Type:     core.ActionTransferCall,
			Params:   map[string]any{"destination": d.Destination},
			Priority: d.Priority,
		}}
	}
}
