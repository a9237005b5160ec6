package agent

import (
	"context"
	"strings"

	"github.com/tywade1980/smart-incallservice/core"
	"github.com/tywade1980/smart-incallservice/logging"
)

// IntegrationAgent dispatches user commands to external systems through the
// integration collaborator. Commands take the form "<verb> <args>"; unknown
// verbs are reported back, and collaborator failures become structured
// low-confidence responses.
type IntegrationAgent struct {
	BaseAgent
	client core.IntegrationClient
}

// IntegrationAgentOptions configures the integration agent.
type IntegrationAgentOptions struct {
	Logger logging.Logger
}

// NewIntegrationAgent constructs the integration agent.
func NewIntegrationAgent(client core.IntegrationClient, optFns ...func(o *IntegrationAgentOptions)) *IntegrationAgent {
	opts := IntegrationAgentOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &IntegrationAgent{
		BaseAgent: NewBaseAgent(IntegrationAgentID, "Integration Agent", 3, opts.Logger,
			core.CapabilityIntegration),
		client: client,
	}
}

// Process executes one integration command.
func (a *IntegrationAgent) Process(ctx context.Context, input core.AgentInput) core.AgentResponse {
	verb, arg := splitCommand(input.Content)

	var result core.IntegrationResult
	switch verb {
	case "crm":
		phone := arg
		if phone == "" && input.Context != nil {
			phone = input.Context.PhoneNumber
		}
		result = a.client.LookupCRMContact(ctx, phone)
	case "calendar":
		result = a.client.CheckCalendar(ctx, arg)
	case "email":
		result = a.client.SendEmail(ctx, input.MetaString("to"), input.MetaString("subject"), arg)
	case "sms":
		to := input.MetaString("to")
		if to == "" && input.Context != nil {
			to = input.Context.PhoneNumber
		}
		result = a.client.SendSMS(ctx, to, arg)
	case "slack":
		result = a.client.SendSlackMessage(ctx, input.MetaString("channel"), arg)
	case "webhook":
		result = a.client.TriggerWebhook(ctx, arg, input.Metadata)
	default:
		return core.NewResponse(a.ID(), core.ResponseTypeIntegrationCall,
			"I don't recognize that integration command.", 0.3).
			WithMeta("command", verb)
	}

	if !result.OK {
		a.Logger().Warn("integration call failed", "command", verb, "error", result.Err)
		return core.NewResponse(a.ID(), core.ResponseTypeIntegrationCall,
			"The external system didn't respond as expected. I've noted the issue.", 0.2).
			WithMeta("command", verb).
			WithMeta("error", result.Err)
	}

	resp := core.NewResponse(a.ID(), core.ResponseTypeIntegrationCall, "Done.", 0.9).
		WithMeta("command", verb).
		WithMeta("status_code", result.StatusCode)
	if result.Body != "" {
		resp = resp.WithMeta("body", result.Body)
	}
	if len(result.Data) > 0 {
		resp = resp.WithMeta("data", result.Data)
	}
	return resp
}

func splitCommand(content string) (verb, arg string) {
	parts := strings.SplitN(strings.TrimSpace(content), " ", 2)
	verb = strings.ToLower(parts[0])
	if len(parts) == 2 {
		arg = strings.TrimSpace(parts[1])
	}
	return verb, arg
}
