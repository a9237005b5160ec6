package telephony

import (
	"context"
	"fmt"
	"sort"

	"github.com/tywade1980/smart-incallservice/core"
	"github.com/tywade1980/smart-incallservice/logging"
)

// ActionResult records the outcome of one executed action.
type ActionResult struct {
	Action core.AgentAction
	Err    error
}

// OK reports whether the action succeeded.
func (r ActionResult) OK() bool { return r.Err == nil }

// ExecutorOptions configure the action executor.
type ExecutorOptions struct {
	Logger *logging.CallLogger
}

// ActionExecutor translates agent actions into call-control and integration
// operations. One executor serves all calls; it is stateless apart from its
// collaborators.
type ActionExecutor struct {
	controller   core.CallController
	integrations core.IntegrationClient
	logger       *logging.CallLogger
}

// NewActionExecutor constructs an executor over the given collaborators.
// integrations may be nil when no external systems are wired; integration
// actions then fail with a structured error.
func NewActionExecutor(controller core.CallController, integrations core.IntegrationClient, optFns ...func(o *ExecutorOptions)) *ActionExecutor {
	opts := ExecutorOptions{
		Logger: logging.NewLogger(nil).WithComponent("action_executor"),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &ActionExecutor{controller: controller, integrations: integrations, logger: opts.Logger}
}

// Controller returns the call controller the executor drives.
func (e *ActionExecutor) Controller() core.CallController { return e.controller }

// Execute runs every action of the response in descending priority order.
// Equal priorities keep the order the agent emitted them in. A failed action
// does not stop the remaining ones; each outcome is returned and logged.
func (e *ActionExecutor) Execute(ctx context.Context, callID string, actions []core.AgentAction) []ActionResult {
	if len(actions) == 0 {
		return nil
	}

	ordered := make([]core.AgentAction, len(actions))
	copy(ordered, actions)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Priority > ordered[j].Priority })

	logger := e.logger.WithCall(callID)
	results := make([]ActionResult, 0, len(ordered))
	for _, action := range ordered {
		err := e.execute(ctx, callID, action)
		logger.LogActionExecution(string(action.Type), action.Priority, err == nil, err)
		results = append(results, ActionResult{Action: action, Err: err})
	}
	return results
}

func (e *ActionExecutor) execute(ctx context.Context, callID string, action core.AgentAction) error {
	switch action.Type {
	case core.ActionTransferCall:
		return e.controller.Transfer(ctx, callID, paramString(action, "destination"))
	case core.ActionEndCall:
		return e.controller.End(ctx, callID)
	case core.ActionHoldCall:
		hold := true
		if v, ok := action.Params["hold"].(bool); ok {
			hold = v
		}
		return e.controller.Hold(ctx, callID, hold)
	case core.ActionPlayAudio:
		return e.controller.PlayAudio(ctx, callID, paramString(action, "audio_ref"))
	case core.ActionRequestHuman:
		return e.controller.RequestOperator(ctx, callID, paramString(action, "department"), action.Priority)
	case core.ActionSendSMS:
		return e.integrationResult(func() core.IntegrationResult {
			return e.integrations.SendSMS(ctx, paramString(action, "to"), paramString(action, "message"))
		})
	case core.ActionSendEmail:
		return e.integrationResult(func() core.IntegrationResult {
			return e.integrations.SendEmail(ctx, paramString(action, "to"), paramString(action, "subject"), paramString(action, "body"))
		})
	case core.ActionTriggerIntegration:
		return e.integrationResult(func() core.IntegrationResult {
			payload, _ := action.Params["payload"].(map[string]any)
			return e.integrations.TriggerWebhook(ctx, paramString(action, "url"), payload)
		})
	case core.ActionScheduleAppt, core.ActionUpdateDatabase:
		// Handled inside the owning agents; reaching the executor means the
		// agent already performed the work and the action is informational.
		return nil
	default:
		return fmt.Errorf("unknown action type %q", action.Type)
	}
}

func (e *ActionExecutor) integrationResult(call func() core.IntegrationResult) error {
	if e.integrations == nil {
		return fmt.Errorf("no integration client configured")
	}
	if result := call(); !result.OK {
		return fmt.Errorf("integration call failed: %s", result.Err)
	}
	return nil
}

func paramString(action core.AgentAction, key string) string {
	s, _ := action.Params[key].(string)
	return s
}
