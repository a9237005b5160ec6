package telephony

import (
	"context"

	"github.com/tywade1980/smart-incallservice/core"
	"github.com/tywade1980/smart-incallservice/logging"
)

// LoggingController is a CallController that records every call-control
// operation without touching a real telephony platform. It backs local
// development and tests; production deployments swap in a platform binding.
type LoggingController struct {
	logger *logging.CallLogger
}

// NewLoggingController constructs a controller that logs through the given
// logger, or a default one when nil.
func NewLoggingController(logger *logging.CallLogger) *LoggingController {
	if logger == nil {
		logger = logging.NewLogger(nil)
	}
	return &LoggingController{logger: logger.WithComponent("call_controller")}
}

// Answer implements core.CallController.
func (c *LoggingController) Answer(_ context.Context, callID string) error {
	c.logger.LogCallEvent(callID, "answer", string(core.CallStateActive))
	return nil
}

// Transfer implements core.CallController.
func (c *LoggingController) Transfer(_ context.Context, callID, destination string) error {
	c.logger.WithCall(callID).Info("Transferring call", "destination", destination)
	return nil
}

// End implements core.CallController.
func (c *LoggingController) End(_ context.Context, callID string) error {
	c.logger.LogCallEvent(callID, "end", string(core.CallStateDisconnected))
	return nil
}

// Hold implements core.CallController.
func (c *LoggingController) Hold(_ context.Context, callID string, hold bool) error {
	event, state := "hold", core.CallStateHolding
	if !hold {
		event, state = "resume", core.CallStateActive
	}
	c.logger.LogCallEvent(callID, event, string(state))
	return nil
}

// PlayAudio implements core.CallController.
func (c *LoggingController) PlayAudio(_ context.Context, callID, audioRef string) error {
	c.logger.WithCall(callID).Info("Playing audio", "audio_ref", audioRef)
	return nil
}

// RequestOperator implements core.CallController.
func (c *LoggingController) RequestOperator(_ context.Context, callID, department string, priority int) error {
	c.logger.WithCall(callID).WithContext("priority", priority).LogEscalation("", "operator requested", department)
	return nil
}
