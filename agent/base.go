package agent

import (
	"context"
	"sync"

	"github.com/tywade1980/smart-incallservice/core"
	"github.com/tywade1980/smart-incallservice/logging"
)

// Registry identifiers for the built-in agents. Chaining and next-agent
// lookups refer to agents by these IDs.
const (
	SpeechRecognitionAgentID = "speech_recognition_agent"
	NaturalLanguageAgentID   = "natural_language_agent"
	CallRoutingAgentID       = "call_routing_agent"
	CustomerServiceAgentID   = "customer_service_agent"
	AppointmentAgentID       = "appointment_agent"
	EmotionDetectionAgentID  = "emotion_detection_agent"
	VoiceSynthesisAgentID    = "voice_synthesis_agent"
	IntegrationAgentID       = "integration_agent"
)

// BaseAgent bundles identity, capability declaration and health bookkeeping
// shared by all concrete agents. Embed it and override Initialize where a
// collaborator needs to be checked. All exported methods are goroutine-safe.
type BaseAgent struct {
	id       string
	name     string
	priority int
	caps     []core.Capability
	logger   logging.Logger

	mu      sync.Mutex
	healthy bool
}

// NewBaseAgent constructs a BaseAgent with the given identity and
// capability set. The agent starts unhealthy until Initialize runs.
func NewBaseAgent(id, name string, priority int, logger logging.Logger, caps ...core.Capability) BaseAgent {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return BaseAgent{id: id, name: name, priority: priority, caps: caps, logger: logger}
}

// ID returns the registry identifier.
func (b *BaseAgent) ID() string { return b.id }

// Name returns the display name.
func (b *BaseAgent) Name() string { return b.name }

// Priority returns the tie-break hint.
func (b *BaseAgent) Priority() int { return b.priority }

// Capabilities returns a copy of the declared capability set.
func (b *BaseAgent) Capabilities() []core.Capability {
	caps := make([]core.Capability, len(b.caps))
	copy(caps, b.caps)
	return caps
}

// Initialize marks the agent healthy. Agents that acquire resources embed
// BaseAgent and call markHealthy themselves after setup succeeds.
func (b *BaseAgent) Initialize(_ context.Context) error {
	b.markHealthy(true)
	return nil
}

// Shutdown marks the agent unhealthy. Safe to call multiple times.
func (b *BaseAgent) Shutdown(_ context.Context) error {
	b.markHealthy(false)
	return nil
}

// Healthy reports liveness without I/O.
func (b *BaseAgent) Healthy() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.healthy
}

func (b *BaseAgent) markHealthy(h bool) {
	b.mu.Lock()
	b.healthy = h
	b.mu.Unlock()
}

// Logger returns the agent's logger.
func (b *BaseAgent) Logger() logging.Logger { return b.logger }

// errorResponse builds the standard degraded response for an expected
// failure: confidence 0 and an apologetic, human-readable message.
func (b *BaseAgent) errorResponse(message string) core.AgentResponse {
	return core.NewErrorResponse(b.id, message)
}
