package core

import "context"

// Capability identifies a class of work an agent can perform. Agents declare
// capabilities; the orchestrator selects agents by capability, never by
// concrete type.
type Capability string

const (
	CapabilitySpeechRecognition     Capability = "speech_recognition"
	CapabilityNaturalLanguage       Capability = "natural_language_understanding"
	CapabilityCallRouting           Capability = "call_routing"
	CapabilityAppointmentScheduling Capability = "appointment_scheduling"
	CapabilityInformationRetrieval  Capability = "information_retrieval"
	CapabilityCustomerService       Capability = "customer_service"
	CapabilityVoiceSynthesis        Capability = "voice_synthesis"
	CapabilityEmotionDetection      Capability = "emotion_detection"
	CapabilityContextAwareness      Capability = "context_awareness"
	CapabilityMultiLanguage         Capability = "multi_language"
	CapabilityIntegration           Capability = "integration_management"
)

// Agent is the contract every processing unit in the pipeline implements.
//
// Lifecycle: Initialize acquires external resources and must be idempotent;
// an agent whose Initialize fails is excluded from the registry. Shutdown
// releases resources and is safe to call more than once; after Shutdown,
// Healthy reports false.
//
// Process transforms exactly one AgentInput into exactly one AgentResponse.
// Expected failures (collaborator outages, malformed input) are converted
// into a confidence-0 response with a human-readable content string; Process
// never returns an error. The orchestrator additionally recovers panics as
// defense in depth.
type Agent interface {
	// ID returns the stable identifier used for registry lookups and chaining.
	ID() string

	// Name returns a human-readable display name.
	Name() string

	// Capabilities returns the declared capability set. It must be constant
	// for the lifetime of the agent.
	Capabilities() []Capability

	// Priority is a tie-break hint when multiple agents declare the same
	// capability. Higher values sort earlier. Selection otherwise preserves
	// registration order.
	Priority() int

	// Initialize acquires external resources. Idempotent.
	Initialize(ctx context.Context) error

	// Process handles one unit of work. It must not block past the context
	// and must not return a zero-value response.
	Process(ctx context.Context, input AgentInput) AgentResponse

	// Shutdown releases resources. Safe to call multiple times.
	Shutdown(ctx context.Context) error

	// Healthy is a cheap liveness probe performing no I/O.
	Healthy() bool
}
