// Package incallservice provides a high-level façade over the agent
// orchestrator and its collaborators for building an AI call receptionist.
// Most applications interact with this package by:
//  1. Creating a Service via New() (optionally overriding default in-memory collaborators)
//  2. Calling Initialize() to bring the agent fleet up
//  3. Feeding call lifecycle and caller input through StartCall / HandleAudio /
//     HandleText / EndCall
//
// The façade delegates agent selection and chaining to orchestrator.Manager
// while owning the per-call context, delta application and action execution.
// All defaults are safe for local development and testing; production
// deployments supply durable stores, real speech and inference engines and a
// platform call controller.
package incallservice

import (
	"context"
	"time"

	"github.com/tywade1980/smart-incallservice/agent"
	"github.com/tywade1980/smart-incallservice/core"
	"github.com/tywade1980/smart-incallservice/history"
	"github.com/tywade1980/smart-incallservice/knowledge"
	"github.com/tywade1980/smart-incallservice/logging"
	"github.com/tywade1980/smart-incallservice/orchestrator"
	"github.com/tywade1980/smart-incallservice/schedule"
	"github.com/tywade1980/smart-incallservice/speech"
	"github.com/tywade1980/smart-incallservice/telephony"
	"github.com/tywade1980/smart-incallservice/transcript"
)

// Options configures the Service. Any unset collaborator is initialized with
// an in-memory or logging implementation.
type Options struct {
	// History persists per-caller aggregates consumed by routing.
	History core.CallerHistoryStore
	// Knowledge backs customer service answers.
	Knowledge core.KnowledgeBase
	// Appointments persists bookings.
	Appointments core.AppointmentStore
	// Speech transcribes caller audio and synthesizes replies.
	Speech core.SpeechEngine
	// Inference, when non-nil, composes natural language replies. Nil keeps
	// the rule-based phrasing.
	Inference core.InferenceEngine
	// Integrations reaches external systems. Nil disables the integration
	// agent and external actions.
	Integrations core.IntegrationClient
	// Transcripts records who said what on each call.
	Transcripts core.TranscriptStore
	// Controller drives the call platform. Defaults to a logging stub.
	Controller core.CallController

	// RoutingRules overrides the built-in routing table.
	RoutingRules map[string]agent.RoutingDecision
	// OpenHour and CloseHour bound business hours for routing decisions.
	OpenHour  int
	CloseHour int
	// Now supplies the clock, overridable in tests.
	Now func() time.Time

	// ExtraAgents are registered after the built-in fleet.
	ExtraAgents []core.Agent
	// ResponseBufferSize sets channel buffering for orchestrator streams.
	ResponseBufferSize int

	Logger *logging.CallLogger
}

// Service is the call receptionist: an agent fleet behind an orchestrator,
// plus the per-call context store and action executor that turn agent
// responses into platform effects.
type Service struct {
	manager     *orchestrator.Manager
	contexts    *telephony.ContextStore
	executor    *telephony.ActionExecutor
	history     core.CallerHistoryStore
	transcripts core.TranscriptStore
	logger      *logging.CallLogger
	now         func() time.Time
}

// New creates a Service with the full built-in agent fleet. Collaborators
// not overridden via options default to in-memory implementations.
func New(optFns ...func(o *Options)) *Service {
	opts := Options{
		History:            history.NewInMemoryStore(),
		Knowledge:          knowledge.NewInMemoryStore(),
		Appointments:       schedule.NewInMemoryStore(),
		Speech:             speech.NewStaticEngine(),
		Transcripts:        transcript.NewInMemoryStore(),
		OpenHour:           9,
		CloseHour:          17,
		Now:                time.Now,
		ResponseBufferSize: 2,
		Logger:             logging.NewLogger(nil),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Controller == nil {
		opts.Controller = telephony.NewLoggingController(opts.Logger)
	}

	agentLogger := opts.Logger.WithComponent("agent")
	agents := []core.Agent{
		agent.NewSpeechRecognitionAgent(opts.Speech, func(o *agent.SpeechRecognitionOptions) {
			o.Logger = agentLogger
		}),
		agent.NewNaturalLanguageAgent(func(o *agent.NaturalLanguageOptions) {
			o.Engine = opts.Inference
			o.Logger = agentLogger
		}),
		agent.NewCallRoutingAgent(opts.History, func(o *agent.CallRoutingOptions) {
			if opts.RoutingRules != nil {
				o.Rules = opts.RoutingRules
			}
			o.Now = opts.Now
			o.OpenHour = opts.OpenHour
			o.CloseHour = opts.CloseHour
			o.Logger = agentLogger
		}),
		agent.NewCustomerServiceAgent(opts.Knowledge, func(o *agent.CustomerServiceOptions) {
			o.Logger = agentLogger
		}),
		agent.NewAppointmentAgent(opts.Appointments, func(o *agent.AppointmentOptions) {
			o.Now = opts.Now
			o.Logger = agentLogger
		}),
		agent.NewEmotionDetectionAgent(func(o *agent.EmotionDetectionOptions) {
			o.Logger = agentLogger
		}),
		agent.NewVoiceSynthesisAgent(opts.Speech, func(o *agent.VoiceSynthesisOptions) {
			o.Logger = agentLogger
		}),
	}
	if opts.Integrations != nil {
		agents = append(agents, agent.NewIntegrationAgent(opts.Integrations, func(o *agent.IntegrationAgentOptions) {
			o.Logger = agentLogger
		}))
	}
	agents = append(agents, opts.ExtraAgents...)

	manager := orchestrator.New(agents, func(o *orchestrator.Options) {
		o.ResponseBufferSize = opts.ResponseBufferSize
		o.Logger = opts.Logger.WithComponent("orchestrator")
	})

	return &Service{
		manager:  manager,
		contexts: telephony.NewContextStore(),
		executor: telephony.NewActionExecutor(opts.Controller, opts.Integrations, func(o *telephony.ExecutorOptions) {
			o.Logger = opts.Logger.WithComponent("action_executor")
		}),
		history:     opts.History,
		transcripts: opts.Transcripts,
		logger:      opts.Logger,
		now:         opts.Now,
	}
}

// Initialize brings the agent fleet up. Agents that fail to initialize are
// dropped with a log entry; the service stays usable with the rest.
func (s *Service) Initialize(ctx context.Context) error {
	return s.manager.Initialize(ctx)
}

// Shutdown stops all agents. The service cannot be reused afterwards.
func (s *Service) Shutdown(ctx context.Context) error {
	return s.manager.Shutdown(ctx)
}

// Health reports per-agent health keyed by agent ID.
func (s *Service) Health() map[string]bool { return s.manager.GetSystemHealth() }

// Manager exposes the underlying orchestrator for advanced callers.
func (s *Service) Manager() *orchestrator.Manager { return s.manager }

// CallContext returns a snapshot of a tracked call's context, or nil when
// the call is unknown.
func (s *Service) CallContext(callID string) *core.CallContext { return s.contexts.Get(callID) }

// StartCall registers a call, answers it when incoming and marks it active.
func (s *Service) StartCall(ctx context.Context, callID, phoneNumber string, incoming bool) (*core.CallContext, error) {
	callCtx, err := s.contexts.Start(callID, phoneNumber, incoming)
	if err != nil {
		return nil, err
	}
	s.logger.LogCallEvent(callID, "start", string(callCtx.State))

	if incoming {
		if err := s.executor.Controller().Answer(ctx, callID); err != nil {
			s.logger.WithCall(callID).Error("Answer failed", "error", err)
		}
	}
	if err := s.contexts.SetState(callID, core.CallStateActive); err != nil {
		return nil, err
	}
	return s.contexts.Get(callID), nil
}

// HandleAudio processes one chunk of caller audio: transcription, language
// understanding and whatever the selected agents decide. The returned
// responses are in emission order; context deltas have been applied and
// actions executed by the time it returns.
func (s *Service) HandleAudio(ctx context.Context, callID, audioRef string) ([]core.AgentResponse, error) {
	return s.process(ctx, callID, core.InputTypeAudioSpeech, audioRef)
}

// HandleText processes caller input that is already text, e.g. from an IVR
// transcript or a test harness.
func (s *Service) HandleText(ctx context.Context, callID, text string) ([]core.AgentResponse, error) {
	return s.process(ctx, callID, core.InputTypeTextMessage, text)
}

// HandleEvent processes a call platform event such as "hold" or "dtmf".
func (s *Service) HandleEvent(ctx context.Context, callID, event string) ([]core.AgentResponse, error) {
	return s.process(ctx, callID, core.InputTypeCallEvent, event)
}

func (s *Service) process(ctx context.Context, callID string, inputType core.InputType, content string) ([]core.AgentResponse, error) {
	callCtx := s.contexts.Get(callID)
	if callCtx == nil {
		return nil, telephony.ErrUnknownCall
	}
	if callCtx.Ended() {
		return nil, core.ErrContextEnded
	}

	// Audio content is a reference, not speech; the recognizer's response
	// carries the caller's words instead.
	if inputType == core.InputTypeTextMessage {
		s.appendTranscript(ctx, callID, core.SpeakerCaller, content)
	}

	input := core.NewInput(inputType, content, callCtx)
	var responses []core.AgentResponse
	for resp := range s.manager.ProcessInput(ctx, input, callCtx) {
		responses = append(responses, resp)
		s.appendTranscript(ctx, callID, resp.AgentID, resp.Content)

		if resp.ContextDelta != nil {
			updated, err := s.contexts.Apply(callID, resp.ContextDelta)
			if err != nil {
				s.logger.WithCall(callID).Error("Delta apply failed", "agent_id", resp.AgentID, "error", err)
			} else {
				callCtx = updated
			}
		}
		s.executor.Execute(ctx, callID, resp.Actions)
	}
	return responses, nil
}

func (s *Service) appendTranscript(ctx context.Context, callID, speaker, text string) {
	if text == "" {
		return
	}
	entry := core.TranscriptEntry{Speaker: speaker, Text: text, At: s.now()}
	if err := s.transcripts.Append(ctx, callID, entry); err != nil {
		s.logger.WithCall(callID).Error("Transcript append failed", "error", err)
	}
}

// Transcript returns the call's transcript in utterance order. Transcripts
// outlive EndCall so post-call processing can read them.
func (s *Service) Transcript(ctx context.Context, callID string) ([]core.TranscriptEntry, error) {
	return s.transcripts.Get(ctx, callID)
}

// EndCall marks the call terminal, hangs up and folds the outcome into the
// caller's history. Satisfaction may be nil when no score was collected.
func (s *Service) EndCall(ctx context.Context, callID string, satisfaction *float64) (*core.CallContext, error) {
	final, err := s.contexts.End(callID)
	if err != nil {
		return nil, err
	}
	s.logger.LogCallEvent(callID, "end", string(final.State))

	if err := s.executor.Controller().End(ctx, callID); err != nil {
		s.logger.WithCall(callID).Error("Hangup failed", "error", err)
	}
	if final.PhoneNumber != "" {
		if err := s.history.RecordCall(ctx, final.PhoneNumber, s.now(), satisfaction); err != nil {
			s.logger.WithCall(callID).Error("History record failed", "error", err)
		}
	}
	s.contexts.Remove(callID)
	return final, nil
}
