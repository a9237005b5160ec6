package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/tywade1980/smart-incallservice/core"
	"github.com/tywade1980/smart-incallservice/logging"
)

// State is the manager lifecycle state.
type State int32

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateShuttingDown
	StateShutdown
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateShuttingDown:
		return "shutting_down"
	case StateShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// SystemAgentID is the author of synthetic responses the manager emits when
// no agent can be invoked.
const SystemAgentID = "system"

// ErrAlreadyInitialized is returned when Initialize is called twice.
var ErrAlreadyInitialized = errors.New("manager already initialized")

// Options configures a Manager.
type Options struct {
	// ResponseBufferSize sets channel buffering for ProcessInput streams.
	ResponseBufferSize int
	// Logger receives orchestration diagnostics.
	Logger logging.Logger
}

// Manager owns the agent registry and drives per-input processing. It is
// single-use: once shut down it cannot be re-initialized.
type Manager struct {
	registry *Registry
	pending  []core.Agent
	state    atomic.Int32
	logger   logging.Logger
	bufSize  int
}

// New constructs a Manager over the given agents. Agents are not initialized
// until Initialize is called.
func New(agents []core.Agent, optFns ...func(o *Options)) *Manager {
	opts := Options{ResponseBufferSize: 2, Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Manager{
		registry: NewRegistry(),
		pending:  agents,
		logger:   opts.Logger,
		bufSize:  opts.ResponseBufferSize,
	}
}

// State returns the current lifecycle state.
func (m *Manager) State() State { return State(m.state.Load()) }

// Registry exposes the agent registry (read-only use expected once Ready).
func (m *Manager) Registry() *Registry { return m.registry }

// Initialize fans agent initialization out concurrently. A failing agent is
// logged and omitted from the registry; it never aborts the manager or its
// siblings. There are no retries at this layer. Registration happens in the
// order agents were supplied so capability selection stays deterministic
// regardless of initialization timing.
func (m *Manager) Initialize(ctx context.Context) error {
	if !m.state.CompareAndSwap(int32(StateUninitialized), int32(StateInitializing)) {
		return ErrAlreadyInitialized
	}

	results := make([]error, len(m.pending))
	var wg sync.WaitGroup
	for i, agent := range m.pending {
		wg.Add(1)
		go func(i int, agent core.Agent) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					results[i] = fmt.Errorf("panic during initialization: %v", r)
				}
			}()
			results[i] = agent.Initialize(ctx)
		}(i, agent)
	}
	wg.Wait()

	for i, agent := range m.pending {
		if results[i] != nil {
			m.logger.Error("agent initialization failed, excluding from registry",
				"agent_id", agent.ID(), "error", results[i])
			continue
		}
		if err := m.registry.Register(agent); err != nil {
			m.logger.Error("agent registration failed", "agent_id", agent.ID(), "error", err)
		}
	}
	m.pending = nil

	m.state.Store(int32(StateReady))
	m.logger.Info("orchestrator ready", "agents", m.registry.Len())
	return nil
}

// ProcessInput routes one input through the pipeline and streams the
// resulting responses. The channel yields the primary response first, then at
// most one chained response, and is closed when processing completes; callers
// must consume it as a sequence, not a single value. Errors never propagate
// as Go errors: every failure mode surfaces as a synthetic confidence-0
// response authored by "system".
func (m *Manager) ProcessInput(ctx context.Context, input core.AgentInput, callCtx *core.CallContext) <-chan core.AgentResponse {
	out := make(chan core.AgentResponse, m.bufSize)

	go func() {
		defer close(out)
		defer func() {
			// Defense in depth: agent Process contracts forbid panics, but a
			// misbehaving agent must not take down the pipeline.
			if r := recover(); r != nil {
				m.logger.Error("recovered panic during input processing", "panic", r)
				m.emit(ctx, out, m.systemError("I'm sorry, something went wrong. Let me connect you with a team member."))
			}
		}()

		if m.State() != StateReady {
			m.emit(ctx, out, m.systemError("The service is not ready to take your request."))
			return
		}

		primary := m.selectPrimaryAgent(input, callCtx)
		if primary == nil {
			m.emit(ctx, out, m.systemError("No suitable agent available"))
			return
		}

		// Substitute the authoritative context; the input's own snapshot may
		// be stale.
		resp := primary.Process(ctx, input.WithContext(callCtx))
		if !m.emit(ctx, out, resp) {
			return
		}

		if resp.NextAgent == "" {
			return
		}
		next := m.registry.Get(resp.NextAgent)
		if next == nil {
			m.logger.Warn("suggested next agent not registered", "agent_id", resp.NextAgent)
			return
		}

		chained := core.NewInput(core.InputTypeSystemEvent, resp.Content, callCtx).
			WithMetadata(resp.Metadata)
		// Single hop only: whatever the chained response suggests is not
		// followed, which bounds the pipeline at two responses.
		m.emit(ctx, out, next.Process(ctx, chained))
	}()

	return out
}

// selectPrimaryAgent maps the input type (and, for system events, the
// context's intent) to a capability and returns the first registered agent
// declaring it.
func (m *Manager) selectPrimaryAgent(input core.AgentInput, callCtx *core.CallContext) core.Agent {
	var capability core.Capability
	switch input.Type {
	case core.InputTypeAudioSpeech:
		capability = core.CapabilitySpeechRecognition
	case core.InputTypeTextMessage:
		capability = core.CapabilityNaturalLanguage
	case core.InputTypeCallEvent:
		capability = core.CapabilityCallRouting
	case core.InputTypeUserCommand:
		capability = core.CapabilityCustomerService
	case core.InputTypeSystemEvent:
		capability = systemEventCapability(callCtx)
	default:
		return nil
	}
	return m.registry.FirstWithCapability(capability)
}

// systemEventCapability inspects the context's intent to decide which agent
// class should handle a system event.
func systemEventCapability(callCtx *core.CallContext) core.Capability {
	intent := ""
	if callCtx != nil {
		intent = callCtx.Intent
	}
	switch {
	case strings.Contains(intent, "appointment"):
		return core.CapabilityAppointmentScheduling
	case strings.Contains(intent, "information"):
		return core.CapabilityInformationRetrieval
	default:
		return core.CapabilityCustomerService
	}
}

// GetSystemHealth reports per-agent liveness. Pure aggregation, no side
// effects.
func (m *Manager) GetSystemHealth() map[string]bool {
	health := map[string]bool{}
	for _, agent := range m.registry.All() {
		health[agent.ID()] = agent.Healthy()
	}
	return health
}

// Shutdown stops all registered agents concurrently, then clears the
// registry. Individual shutdown failures are logged and do not block
// siblings. The manager cannot be re-initialized afterwards.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.state.Store(int32(StateShuttingDown))

	var wg sync.WaitGroup
	for _, agent := range m.registry.All() {
		wg.Add(1)
		go func(agent core.Agent) {
			defer wg.Done()
			if err := agent.Shutdown(ctx); err != nil {
				m.logger.Error("agent shutdown failed", "agent_id", agent.ID(), "error", err)
			}
		}(agent)
	}
	wg.Wait()

	m.registry.Clear()
	m.state.Store(int32(StateShutdown))
	m.logger.Info("orchestrator shut down")
	return nil
}

func (m *Manager) systemError(message string) core.AgentResponse {
	return core.NewErrorResponse(SystemAgentID, message)
}

// emit sends a response unless the context has been cancelled. It returns
// false when the send was abandoned.
func (m *Manager) emit(ctx context.Context, out chan<- core.AgentResponse, resp core.AgentResponse) bool {
	select {
	case out <- resp:
		return true
	case <-ctx.Done():
		return false
	}
}
