package orchestrator

import (
	"fmt"
	"sync"

	"github.com/tywade1980/smart-incallservice/core"
)

// Registry holds initialized agents keyed by identifier. Registration order
// is preserved so capability lookups are deterministic: ByCapability returns
// agents in the order they were registered, making first-match selection
// stable across runs.
//
// The registry is written during Manager initialization, is read-only while
// the manager is Ready, and is cleared on shutdown. All methods are safe for
// concurrent use.
type Registry struct {
	mu     sync.RWMutex
	order  []string
	agents map[string]core.Agent
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{agents: make(map[string]core.Agent)}
}

// Register adds an agent. Registering a duplicate ID is an error.
func (r *Registry) Register(a core.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.agents[a.ID()]; exists {
		return fmt.Errorf("agent %q already registered", a.ID())
	}
	r.agents[a.ID()] = a
	r.order = append(r.order, a.ID())
	return nil
}

// Get returns the agent with the given ID, or nil when unknown.
func (r *Registry) Get(id string) core.Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.agents[id]
}

// ByCapability returns all agents declaring the capability, in registration
// order.
func (r *Registry) ByCapability(capability core.Capability) []core.Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []core.Agent
	for _, id := range r.order {
		agent := r.agents[id]
		for _, c := range agent.Capabilities() {
			if c == capability {
				out = append(out, agent)
				break
			}
		}
	}
	return out
}

// FirstWithCapability returns the first registered agent declaring the
// capability, or nil.
func (r *Registry) FirstWithCapability(capability core.Capability) core.Agent {
	if agents := r.ByCapability(capability); len(agents) > 0 {
		return agents[0]
	}
	return nil
}

// All returns every registered agent in registration order.
func (r *Registry) All() []core.Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.Agent, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.agents[id])
	}
	return out
}

// Len returns the number of registered agents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Clear removes all agents.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = nil
	r.agents = make(map[string]core.Agent)
}
