// Package logging provides a tiny abstraction over slog so the rest of the
// service can depend on a minimal Logger interface while callers plug in any
// structured logger. It also offers a richer CallLogger with contextual
// helpers (call, agent, component) and domain specific helpers for agent
// turns, escalations and action execution.
package logging
