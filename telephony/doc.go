// Package telephony bridges agent decisions back to the call platform. The
// ActionExecutor runs the side effects agents request, ordered by priority,
// and the ContextStore keeps the authoritative per-call context that agent
// deltas are applied to. Action outcomes are logged and reported to the
// caller of the executor; they are never fed back into agent processing.
package telephony
