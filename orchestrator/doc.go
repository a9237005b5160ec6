// Package orchestrator selects, sequences and chains agents. The Manager is
// the pipeline's hard core: it initializes agents concurrently with isolated
// failure, selects a primary agent per input by capability and context,
// streams the primary response followed by at most one chained response, and
// aggregates system health. A Manager instance is single-use per process
// lifetime.
package orchestrator
