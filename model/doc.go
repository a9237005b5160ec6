// Package model provides implementations of the inference collaborator
// (core.InferenceEngine): adapters over the OpenAI and Anthropic APIs in the
// openai and anthropic subpackages, and a static engine for offline use and
// tests. The natural language agent treats the engine as optional; any
// failure degrades to its rule-based path.
package model
