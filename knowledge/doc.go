// Package knowledge implements the knowledge base collaborator: a
// process-local store of titled entries searched with token-overlap scoring.
// Entries can be seeded in code or loaded from a YAML file so the content
// stays data. Swap for a real search index behind the same core.KnowledgeBase
// contract for production retrieval.
package knowledge
