// Package agent contains the concrete agents of the receptionist pipeline:
// speech recognition, natural language understanding, call routing, customer
// service, appointment scheduling, emotion detection, voice synthesis and
// integrations.
//
// Every agent embeds BaseAgent for identity, capability declaration and
// lifecycle bookkeeping, and keeps its own rule tables as data so they stay
// independently testable and swappable. Heavy lifting (ASR/TTS, model
// inference, storage, network) is delegated to collaborators injected at
// construction time; agents convert collaborator failures into confidence-0
// responses instead of returning errors.
package agent
