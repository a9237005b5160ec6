// Package core defines the shared data model and contracts of the
// smart-incallservice pipeline: the Agent interface, per-call context,
// agent inputs/responses/actions, and the narrow collaborator contracts
// (speech, inference, knowledge base, scheduling, caller history,
// integrations, call control) the agents delegate to.
//
// Everything in this package is transport- and storage-agnostic. Concrete
// collaborator implementations live in their own packages (history,
// knowledge, schedule, speech, integration, model, telephony) and depend
// on core, never the other way around.
package core
