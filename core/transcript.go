package core

import (
	"context"
	"time"
)

// SpeakerCaller labels transcript entries spoken by the caller.
const SpeakerCaller = "caller"

// TranscriptEntry is one utterance on a call: who said it, what was said and
// when. Agent utterances use the agent ID as the speaker.
type TranscriptEntry struct {
	Speaker string    `json:"speaker"`
	Text    string    `json:"text"`
	At      time.Time `json:"at"`
}

// TranscriptStore persists per-call transcripts keyed by call ID. Transcripts
// outlive the call so post-call processing (quality review, summaries) can
// read them; callers delete explicitly when done.
type TranscriptStore interface {
	Append(ctx context.Context, callID string, entry TranscriptEntry) error

	// Get returns the call's entries in append order, or an empty slice for
	// an unknown call; absence is not an error.
	Get(ctx context.Context, callID string) ([]TranscriptEntry, error)

	// Delete drops the call's transcript. Deleting an unknown call is a no-op.
	Delete(ctx context.Context, callID string) error
}
