package core

import (
	"context"
	"time"
)

// Transcription is the result of a speech-to-text request. A blank Text means
// no speech was detected; engines signal that through a blank result, never
// through an error.
type Transcription struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Language   string  `json:"language,omitempty"`
}

// Synthesis is the result of a text-to-speech request: a reference to the
// produced audio and its duration.
type Synthesis struct {
	AudioRef string        `json:"audio_ref"`
	Duration time.Duration `json:"duration"`
}

// SpeechEngine is the speech collaborator: STT over an audio reference and
// TTS with a language and speaking style.
type SpeechEngine interface {
	Transcribe(ctx context.Context, audioRef, language string) (Transcription, error)
	Synthesize(ctx context.Context, text, language, style string) (Synthesis, error)
}
