package speech

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tywade1980/smart-incallservice/core"
)

// wordsPerMinute approximates speaking pace for duration estimates.
const wordsPerMinute = 150

// StaticEngine is a core.SpeechEngine with scripted transcripts. Safe for
// concurrent use.
type StaticEngine struct {
	mu          sync.RWMutex
	transcripts map[string]core.Transcription
	synthCount  int
}

// NewStaticEngine constructs an engine with no scripted audio.
func NewStaticEngine() *StaticEngine {
	return &StaticEngine{transcripts: make(map[string]core.Transcription)}
}

// Script registers the transcription returned for an audio reference.
func (e *StaticEngine) Script(audioRef string, tr core.Transcription) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.transcripts[audioRef] = tr
}

// Transcribe implements core.SpeechEngine. Unknown references produce a
// blank transcription, mirroring a real engine hearing silence.
func (e *StaticEngine) Transcribe(_ context.Context, audioRef, _ string) (core.Transcription, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if tr, ok := e.transcripts[audioRef]; ok {
		return tr, nil
	}
	return core.Transcription{}, nil
}

// Synthesize implements core.SpeechEngine, producing a deterministic audio
// reference and a word-count based duration estimate.
func (e *StaticEngine) Synthesize(_ context.Context, text, language, style string) (core.Synthesis, error) {
	e.mu.Lock()
	e.synthCount++
	n := e.synthCount
	e.mu.Unlock()

	words := len(strings.Fields(text))
	duration := time.Duration(float64(words) / wordsPerMinute * float64(time.Minute))
	if duration <= 0 {
		duration = time.Second
	}
	return core.Synthesis{
		AudioRef: fmt.Sprintf("tts://%s/%s/%d", language, style, n),
		Duration: duration,
	}, nil
}
