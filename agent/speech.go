package agent

import (
	"context"
	"strings"

	"github.com/tywade1980/smart-incallservice/core"
	"github.com/tywade1980/smart-incallservice/logging"
)

// SpeechRecognitionAgent is a thin wrapper around the speech collaborator.
// The input content carries an audio reference; the transcript is handed to
// the natural language agent for understanding.
type SpeechRecognitionAgent struct {
	BaseAgent
	engine core.SpeechEngine
}

// SpeechRecognitionOptions configures the speech recognition agent.
type SpeechRecognitionOptions struct {
	Logger logging.Logger
}

// NewSpeechRecognitionAgent constructs the speech recognition agent.
func NewSpeechRecognitionAgent(engine core.SpeechEngine, optFns ...func(o *SpeechRecognitionOptions)) *SpeechRecognitionAgent {
	opts := SpeechRecognitionOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &SpeechRecognitionAgent{
		BaseAgent: NewBaseAgent(SpeechRecognitionAgentID, "Speech Recognition Agent", 10, opts.Logger,
			core.CapabilitySpeechRecognition, core.CapabilityMultiLanguage),
		engine: engine,
	}
}

// Process transcribes the referenced audio. A blank transcription means no
// speech was detected; it is a normal outcome, not an error.
func (a *SpeechRecognitionAgent) Process(ctx context.Context, input core.AgentInput) core.AgentResponse {
	language := ""
	if input.Context != nil {
		language = input.Context.Language
	}

	tr, err := a.engine.Transcribe(ctx, input.Content, language)
	if err != nil {
		a.Logger().Error("transcription failed", "audio_ref", input.Content, "error", err)
		return a.errorResponse("I'm sorry, I'm having trouble hearing you. Could you try again?")
	}

	if strings.TrimSpace(tr.Text) == "" {
		return core.NewResponse(a.ID(), core.ResponseTypeText,
			"I didn't hear anything. Could you please speak up?", 0.3).
			WithMeta("no_speech_detected", true)
	}

	resp := core.NewResponse(a.ID(), core.ResponseTypeText, tr.Text, tr.Confidence).
		WithMeta("transcription_confidence", tr.Confidence).
		WithDelta(&core.ContextDelta{LastUserInput: core.StringPtr(tr.Text)})
	if tr.Language != "" {
		resp = resp.WithMeta("detected_language", tr.Language).
			WithDelta(&core.ContextDelta{
				LastUserInput: core.StringPtr(tr.Text),
				Language:      core.StringPtr(tr.Language),
			})
	}
	return resp.WithNextAgent(NaturalLanguageAgentID)
}
