package agent

import (
	"context"
	"strings"

	"github.com/tywade1980/smart-incallservice/core"
	"github.com/tywade1980/smart-incallservice/logging"
)

// VoiceSynthesisAgent turns reply text into audio through the speech
// collaborator, picking the speaking style recommended by emotion detection
// (carried in input metadata) or derived from the context's sentiment.
type VoiceSynthesisAgent struct {
	BaseAgent
	engine core.SpeechEngine
}

// VoiceSynthesisOptions configures the voice synthesis agent.
type VoiceSynthesisOptions struct {
	Logger logging.Logger
}

// NewVoiceSynthesisAgent constructs the voice synthesis agent.
func NewVoiceSynthesisAgent(engine core.SpeechEngine, optFns ...func(o *VoiceSynthesisOptions)) *VoiceSynthesisAgent {
	opts := VoiceSynthesisOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &VoiceSynthesisAgent{
		BaseAgent: NewBaseAgent(VoiceSynthesisAgentID, "Voice Synthesis Agent", 4, opts.Logger,
			core.CapabilityVoiceSynthesis, core.CapabilityMultiLanguage),
		engine: engine,
	}
}

// Process synthesizes the input text and emits a play-audio action carrying
// the audio reference.
func (a *VoiceSynthesisAgent) Process(ctx context.Context, input core.AgentInput) core.AgentResponse {
	text := strings.TrimSpace(input.Content)
	if text == "" {
		return a.errorResponse("There was nothing to say.")
	}

	language := "en"
	if input.Context != nil && input.Context.Language != "" {
		language = input.Context.Language
	}
	style := a.pickStyle(input)

	syn, err := a.engine.Synthesize(ctx, text, language, style)
	if err != nil {
		a.Logger().Error("synthesis failed", "style", style, "error", err)
		return a.errorResponse("I'm sorry, I couldn't generate a spoken response.")
	}

	return core.NewResponse(a.ID(), core.ResponseTypeSpeechOutput, text, 0.9).
		WithMeta("audio_ref", syn.AudioRef).
		WithMeta("duration_ms", syn.Duration.Milliseconds()).
		WithMeta("style", style).
		WithAction(core.AgentAction{
			Type:     core.ActionPlayAudio,
			Params:   map[string]any{"audio_ref": syn.AudioRef, "duration_ms": syn.Duration.Milliseconds()},
			Priority: 6,
		}).
		WithDelta(&core.ContextDelta{IncrementResponses: true})
}

// pickStyle prefers the style recommended by emotion detection, then the
// context's sentiment, then the neutral default.
func (a *VoiceSynthesisAgent) pickStyle(input core.AgentInput) string {
	if style := input.MetaString("response_style"); style != "" {
		return style
	}
	if input.Context != nil {
		if style, ok := styleByEmotion[input.Context.Sentiment]; ok {
			return style
		}
	}
	return defaultResponseStyle
}
