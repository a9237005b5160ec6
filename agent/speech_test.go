package agent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tywade1980/smart-incallservice/core"
)

func audioInput(audioRef string, callCtx *core.CallContext) core.AgentInput {
	return core.NewInput(core.InputTypeAudioSpeech, audioRef, callCtx)
}

func TestSpeechRecognitionAgent_Transcribes(t *testing.T) {
	engine := &fakeSpeech{transcription: core.Transcription{
		Text: "book an appointment", Confidence: 0.92, Language: "en-US",
	}}
	a := NewSpeechRecognitionAgent(engine)

	resp := a.Process(context.Background(), audioInput("audio-1", activeCall("+15550100")))

	assert.Equal(t, "book an appointment", resp.Content)
	assert.Equal(t, 0.92, resp.Confidence)
	assert.Equal(t, NaturalLanguageAgentID, resp.NextAgent)
	assert.Equal(t, "en-US", resp.Metadata["detected_language"])

	require.NotNil(t, resp.ContextDelta)
	require.NotNil(t, resp.ContextDelta.LastUserInput)
	assert.Equal(t, "book an appointment", *resp.ContextDelta.LastUserInput)
	require.NotNil(t, resp.ContextDelta.Language)
	assert.Equal(t, "en-US", *resp.ContextDelta.Language)
}

func TestSpeechRecognitionAgent_NoSpeechDetected(t *testing.T) {
	a := NewSpeechRecognitionAgent(&fakeSpeech{})

	resp := a.Process(context.Background(), audioInput("audio-1", activeCall("+15550100")))

	assert.Equal(t, true, resp.Metadata["no_speech_detected"])
	assert.Equal(t, 0.3, resp.Confidence)
	assert.Empty(t, resp.NextAgent)
	assert.Nil(t, resp.ContextDelta)
}

func TestSpeechRecognitionAgent_EngineFailureDegrades(t *testing.T) {
	a := NewSpeechRecognitionAgent(&fakeSpeech{transcribeErr: errBackend})

	resp := a.Process(context.Background(), audioInput("audio-1", activeCall("+15550100")))

	assert.Zero(t, resp.Confidence)
	assert.Contains(t, resp.Content, "trouble hearing you")
}

func TestVoiceSynthesisAgent_SynthesizesWithStyle(t *testing.T) {
	engine := &fakeSpeech{synthesis: core.Synthesis{AudioRef: "tts://1", Duration: 2 * time.Second}}
	a := NewVoiceSynthesisAgent(engine)

	input := core.NewInput(core.InputTypeSystemEvent, "Your appointment is booked.", activeCall("+15550100")).
		WithMetadata(map[string]any{"response_style": "calm_empathetic"})
	resp := a.Process(context.Background(), input)

	assert.Equal(t, core.ResponseTypeSpeechOutput, resp.Type)
	assert.Equal(t, "calm_empathetic", engine.lastStyle)
	assert.Equal(t, "tts://1", resp.Metadata["audio_ref"])

	require.Len(t, resp.Actions, 1)
	assert.Equal(t, core.ActionPlayAudio, resp.Actions[0].Type)
	assert.Equal(t, "tts://1", resp.Actions[0].Params["audio_ref"])
	assert.Equal(t, int64(2000), resp.Actions[0].Params["duration_ms"])
}

func TestVoiceSynthesisAgent_StyleFromContextSentiment(t *testing.T) {
	engine := &fakeSpeech{synthesis: core.Synthesis{AudioRef: "tts://2"}}
	a := NewVoiceSynthesisAgent(engine)
	callCtx := activeCall("+15550100")
	callCtx.Sentiment = "sadness"

	a.Process(context.Background(), core.NewInput(core.InputTypeSystemEvent, "I understand.", callCtx))

	assert.Equal(t, "supportive_understanding", engine.lastStyle)
}

func TestVoiceSynthesisAgent_DefaultStyle(t *testing.T) {
	engine := &fakeSpeech{synthesis: core.Synthesis{AudioRef: "tts://3"}}
	a := NewVoiceSynthesisAgent(engine)

	a.Process(context.Background(), core.NewInput(core.InputTypeSystemEvent, "Hello.", activeCall("+15550100")))

	assert.Equal(t, "neutral_professional", engine.lastStyle)
}

func TestVoiceSynthesisAgent_BlankTextDegrades(t *testing.T) {
	a := NewVoiceSynthesisAgent(&fakeSpeech{})
	resp := a.Process(context.Background(), core.NewInput(core.InputTypeSystemEvent, " ", activeCall("+15550100")))
	assert.Zero(t, resp.Confidence)
}

func TestIntegrationAgent_DispatchesCommands(t *testing.T) {
	client := &fakeIntegrations{result: core.IntegrationResult{OK: true, StatusCode: 200}}
	a := NewIntegrationAgent(client)
	callCtx := activeCall("+15550100")

	resp := a.Process(context.Background(), core.NewInput(core.InputTypeUserCommand, "crm", callCtx))
	assert.Equal(t, "Done.", resp.Content)
	assert.Equal(t, "crm", client.lastMethod)
	// Falls back to the caller's number when the command carries none.
	assert.Equal(t, []string{"+15550100"}, client.lastArgs)

	a.Process(context.Background(), core.NewInput(core.InputTypeUserCommand, "calendar 2026-03-05", callCtx))
	assert.Equal(t, "calendar", client.lastMethod)
	assert.Equal(t, []string{"2026-03-05"}, client.lastArgs)

	a.Process(context.Background(), core.NewInput(core.InputTypeUserCommand, "slack build failed", callCtx).
		WithMetadata(map[string]any{"channel": "#ops"}))
	assert.Equal(t, "slack", client.lastMethod)
	assert.Equal(t, []string{"#ops", "build failed"}, client.lastArgs)
}

func TestIntegrationAgent_UnknownCommand(t *testing.T) {
	a := NewIntegrationAgent(&fakeIntegrations{})

	resp := a.Process(context.Background(),
		core.NewInput(core.InputTypeUserCommand, "teleport home", activeCall("+15550100")))

	assert.Equal(t, 0.3, resp.Confidence)
	assert.Equal(t, "teleport", resp.Metadata["command"])
}

func TestIntegrationAgent_FailureIsStructured(t *testing.T) {
	client := &fakeIntegrations{result: core.IntegrationResult{OK: false, Err: "timeout"}}
	a := NewIntegrationAgent(client)

	resp := a.Process(context.Background(),
		core.NewInput(core.InputTypeUserCommand, "webhook https://example.com/hook", activeCall("+15550100")))

	assert.Equal(t, 0.2, resp.Confidence)
	assert.Equal(t, "timeout", resp.Metadata["error"])
}
