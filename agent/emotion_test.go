package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tywade1980/smart-incallservice/core"
)

func TestEmotionDetectionAgent_DetectsAngerWithIntensity(t *testing.T) {
	a := NewEmotionDetectionAgent()

	resp := a.Process(context.Background(), textInput("I'm extremely angry about this", activeCall("+15550100")))

	assert.Equal(t, "anger", resp.Metadata["emotion"])
	assert.Equal(t, "calm_empathetic", resp.Metadata["response_style"])
	assert.Equal(t, "high", resp.Metadata["intensity"])
	// A single keyword scaled by the "extremely" modifier dominates, but the
	// confidence stays within [0, 1].
	assert.Equal(t, 1.0, resp.Confidence)

	require.NotNil(t, resp.ContextDelta)
	require.NotNil(t, resp.ContextDelta.Sentiment)
	assert.Equal(t, "anger", *resp.ContextDelta.Sentiment)
	assert.Equal(t, core.ResponseTypeDataQuery, resp.Type)
}

func TestEmotionDetectionAgent_NoMatchesIsNeutral(t *testing.T) {
	a := NewEmotionDetectionAgent()

	resp := a.Process(context.Background(), textInput("I am calling about my invoice", activeCall("+15550100")))

	assert.Equal(t, "neutral", resp.Metadata["emotion"])
	assert.Equal(t, 0.5, resp.Confidence)
	assert.Equal(t, "neutral_professional", resp.Metadata["response_style"])
}

func TestEmotionDetectionAgent_BlankInputDegrades(t *testing.T) {
	a := NewEmotionDetectionAgent()
	resp := a.Process(context.Background(), textInput("  ", activeCall("+15550100")))
	assert.Zero(t, resp.Confidence)
}

func TestScoreEmotions_NormalizedByMatchCount(t *testing.T) {
	scores, matches := scoreEmotions("I'm angry and frustrated but the staff was great")

	assert.Equal(t, 3, matches)
	// Two anger hits and one joy hit, each weight 1.0, normalized by three.
	assert.InDelta(t, 2.0/3.0, scores["anger"], 1e-9)
	assert.InDelta(t, 1.0/3.0, scores["joy"], 1e-9)

	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestScoreEmotions_ModifierWindow(t *testing.T) {
	// "very" sits two words before "scared" and still applies: the amplified
	// fear hit outweighs the unmodified anger hit after normalization.
	scores, matches := scoreEmotions("I am very much scared and annoyed")
	assert.Equal(t, 2, matches)
	assert.InDelta(t, 1.5/2.5, scores["fear"], 1e-9)
	assert.InDelta(t, 1.0/2.5, scores["anger"], 1e-9)

	// Three words away is outside the window, so both hits weigh equally.
	scores, _ = scoreEmotions("very much of the scared and annoyed")
	assert.InDelta(t, 0.5, scores["fear"], 1e-9)
	assert.InDelta(t, 0.5, scores["anger"], 1e-9)
}

func TestScoreEmotions_AmplifiedScoresStayBounded(t *testing.T) {
	// Every hit carries the 2.0 modifier; normalization must still keep the
	// mapping summing to at most 1.0.
	scores, matches := scoreEmotions("extremely angry and extremely sad")
	assert.Equal(t, 2, matches)

	sum := 0.0
	for _, s := range scores {
		assert.LessOrEqual(t, s, 1.0)
		sum += s
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestScoreEmotions_DampeningModifier(t *testing.T) {
	scores, _ := scoreEmotions("I'm slightly worried")
	assert.InDelta(t, 0.6, scores["fear"], 1e-9)
}

func TestPrimaryEmotion_TieBreaksByDeclarationOrder(t *testing.T) {
	// One sadness hit and one joy hit score equally; sadness is declared
	// earlier in the lexicon.
	scores, _ := scoreEmotions("I was sad but now I'm happy")
	primary, confidence := primaryEmotion(scores)
	assert.Equal(t, "sadness", primary)
	assert.InDelta(t, 0.5, confidence, 1e-9)
}

func TestIntensityLabel(t *testing.T) {
	assert.Equal(t, "high", intensityLabel(0.8))
	assert.Equal(t, "medium", intensityLabel(0.6))
	assert.Equal(t, "low", intensityLabel(0.59))
}

func TestStyleByEmotion_CoversLexicon(t *testing.T) {
	for _, entry := range emotionLexicon {
		if entry.emotion == "neutral" {
			continue
		}
		assert.NotEmpty(t, styleByEmotion[entry.emotion], "emotion %q", entry.emotion)
	}
}
