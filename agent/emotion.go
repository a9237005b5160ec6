package agent

import (
	"context"
	"strings"

	"github.com/tywade1980/smart-incallservice/core"
	"github.com/tywade1980/smart-incallservice/logging"
)

// emotionLexicon lists each emotion with its keyword set. The slice order is
// the declared tie-break order: when two emotions score equally, the one
// listed earlier wins.
var emotionLexicon = []struct {
	emotion  string
	keywords []string
}{
	{"anger", []string{"angry", "furious", "mad", "annoyed", "irritated", "outraged", "frustrated", "livid"}},
	{"sadness", []string{"sad", "unhappy", "depressed", "miserable", "heartbroken", "disappointed", "upset", "down"}},
	{"joy", []string{"happy", "glad", "delighted", "thrilled", "excited", "pleased", "wonderful", "great"}},
	{"fear", []string{"afraid", "scared", "worried", "anxious", "nervous", "terrified", "frightened", "concerned"}},
	{"surprise", []string{"surprised", "amazed", "astonished", "shocked", "stunned", "unexpected"}},
	{"disgust", []string{"disgusted", "revolted", "appalled", "gross", "horrible", "awful"}},
	{"neutral", []string{"okay", "fine", "alright", "normal"}},
}

// intensityModifiers scale a keyword hit when found within a two-word window
// around it.
var intensityModifiers = map[string]float64{
	"very":      1.5,
	"extremely": 2.0,
	"really":    1.3,
	"quite":     1.2,
	"somewhat":  0.8,
	"bit":       0.7, // covers "a bit"
	"slightly":  0.6,
}

// styleByEmotion maps the primary emotion to the speaking style voice
// synthesis should use.
var styleByEmotion = map[string]string{
	"anger":    "calm_empathetic",
	"sadness":  "supportive_understanding",
	"fear":     "reassuring_confident",
	"joy":      "enthusiastic_positive",
	"surprise": "informative_clarifying",
	"disgust":  "professional_apologetic",
}

const defaultResponseStyle = "neutral_professional"

// EmotionDetectionAgent scores utterances against a fixed emotion lexicon
// with intensity modifiers, and recommends a response style for downstream
// voice synthesis.
type EmotionDetectionAgent struct {
	BaseAgent
}

// EmotionDetectionOptions configures the emotion detection agent.
type EmotionDetectionOptions struct {
	Logger logging.Logger
}

// NewEmotionDetectionAgent constructs the emotion detection agent.
func NewEmotionDetectionAgent(optFns ...func(o *EmotionDetectionOptions)) *EmotionDetectionAgent {
	opts := EmotionDetectionOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &EmotionDetectionAgent{
		BaseAgent: NewBaseAgent(EmotionDetectionAgentID, "Emotion Detection Agent", 5, opts.Logger,
			core.CapabilityEmotionDetection, core.CapabilityContextAwareness),
	}
}

// Process scores the utterance and reports the primary emotion, intensity
// label and recommended response style.
func (a *EmotionDetectionAgent) Process(_ context.Context, input core.AgentInput) core.AgentResponse {
	text := strings.TrimSpace(input.Content)
	if text == "" {
		return a.errorResponse("I couldn't analyze that message.")
	}

	scores, matches := scoreEmotions(text)
	primary, confidence := primaryEmotion(scores)

	if matches == 0 {
		primary = "neutral"
		confidence = 0.5
	}

	style := styleByEmotion[primary]
	if style == "" {
		style = defaultResponseStyle
	}

	return core.NewResponse(a.ID(), core.ResponseTypeDataQuery,
		"Detected emotion: "+primary, confidence).
		WithMeta("emotion", primary).
		WithMeta("emotion_scores", scores).
		WithMeta("intensity", intensityLabel(confidence)).
		WithMeta("response_style", style).
		WithDelta(&core.ContextDelta{Sentiment: core.StringPtr(primary), IncrementResponses: true})
}

// scoreEmotions accumulates modifier-weighted keyword hits per emotion, then
// normalizes so scores sum to at most 1.0. The divisor is the match count, or
// the total weighted score when amplifying modifiers push it higher; without
// the latter a single "extremely"-modified hit would score 2.0.
func scoreEmotions(text string) (map[string]float64, int) {
	words := tokenize(text)
	scores := map[string]float64{}
	matches := 0
	total := 0.0

	for i, word := range words {
		for _, entry := range emotionLexicon {
			if !containsWord(entry.keywords, word) {
				continue
			}
			weight := 1.0 * modifierNear(words, i)
			scores[entry.emotion] += weight
			total += weight
			matches++
			break
		}
	}

	if matches > 0 {
		divisor := float64(matches)
		if total > divisor {
			divisor = total
		}
		for emotion := range scores {
			scores[emotion] /= divisor
		}
	}
	return scores, matches
}

// modifierNear scans a ±2-word window around position i; the first modifier
// found wins, defaulting to 1.0.
func modifierNear(words []string, i int) float64 {
	lo := max(0, i-2)
	hi := min(len(words)-1, i+2)
	for j := lo; j <= hi; j++ {
		if j == i {
			continue
		}
		if mult, ok := intensityModifiers[words[j]]; ok {
			return mult
		}
	}
	return 1.0
}

// primaryEmotion picks the max-scoring emotion, breaking ties by lexicon
// declaration order.
func primaryEmotion(scores map[string]float64) (string, float64) {
	best := ""
	bestScore := 0.0
	for _, entry := range emotionLexicon {
		if s, ok := scores[entry.emotion]; ok && s > bestScore {
			best = entry.emotion
			bestScore = s
		}
	}
	if best == "" {
		return "neutral", 0.0
	}
	return best, bestScore
}

func intensityLabel(confidence float64) string {
	switch {
	case confidence >= 0.8:
		return "high"
	case confidence >= 0.6:
		return "medium"
	default:
		return "low"
	}
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9') && r != '\''
	})
	return fields
}

func containsWord(words []string, w string) bool {
	for _, candidate := range words {
		if candidate == w {
			return true
		}
	}
	return false
}
