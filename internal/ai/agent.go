package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/greenthumb-labs/botanicalbuddy/internal/model"
)

const defaultSystemMessage = "You are a helpful botanical assistant."

// Intent is the response-style bucket picked for a question. Classification
// is a plain first-keyword match so the same question always lands in the
// same bucket.
type Intent string

const (
	IntentCare     Intent = "care"
	IntentPest     Intent = "pest"
	IntentLighting Intent = "lighting"
	IntentGeneral  Intent = "general"
)

// ClassifyIntent buckets a question by the first matching keyword,
// checked in a fixed order.
func ClassifyIntent(question string) Intent {
	q := strings.ToLower(question)
	switch {
	case strings.Contains(q, "care"):
		return IntentCare
	case strings.Contains(q, "pest"):
		return IntentPest
	case strings.Contains(q, "light"):
		return IntentLighting
	default:
		return IntentGeneral
	}
}

func intentInstructions(intent Intent) string {
	switch intent {
	case IntentCare:
		return "Provide detailed care instructions for this plant, including watering, sunlight, soil, and fertilization recommendations. Format your response as a bulleted list."
	case IntentPest:
		return "Identify potential pests that might affect this plant and suggest effective methods for pest control. Format your response as a numbered list."
	case IntentLighting:
		return "Describe the ideal lighting conditions for this plant (e.g., full sun, partial shade, indirect light)."
	default:
		return "Provide general information about this plant."
	}
}

// InferenceResult is what the agent always hands back. Degraded marks an
// answer synthesized from a provider failure instead of the model; such
// answers are displayable but must not be treated as authoritative.
type InferenceResult struct {
	Answer        string `json:"answer"`
	SystemMessage string `json:"system_message"`
	Intent        Intent `json:"intent"`
	Degraded      bool   `json:"degraded"`
}

type AgentConfig struct {
	SystemMessage string
	Timeout       int
}

// Agent turns a plant record plus a user question into an answer. Provider
// errors never escape Answer; they come back as a degraded result.
type Agent struct {
	gen           IGenerator
	systemMessage string
	timeout       time.Duration
}

func NewAgent(gen IGenerator, cfg AgentConfig) *Agent {
	msg := strings.TrimSpace(cfg.SystemMessage)
	if msg == "" {
		msg = defaultSystemMessage
	}
	return &Agent{
		gen:           gen,
		systemMessage: msg,
		timeout:       time.Duration(cfg.Timeout) * time.Second,
	}
}

func (a *Agent) Answer(ctx context.Context, plant *model.Plant, question string) InferenceResult {
	intent := ClassifyIntent(question)
	result := InferenceResult{
		SystemMessage: a.systemMessage,
		Intent:        intent,
	}
	if a.gen == nil {
		result.Answer = "The botanical assistant is not configured, so a fresh answer could not be generated."
		result.Degraded = true
		return result
	}
	prompt := a.buildPrompt(plant, question, intent)
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	resp, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		logutil.GetLogger(ctx).Error("answer generation failed",
			zap.String("plant", plant.CommonName),
			zap.String("intent", string(intent)),
			zap.Error(err),
		)
		result.Answer = degradedAnswer(err)
		result.Degraded = true
		return result
	}
	answer := strings.TrimSpace(resp)
	if answer == "" {
		result.Answer = "The botanical assistant returned no answer. Please try rephrasing your question."
		result.Degraded = true
		return result
	}
	result.Answer = answer
	return result
}

func (a *Agent) buildPrompt(plant *model.Plant, question string, intent Intent) string {
	return fmt.Sprintf(`%s

Plant Information:
- Common Name: %s
- Scientific Name: %s
- Description: %s
- Care Instructions: %s
- Soil Type: %s
- Water Requirements: %s
- Sunlight Requirements: %s

User Query: %s

%s`,
		a.systemMessage,
		orNA(plant.CommonName),
		orNA(plant.ScientificName),
		orNA(plant.Description),
		orNA(plant.CareInstructions),
		orNA(plant.SoilType),
		orNA(plant.WaterRequirements),
		orNA(plant.SunlightRequirements),
		question,
		intentInstructions(intent),
	)
}

func degradedAnswer(err error) string {
	switch {
	case errors.Is(err, ErrUnavailable):
		return "The botanical assistant is currently unavailable. Please try again later."
	case errors.Is(err, context.DeadlineExceeded):
		return "The botanical assistant took too long to respond. Please try again."
	default:
		return "The botanical assistant could not produce an answer right now. Please try again later."
	}
}

func orNA(value string) string {
	if strings.TrimSpace(value) == "" {
		return "N/A"
	}
	return value
}
