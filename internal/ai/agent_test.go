package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/greenthumb-labs/botanicalbuddy/internal/model"
)

type stubGenerator struct {
	answer string
	err    error
	prompt string
	calls  int
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.calls++
	s.prompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.answer, nil
}

func TestClassifyIntentBuckets(t *testing.T) {
	cases := map[string]Intent{
		"How do I care for my rose?":         IntentCare,
		"Are there pests on my monstera?":    IntentPest,
		"How much light does a fern need?":   IntentLighting,
		"Tell me about this plant":           IntentGeneral,
		"What LIGHTING should I use?":        IntentLighting,
		"pest or care first? care mentioned": IntentCare,
	}
	for question, want := range cases {
		require.Equal(t, want, ClassifyIntent(question), "question: %s", question)
	}
}

func TestClassifyIntentDeterministic(t *testing.T) {
	question := "Does my cactus need special care against pests in low light?"
	first := ClassifyIntent(question)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, ClassifyIntent(question))
	}
}

func TestAgentAnswerIncludesPlantContext(t *testing.T) {
	gen := &stubGenerator{answer: "Water twice a week."}
	agent := NewAgent(gen, AgentConfig{})
	plant := &model.Plant{
		CommonName:     "Rose",
		ScientificName: "Rosa rubiginosa",
	}

	result := agent.Answer(context.Background(), plant, "How do I care for my rose?")
	require.False(t, result.Degraded)
	require.Equal(t, "Water twice a week.", result.Answer)
	require.Equal(t, IntentCare, result.Intent)
	require.Equal(t, defaultSystemMessage, result.SystemMessage)
	require.Contains(t, gen.prompt, "Rose")
	require.Contains(t, gen.prompt, "Rosa rubiginosa")
	require.Contains(t, gen.prompt, "care instructions")
	require.True(t, strings.Contains(gen.prompt, "N/A"), "missing fields should render as N/A")
}

func TestAgentAnswerDegradedOnProviderError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("rate limited")}
	agent := NewAgent(gen, AgentConfig{})
	plant := &model.Plant{CommonName: "Fern"}

	result := agent.Answer(context.Background(), plant, "general question")
	require.True(t, result.Degraded)
	require.NotEmpty(t, result.Answer)
}

func TestAgentAnswerDegradedOnUnavailable(t *testing.T) {
	gen := &stubGenerator{err: ErrUnavailable}
	agent := NewAgent(gen, AgentConfig{})
	plant := &model.Plant{CommonName: "Fern"}

	result := agent.Answer(context.Background(), plant, "anything")
	require.True(t, result.Degraded)
	require.Contains(t, result.Answer, "unavailable")
}

func TestAgentAnswerDegradedWithoutGenerator(t *testing.T) {
	agent := NewAgent(nil, AgentConfig{SystemMessage: "custom preamble"})
	plant := &model.Plant{CommonName: "Fern"}

	result := agent.Answer(context.Background(), plant, "anything")
	require.True(t, result.Degraded)
	require.Equal(t, "custom preamble", result.SystemMessage)
}

func TestAgentAnswerDegradedOnEmptyResponse(t *testing.T) {
	gen := &stubGenerator{answer: "   "}
	agent := NewAgent(gen, AgentConfig{})
	plant := &model.Plant{CommonName: "Fern"}

	result := agent.Answer(context.Background(), plant, "anything")
	require.True(t, result.Degraded)
}
