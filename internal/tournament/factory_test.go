package tournament

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ctchen222/LLM-Arena/internal/agent"
)

func TestFactory_Build(t *testing.T) {
	f := &Factory{
		GroqAPIKey:   "groq-key",
		GeminiAPIKey: "gemini-key",
		Retry:        agent.DefaultRetryOptions(),
	}

	tests := []struct {
		name    string
		spec    AgentSpec
		wantErr bool
	}{
		{name: "random", spec: AgentSpec{Kind: KindRandom, Name: "Rand"}},
		{name: "heuristic", spec: AgentSpec{Kind: KindHeuristic, Name: "Heur"}},
		{name: "groq with default model", spec: AgentSpec{Kind: KindGroq, Name: "Llama"}},
		{name: "gemini", spec: AgentSpec{Kind: KindGemini, Name: "Gem", Model: "gemini-2.0-flash"}},
		{name: "openai without key", spec: AgentSpec{Kind: KindOpenAI, Name: "GPT", Model: "gpt-4o"}, wantErr: true},
		{name: "unknown kind", spec: AgentSpec{Kind: "psychic", Name: "X"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := f.Build(tt.spec)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.spec.Name, p.Name())
		})
	}
}

func TestFactory_Build_MissingGroqKey(t *testing.T) {
	f := &Factory{Retry: agent.DefaultRetryOptions()}

	_, err := f.Build(AgentSpec{Kind: KindGroq, Name: "Llama"})
	require.Error(t, err)
}

func TestFactory_BuildAll(t *testing.T) {
	f := &Factory{}

	providers, err := f.BuildAll([]AgentSpec{
		{Kind: KindRandom, Name: "A"},
		{Kind: KindHeuristic, Name: "B"},
	})
	require.NoError(t, err)
	require.Len(t, providers, 2)
	assert.Equal(t, "A", providers[0].Name())

	_, err = f.BuildAll([]AgentSpec{{Kind: "bogus", Name: "C"}})
	require.Error(t, err)
}
