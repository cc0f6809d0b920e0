package tournament

import (
	"fmt"

	"ctchen222/LLM-Arena/internal/agent"
	"ctchen222/LLM-Arena/internal/bot"
	"ctchen222/LLM-Arena/internal/validator"
)

// Agent kinds accepted by the factory.
const (
	KindGroq      = "groq"
	KindOpenAI    = "openai"
	KindGemini    = "gemini"
	KindRandom    = "random"
	KindHeuristic = "heuristic"
)

// AgentSpec describes one participant to build.
type AgentSpec struct {
	Kind        string  `json:"kind" validate:"required,oneof=groq openai gemini random heuristic"`
	Name        string  `json:"name" validate:"required"`
	Model       string  `json:"model,omitempty"`
	BaseURL     string  `json:"base_url,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// Default models per provider.
const (
	DefaultGroqModel   = "llama-3.3-70b-versatile"
	DefaultGeminiModel = "gemini-2.0-flash"
	defaultTemperature = 0.2
)

// Factory builds move providers from specs. Model-backed agents are wrapped
// with the configured retry policy.
type Factory struct {
	GroqAPIKey   string
	OpenAIAPIKey string
	GeminiAPIKey string
	Retry        agent.RetryOptions
}

// Build constructs the provider described by spec.
func (f *Factory) Build(spec AgentSpec) (agent.MoveProvider, error) {
	if err := validator.Struct(&spec); err != nil {
		return nil, fmt.Errorf("invalid agent spec: %w", err)
	}

	temperature := spec.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}

	switch spec.Kind {
	case KindRandom:
		return agent.NewRandomAgent(spec.Name), nil

	case KindHeuristic:
		return bot.NewSelector(spec.Name), nil

	case KindGroq:
		if f.GroqAPIKey == "" {
			return nil, fmt.Errorf("agent %s: GROQ_API_KEY is not set", spec.Name)
		}
		model := spec.Model
		if model == "" {
			model = DefaultGroqModel
		}
		inner := agent.NewOpenAIAgent(spec.Name, agent.GroqBaseURL, f.GroqAPIKey, model, float32(temperature))
		return agent.WithRetry(inner, f.Retry), nil

	case KindOpenAI:
		if f.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("agent %s: OPENAI_API_KEY is not set", spec.Name)
		}
		if spec.Model == "" {
			return nil, fmt.Errorf("agent %s: openai agents need an explicit model", spec.Name)
		}
		inner := agent.NewOpenAIAgent(spec.Name, spec.BaseURL, f.OpenAIAPIKey, spec.Model, float32(temperature))
		return agent.WithRetry(inner, f.Retry), nil

	case KindGemini:
		if f.GeminiAPIKey == "" {
			return nil, fmt.Errorf("agent %s: GEMINI_API_KEY is not set", spec.Name)
		}
		model := spec.Model
		if model == "" {
			model = DefaultGeminiModel
		}
		inner := agent.NewGeminiAgent(spec.Name, f.GeminiAPIKey, model, temperature)
		return agent.WithRetry(inner, f.Retry), nil

	default:
		return nil, fmt.Errorf("unknown agent kind %q", spec.Kind)
	}
}

// BuildAll constructs every spec in order.
func (f *Factory) BuildAll(specs []AgentSpec) ([]agent.MoveProvider, error) {
	providers := make([]agent.MoveProvider, 0, len(specs))
	for _, spec := range specs {
		p, err := f.Build(spec)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, nil
}
