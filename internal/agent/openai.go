package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai"

	"ctchen222/LLM-Arena/internal/game"
)

// GroqBaseURL is the OpenAI-compatible endpoint exposed by Groq.
const GroqBaseURL = "https://api.groq.com/openai/v1"

const replyMaxTokens = 150

var ErrEmptyCompletion = errors.New("completion contained no choices")

// OpenAIAgent plays through any OpenAI-compatible chat-completions API.
// Pointing BaseURL at Groq gives the original arena's Llama opponent.
type OpenAIAgent struct {
	name        string
	client      *openai.Client
	model       string
	temperature float32
}

// NewOpenAIAgent creates an agent backed by the chat-completions endpoint at
// baseURL. An empty baseURL targets api.openai.com.
func NewOpenAIAgent(name, baseURL, apiKey, model string, temperature float32) *OpenAIAgent {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAIAgent{
		name:        name,
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: temperature,
	}
}

// Name returns the agent's display name.
func (a *OpenAIAgent) Name() string {
	return a.name
}

// ProposeMove asks the model for a move and validates the reply against the
// snapshot's valid-move list.
func (a *OpenAIAgent) ProposeMove(ctx context.Context, snap *Snapshot) (game.Move, error) {
	if len(snap.ValidMoves) == 0 {
		return game.Move{}, ErrNoValidMoves
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(snap)},
		},
		Temperature: a.temperature,
		MaxTokens:   replyMaxTokens,
	})
	if err != nil {
		return game.Move{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return game.Move{}, ErrEmptyCompletion
	}

	reply := resp.Choices[0].Message.Content
	move, reasoning, ok := ParseMove(reply, snap.ValidMoves)
	if !ok {
		return game.Move{}, fmt.Errorf("%w: %q", ErrUnparsableReply, truncate(reply, 200))
	}
	if reasoning != "" {
		slog.DebugContext(ctx, "model explained its move", "agent", a.name, "reasoning", reasoning)
	}

	return move, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
