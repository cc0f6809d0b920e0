package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"ctchen222/LLM-Arena/internal/game"
)

const geminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"

var ErrEmptyCandidates = errors.New("response contained no candidates")

// GeminiAgent plays through the Google Generative Language REST API.
type GeminiAgent struct {
	name        string
	apiKey      string
	model       string
	temperature float64
	httpClient  *http.Client
}

// NewGeminiAgent creates an agent backed by the given Gemini model.
func NewGeminiAgent(name, apiKey, model string, temperature float64) *GeminiAgent {
	return &GeminiAgent{
		name:        name,
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Name returns the agent's display name.
func (a *GeminiAgent) Name() string {
	return a.name
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// ProposeMove asks the model for a move and validates the reply against the
// snapshot's valid-move list.
func (a *GeminiAgent) ProposeMove(ctx context.Context, snap *Snapshot) (game.Move, error) {
	if len(snap.ValidMoves) == 0 {
		return game.Move{}, ErrNoValidMoves
	}

	reply, err := a.generateContent(ctx, BuildPrompt(snap))
	if err != nil {
		return game.Move{}, err
	}

	move, reasoning, ok := ParseMove(reply, snap.ValidMoves)
	if !ok {
		return game.Move{}, fmt.Errorf("%w: %q", ErrUnparsableReply, truncate(reply, 200))
	}
	if reasoning != "" {
		slog.DebugContext(ctx, "model explained its move", "agent", a.name, "reasoning", reasoning)
	}

	return move, nil
}

func (a *GeminiAgent) generateContent(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     a.temperature,
			MaxOutputTokens: 200,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf(geminiEndpoint, a.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", a.apiKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generateContent request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generateContent returned %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyCandidates
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
