package agent_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"ctchen222/LLM-Arena/internal/agent"
	"ctchen222/LLM-Arena/internal/agent/mocks"
	"ctchen222/LLM-Arena/internal/game"
)

func fastRetryOptions() agent.RetryOptions {
	return agent.RetryOptions{
		MaxRetries:     3,
		MinInterval:    time.Millisecond,
		AttemptTimeout: time.Second,
		InitialBackoff: time.Millisecond,
	}
}

func testSnapshot() *agent.Snapshot {
	return &agent.Snapshot{
		Mark:       game.PlayerX,
		ValidMoves: []game.Move{{Row: 0, Col: 0}, {Row: 3, Col: 4}},
	}
}

func TestRetryingProvider_FirstAttemptSucceeds(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := mocks.NewMockMoveProvider(ctrl)
	want := game.Move{Row: 3, Col: 4}

	inner.EXPECT().ProposeMove(gomock.Any(), gomock.Any()).Return(want, nil)

	p := agent.WithRetry(inner, fastRetryOptions())
	got, err := p.ProposeMove(context.Background(), testSnapshot())

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRetryingProvider_RecoversAfterFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := mocks.NewMockMoveProvider(ctrl)
	want := game.Move{Row: 0, Col: 0}

	gomock.InOrder(
		inner.EXPECT().ProposeMove(gomock.Any(), gomock.Any()).Return(game.Move{}, errors.New("rate limited")),
		inner.EXPECT().ProposeMove(gomock.Any(), gomock.Any()).Return(game.Move{}, errors.New("rate limited")),
		inner.EXPECT().ProposeMove(gomock.Any(), gomock.Any()).Return(want, nil),
	)
	inner.EXPECT().Name().Return("Flaky").AnyTimes()

	p := agent.WithRetry(inner, fastRetryOptions())
	got, err := p.ProposeMove(context.Background(), testSnapshot())

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRetryingProvider_ExhaustsBudget(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := mocks.NewMockMoveProvider(ctrl)

	wantErr := errors.New("model unavailable")
	inner.EXPECT().ProposeMove(gomock.Any(), gomock.Any()).Return(game.Move{}, wantErr).Times(4)
	inner.EXPECT().Name().Return("Flaky").AnyTimes()

	p := agent.WithRetry(inner, fastRetryOptions())
	_, err := p.ProposeMove(context.Background(), testSnapshot())

	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
}

func TestRetryingProvider_ContextCancellation(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := mocks.NewMockMoveProvider(ctrl)

	inner.EXPECT().ProposeMove(gomock.Any(), gomock.Any()).Return(game.Move{}, errors.New("slow")).MaxTimes(1)
	inner.EXPECT().Name().Return("Slow").AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := agent.WithRetry(inner, fastRetryOptions())
	_, err := p.ProposeMove(ctx, testSnapshot())

	require.Error(t, err)
}

func TestRetryingProvider_EnforcesMinInterval(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := mocks.NewMockMoveProvider(ctrl)

	opts := fastRetryOptions()
	opts.MinInterval = 50 * time.Millisecond
	inner.EXPECT().ProposeMove(gomock.Any(), gomock.Any()).Return(game.Move{Row: 0, Col: 0}, nil).Times(2)

	p := agent.WithRetry(inner, opts)
	ctx := context.Background()

	_, err := p.ProposeMove(ctx, testSnapshot())
	require.NoError(t, err)

	start := time.Now()
	_, err = p.ProposeMove(ctx, testSnapshot())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestRetryingProvider_Name(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := mocks.NewMockMoveProvider(ctrl)
	inner.EXPECT().Name().Return("Wrapped")

	p := agent.WithRetry(inner, agent.DefaultRetryOptions())
	assert.Equal(t, "Wrapped", p.Name())
}
