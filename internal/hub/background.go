package hub

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ctchen222/LLM-Arena/internal/events"
)

// RunSubscriber relays events from the Redis channel to connected
// spectators. This lets the spectator server run in a separate process from
// the arena that plays the games.
func (h *Hub) RunSubscriber(ctx context.Context, rdb *redis.Client) {
	slog.InfoContext(ctx, "event subscriber started", "channel", events.EventsChannel)
	pubsub := rdb.Subscribe(ctx, events.EventsChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.relay(ctx, msg.Payload)
		}
	}
}

func (h *Hub) relay(ctx context.Context, payload string) {
	ctx, span := tracer.Start(ctx, "hub.relay", trace.WithAttributes(
		attribute.String("event.channel", events.EventsChannel),
	))
	defer span.End()

	var event events.Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		slog.ErrorContext(ctx, "could not unmarshal event", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "could not unmarshal event")
		return
	}
	span.SetAttributes(attribute.String("event.type", event.Type))

	h.broadcast <- []byte(payload)
}
