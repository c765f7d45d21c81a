package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/orbis-25/orbis-projects-backend/internal/projects/domain"
)

const eventChannelPrefix = "orbis:events:" // Pub/Sub channel per event: orbis:events:{event_name}

// Message is the JSON envelope published for every event.
type Message struct {
	Event      string          `json:"event"`
	PostID     int64           `json:"post_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// Channel returns the Pub/Sub channel an event name is published on.
func Channel(eventName string) string {
	return eventChannelPrefix + eventName
}

// Channels lists the channels of every project event.
func Channels() []string {
	return []string{
		Channel(domain.EventFinishedUpdate),
		Channel(domain.EventInvoiceNumberUpdate),
	}
}

// RedisPublisher is an Observer publishing events to Redis Pub/Sub.
type RedisPublisher struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisPublisher creates a publisher on client.
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client, now: time.Now}
}

// Notify publishes e as a Message.
func (p *RedisPublisher) Notify(ctx context.Context, e domain.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}
	data, err := json.Marshal(Message{
		Event:      e.Name(),
		PostID:     e.ProjectPostID(),
		OccurredAt: p.now().UTC(),
		Payload:    payload,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.client.Publish(ctx, Channel(e.Name()), data).Err(); err != nil {
		return fmt.Errorf("failed to publish %s: %w", e.Name(), err)
	}
	return nil
}
