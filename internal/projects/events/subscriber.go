package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/orbis-25/orbis-projects-backend/internal/logging"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/domain"
)

// Subscribe receives published project events until ctx is done. Messages
// that do not decode are logged and skipped.
func Subscribe(ctx context.Context, client *redis.Client, handle func(context.Context, Message)) error {
	sub := client.Subscribe(ctx, Channels()...)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	log := logging.NewLogger(ctx)
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var m Message
			if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
				log.LogWarnf("subscribe", "skipping message on %s: %v", msg.Channel, err)
				continue
			}
			handle(ctx, m)
		}
	}
}

// LogObserver writes every event to the structured log.
func LogObserver() Observer {
	return ObserverFunc(func(ctx context.Context, e domain.Event) error {
		logging.NewLogger(ctx).
			With("event", e.Name()).
			With("post_id", e.ProjectPostID()).
			LogInfo("event", "project event emitted")
		return nil
	})
}
