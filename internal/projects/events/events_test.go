package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbis-25/orbis-projects-backend/internal/projects/domain"
)

func TestDispatcher_Emit(t *testing.T) {
	var got []string
	record := func(name string) Observer {
		return ObserverFunc(func(ctx context.Context, e domain.Event) error {
			got = append(got, name+":"+e.Name())
			return nil
		})
	}

	d := NewDispatcher(record("first"))
	d.Subscribe(ObserverFunc(func(ctx context.Context, e domain.Event) error {
		return errors.New("billing offline")
	}))
	d.Subscribe(record("last"))

	d.Emit(context.Background(), domain.FinishedStateChanged{PostID: 1, IsFinished: true})

	assert.Equal(t, []string{
		"first:" + domain.EventFinishedUpdate,
		"last:" + domain.EventFinishedUpdate,
	}, got, "a failing observer does not stop delivery to the others")
}

func TestRedisPublisher_Notify(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	sub := client.Subscribe(ctx, Channels()...)
	defer sub.Close()
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	pub := NewRedisPublisher(client)
	pub.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	err = pub.Notify(ctx, domain.InvoiceNumberChanged{PostID: 42, OldNumber: "", NewNumber: "INV-1"})
	require.NoError(t, err)

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "orbis:events:orbis_project_invoice_number_update", msg.Channel)

	var m Message
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &m))
	assert.Equal(t, domain.EventInvoiceNumberUpdate, m.Event)
	assert.Equal(t, int64(42), m.PostID)

	var payload domain.InvoiceNumberChanged
	require.NoError(t, json.Unmarshal(m.Payload, &payload))
	assert.Equal(t, "INV-1", payload.NewNumber)
	assert.Equal(t, "", payload.OldNumber)
}

func TestSubscribe_ReceivesPublishedEvents(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- Subscribe(ctx, client, func(_ context.Context, m Message) {
			got <- m
		})
	}()

	require.Eventually(t, func() bool {
		return len(mr.PubSubChannels("orbis:events:*")) == len(Channels())
	}, time.Second, 10*time.Millisecond)

	pub := NewRedisPublisher(client)
	require.NoError(t, pub.Notify(ctx, domain.InvoiceNumberChanged{PostID: 9, OldNumber: "", NewNumber: "INV-9"}))

	select {
	case m := <-got:
		assert.Equal(t, domain.EventInvoiceNumberUpdate, m.Event)
		assert.Equal(t, int64(9), m.PostID)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}

	cancel()
	assert.NoError(t, <-done)
}

func TestLogObserver(t *testing.T) {
	err := LogObserver().Notify(context.Background(), domain.FinishedStateChanged{PostID: 1, IsFinished: true})
	assert.NoError(t, err)
}
