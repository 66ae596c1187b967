package messaging_test

import (
	"context"
	"testing"
	"time"

	"civica/contexts/civic-participation/comment-service/ports"
	"civica/internal/platform/messaging"
)

func TestKafkaDeliversPublishedEventsToSubscriber(t *testing.T) {
	bus, err := messaging.NewKafka(nil, nil)
	if err != nil {
		t.Fatalf("new bus failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan ports.EventEnvelope, 1)
	err = bus.Subscribe(ctx, "comment.analysis.completed", "test-cg", func(_ context.Context, event ports.EventEnvelope) error {
		received <- event
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	event := ports.EventEnvelope{
		EventID:    "event-1",
		EventType:  "comment.analysis.completed",
		OccurredAt: time.Now().UTC(),
		Data:       []byte(`{"job_id":1}`),
	}
	if err := bus.Publish(ctx, "comment.analysis.completed", event); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case got := <-received:
		if got.EventID != "event-1" {
			t.Fatalf("unexpected event delivered: %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("subscriber never received the published event")
	}
}

func TestKafkaIgnoresEventsOnOtherTopics(t *testing.T) {
	bus, err := messaging.NewKafka(nil, nil)
	if err != nil {
		t.Fatalf("new bus failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan ports.EventEnvelope, 1)
	err = bus.Subscribe(ctx, "comment.analysis.completed", "test-cg", func(_ context.Context, event ports.EventEnvelope) error {
		received <- event
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if err := bus.Publish(ctx, "otro.topico", ports.EventEnvelope{EventID: "event-2"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case got := <-received:
		t.Fatalf("subscriber received event from unrelated topic: %+v", got)
	case <-time.After(100 * time.Millisecond):
	}
}
