package chat

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"crackit/pkg/domain"
)

func TestHubPublishReachesSubscribers(t *testing.T) {
	redis := miniredis.RunT(t)
	hub, err := NewHub(redis.Addr(), "")
	if err != nil {
		t.Fatalf("new hub: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub, err := hub.Subscribe(ctx, "Google")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()

	msg := domain.ChatMessage{
		ID:          "m-1",
		UserID:      "u-1",
		UserName:    "Asha",
		Company:     "Google",
		Message:     "anyone prepping for the phone screen?",
		MessageType: "text",
		Timestamp:   time.Now().UTC(),
	}
	if err := hub.Publish(ctx, msg); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case got := <-sub.Messages():
		if got.ID != msg.ID || got.Message != msg.Message || got.Company != "Google" {
			t.Fatalf("unexpected message: %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for room message")
	}
}

func TestHubRoomsAreIsolated(t *testing.T) {
	redis := miniredis.RunT(t)
	hub, err := NewHub(redis.Addr(), "")
	if err != nil {
		t.Fatalf("new hub: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub, err := hub.Subscribe(ctx, "Amazon")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()

	if err := hub.Publish(ctx, domain.ChatMessage{ID: "m-2", Company: "Google", Message: "hi"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case got := <-sub.Messages():
		t.Fatalf("message leaked across rooms: %+v", got)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestHubPublishRequiresCompany(t *testing.T) {
	redis := miniredis.RunT(t)
	hub, err := NewHub(redis.Addr(), "")
	if err != nil {
		t.Fatalf("new hub: %v", err)
	}
	if err := hub.Publish(context.Background(), domain.ChatMessage{Message: "hi"}); err == nil {
		t.Fatal("expected error for missing company")
	}
}
