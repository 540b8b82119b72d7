package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"crackit/pkg/domain"
)

// Hub fans chat messages out to company rooms through Redis pub/sub, so
// every server instance sees messages published by any other.
type Hub struct {
	client *redis.Client
	prefix string
}

// NewHub connects the hub to Redis.
func NewHub(addr, password string) (*Hub, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("chat hub redis addr required")
	}
	return &Hub{
		client: redis.NewClient(&redis.Options{Addr: addr, Password: password}),
		prefix: "crackit:chat",
	}, nil
}

func (h *Hub) channel(company string) string {
	return fmt.Sprintf("%s:%s", h.prefix, company)
}

// Publish broadcasts a message to everyone subscribed to the company room.
func (h *Hub) Publish(ctx context.Context, msg domain.ChatMessage) error {
	if strings.TrimSpace(msg.Company) == "" {
		return errors.New("chat message company required")
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode chat message: %w", err)
	}
	return h.client.Publish(ctx, h.channel(msg.Company), payload).Err()
}

// Subscription delivers room messages until closed.
type Subscription struct {
	messages <-chan domain.ChatMessage
	pubsub   *redis.PubSub
}

// Messages returns the delivery channel. It is closed when the
// subscription ends.
func (s *Subscription) Messages() <-chan domain.ChatMessage {
	return s.messages
}

// Close detaches from the room.
func (s *Subscription) Close() error {
	return s.pubsub.Close()
}

// Subscribe joins a company room. Messages that fail to decode are skipped.
func (h *Hub) Subscribe(ctx context.Context, company string) (*Subscription, error) {
	company = strings.TrimSpace(company)
	if company == "" {
		return nil, errors.New("company required")
	}
	pubsub := h.client.Subscribe(ctx, h.channel(company))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", company, err)
	}
	out := make(chan domain.ChatMessage)
	go func() {
		defer close(out)
		for raw := range pubsub.Channel() {
			var msg domain.ChatMessage
			if err := json.Unmarshal([]byte(raw.Payload), &msg); err != nil {
				continue
			}
			select {
			case out <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()
	return &Subscription{messages: out, pubsub: pubsub}, nil
}
