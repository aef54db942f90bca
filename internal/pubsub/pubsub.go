package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
)

// Message is the structure passed between components on the bus.
// It is intentionally simple to act as a wrapper for raw data.
type Message struct {
	// Topic identifies the channel the message belongs to (e.g., "webauth.credentials.submitted").
	Topic string
	// UserID identifies the chat user the message concerns.
	UserID string
	// Payload contains the raw message data, JSON for every topic in this service.
	Payload []byte
	// Metadata can contain arbitrary key-value pairs for context (e.g., timestamps).
	Metadata map[string]string
}

// Handler defines the function signature for processing a received message.
type Handler func(ctx context.Context, msg Message) error

// Publisher defines the contract for sending messages to the Pub/Sub system.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Subscriber defines the contract for receiving messages from the Pub/Sub system.
type Subscriber interface {
	// Subscribe starts listening to the given topic, processing messages with the handler.
	// It returns once the subscription is active; messages are handled in the background
	// until the context is canceled or the subscriber is closed.
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Close() error
}

// PublishJSON encodes v as the payload and publishes it on topic.
func PublishJSON(ctx context.Context, pub Publisher, topic, userID string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", topic, err)
	}
	return pub.Publish(ctx, Message{Topic: topic, UserID: userID, Payload: payload})
}

// DecodeJSON decodes the payload of msg into v.
func DecodeJSON(msg Message, v any) error {
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", msg.Topic, err)
	}
	return nil
}
