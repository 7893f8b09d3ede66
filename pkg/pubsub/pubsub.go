package pubsub

import (
	"context"
	"encoding/json"
)

const (
	EventVerificationProgress = "verificationProgress" // EventVerificationProgress stage change of a verification run
	EventVerificationDone     = "verificationDone"     // EventVerificationDone terminal state of a verification run
)

// Event defines the payload
type Event interface {
	Marshal() (msg Message, err error)
	Unmarshal(msg Message) error
}

// Message is the payload received in a pubsub subscriber. The input for callback functions
type Message []byte

// VerificationProgressEvent is published on every stage transition of a run
type VerificationProgressEvent struct {
	RunID   string `json:"runID"`
	Stage   string `json:"stage"`
	Percent int    `json:"percent"`
	Message string `json:"message"`
}

// Marshal marshals the event into a pubsub.Message
func (ev *VerificationProgressEvent) Marshal() (msg Message, err error) {
	return json.Marshal(ev)
}

// Unmarshal creates an event from that message
func (ev *VerificationProgressEvent) Unmarshal(msg Message) error {
	return json.Unmarshal(msg, &ev)
}

// VerificationDoneEvent is published when a run reaches a terminal state
type VerificationDoneEvent struct {
	RunID    string `json:"runID"`
	Stage    string `json:"stage"`
	Accepted int    `json:"accepted"`
	Rejected int    `json:"rejected"`
}

// Marshal marshals the event into a pubsub.Message
func (ev *VerificationDoneEvent) Marshal() (msg Message, err error) {
	return json.Marshal(ev)
}

// Unmarshal creates an event from that message
func (ev *VerificationDoneEvent) Unmarshal(msg Message) error {
	return json.Unmarshal(msg, &ev)
}

// Publisher sends topics to the pubsub
type Publisher interface {
	Publish(ctx context.Context, topic string, payload Event) error
}

// EventHandler is the type that functions that handle an event must comply.
type EventHandler func(context.Context, Message) error

// Subscriber subscribes to the pubsub topics
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, callback EventHandler)
}

// Client is formed by the publisher and subscriber
type Client interface {
	Publisher
	Subscriber
}
