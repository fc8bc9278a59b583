package bus

import (
	"github.com/conneroisu/weaver/internal/errors"
)

// Bus is the pub/sub facade handed to fragments. Every Bus sharing a
// Manager sees the same listeners and the same history.
type Bus struct {
	manager *Manager
}

// New creates a bus backed by the given manager.
func New(manager *Manager) *Bus {
	return &Bus{manager: manager}
}

// Publish validates the message, invokes every registered listener for
// its address synchronously in registration order, and only then
// records the payload in the sink. A listener peeking the address
// during its own invocation sees the state prior to this message.
// Listeners may re-enter Publish.
func (b *Bus) Publish(msg Message) error {
	if msg.Channel == "" || msg.Topic == "" {
		return errors.NewValidation("message", "event must have channel and topic")
	}

	for _, fn := range b.manager.listenersFor(msg.Address()) {
		fn(msg)
	}
	b.manager.sink.Push(msg)
	return nil
}

// Subscribe registers fn for messages on addr and returns the handle
// needed to cancel it.
func (b *Bus) Subscribe(addr Address, fn Listener) *Subscription {
	return b.manager.subscribe(addr, fn)
}

// Unsubscribe cancels the subscription. Equivalent to sub.Cancel.
func (b *Bus) Unsubscribe(sub *Subscription) {
	if sub != nil {
		sub.Cancel()
	}
}

// Peek returns the oldest unconsumed payload for addr without dispatch
// and without creating history for unwritten addresses.
func (b *Bus) Peek(addr Address) (payload any, ok bool) {
	return b.manager.sink.Peek(addr)
}

// ToAll publishes payload on the global broadcast channel. An empty
// topic selects DefaultTopic.
func (b *Bus) ToAll(topic string, payload any) error {
	return b.broadcast(ChannelAll, topic, payload)
}

// ToComponents publishes payload on the channel watched by mounted
// components. An empty topic selects DefaultTopic.
func (b *Bus) ToComponents(topic string, payload any) error {
	return b.broadcast(ChannelComponents, topic, payload)
}

// ToBlueprint publishes payload on the channel watched by the top-level
// page. An empty topic selects DefaultTopic.
func (b *Bus) ToBlueprint(topic string, payload any) error {
	return b.broadcast(ChannelBlueprint, topic, payload)
}

func (b *Bus) broadcast(channel, topic string, payload any) error {
	if topic == "" {
		topic = DefaultTopic
	}
	return b.Publish(Message{Channel: channel, Topic: topic, Payload: payload})
}
