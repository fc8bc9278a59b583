// Package bus provides the in-process publish/subscribe system used by
// mounted fragments to signal each other without direct references.
//
// Messages are routed by Address, a (channel, topic) pair. Dispatch is
// synchronous and ordered: every registered listener sees a published
// message before it is recorded in the history Sink, so a listener that
// peeks during its own invocation observes the previous queue state.
// Per-address history is a bounded FIFO queue holding the most recent
// payloads.
package bus

import "fmt"

// Well-known channels targeted by the broadcast helpers.
const (
	ChannelAll        = "global"
	ChannelComponents = "components"
	ChannelBlueprint  = "blueprint"
)

// DefaultTopic is used by broadcast helpers when the caller does not
// supply one.
const DefaultTopic = "notify"

// Address identifies a logical message line as a (channel, topic) pair.
type Address struct {
	Channel string
	Topic   string
}

// String serializes the address as "<channel>:<topic>". Values are
// inserted verbatim; a channel or topic containing a colon can collide
// with a different pair that serializes identically. Known limitation.
func (a Address) String() string {
	return fmt.Sprintf("%s:%s", a.Channel, a.Topic)
}

// Message is an addressed payload travelling over the bus.
type Message struct {
	Channel string
	Topic   string
	Payload any
}

// Address returns the message's routing address.
func (m Message) Address() Address {
	return Address{Channel: m.Channel, Topic: m.Topic}
}
