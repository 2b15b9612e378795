// Package notify fans state-change events out to connected terminals.
package notify

// Publisher is the notification port the engines publish through. Delivery is
// best-effort, at-most-once; terminals re-fetch state on reconnect.
type Publisher interface {
	Publish(event string, payload any)
}

// Multi publishes to several sinks, typically the WebSocket hub plus the
// optional AMQP bridge.
type Multi []Publisher

func (m Multi) Publish(event string, payload any) {
	for _, p := range m {
		p.Publish(event, payload)
	}
}

// Discard drops every event. Useful as a default in tests.
type Discard struct{}

func (Discard) Publish(string, any) {}
