package bus

import "sync"

// Listener receives messages published to an address it subscribed to.
// Invocation is synchronous, in registration order, before the message
// reaches the history sink.
type Listener func(Message)

type subscriber struct {
	id uint64
	fn Listener
}

// Manager owns the dispatch registry and history sink shared by every
// Bus in the process. Construct exactly one at startup and pass it to
// each Bus; there is no ambient global instance. All registry access is
// mutex-guarded because buses may be used from multiple goroutines.
type Manager struct {
	mu        sync.RWMutex
	listeners map[string][]subscriber
	sink      *Sink
	nextID    uint64
}

// NewManager creates a manager with an empty dispatch registry and an
// empty sink.
func NewManager() *Manager {
	return &Manager{
		listeners: make(map[string][]subscriber),
		sink:      NewSink(),
	}
}

// Sink returns the shared history sink.
func (m *Manager) Sink() *Sink {
	return m.sink
}

func (m *Manager) subscribe(addr Address, fn Listener) *Subscription {
	key := addr.String()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	m.listeners[key] = append(m.listeners[key], subscriber{id: m.nextID, fn: fn})
	return &Subscription{manager: m, key: key, id: m.nextID}
}

func (m *Manager) unsubscribe(key string, id uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	subs := m.listeners[key]
	for i, sub := range subs {
		if sub.id == id {
			m.listeners[key] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(m.listeners[key]) == 0 {
		delete(m.listeners, key)
	}
}

// listenersFor snapshots the registered listeners so dispatch can run
// without holding the lock. Listeners may therefore subscribe or
// publish re-entrantly during their own invocation.
func (m *Manager) listenersFor(addr Address) []Listener {
	m.mu.RLock()
	defer m.mu.RUnlock()

	subs := m.listeners[addr.String()]
	if len(subs) == 0 {
		return nil
	}
	fns := make([]Listener, len(subs))
	for i, sub := range subs {
		fns[i] = sub.fn
	}
	return fns
}

// Subscription is the handle returned by Subscribe and required to
// cancel it. Cancellation by handle avoids relying on function
// reference identity.
type Subscription struct {
	manager *Manager
	key     string
	id      uint64
	once    sync.Once
}

// Cancel deregisters the listener. Safe to call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.manager.unsubscribe(s.key, s.id)
	})
}
