package session

import (
	"sync"
	"time"
)

// Broadcaster propagates signals between concurrently open client instances.
// The durable store is the only coordination mechanism; there is no direct
// channel and no server fanout.
type Broadcaster interface {
	Publish(topic, value string) error
	Subscribe(topic string, handler func(value string))
	Close()
}

// storageBroadcaster watches store entries for changes by polling. It is the
// equivalent of listening for storage events: a value change on a subscribed
// topic fires the handlers, a Publish from this instance does not.
type storageBroadcaster struct {
	store    Store
	interval time.Duration

	mu       sync.Mutex
	handlers map[string][]func(string)
	lastSeen map[string]string

	stop chan struct{}
	once sync.Once
}

// NewStorageBroadcaster starts a poll loop over the store.
func NewStorageBroadcaster(store Store, interval time.Duration) Broadcaster {
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}
	b := &storageBroadcaster{
		store:    store,
		interval: interval,
		handlers: make(map[string][]func(string)),
		lastSeen: make(map[string]string),
		stop:     make(chan struct{}),
	}
	go b.loop()
	return b
}

func (b *storageBroadcaster) Publish(topic, value string) error {
	b.mu.Lock()
	// Mark as seen first so our own poll does not echo the publish back.
	b.lastSeen[topic] = value
	b.mu.Unlock()
	return b.store.Set(topic, value)
}

func (b *storageBroadcaster) Subscribe(topic string, handler func(value string)) {
	current, _ := b.store.Get(topic)
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, seen := b.lastSeen[topic]; !seen {
		b.lastSeen[topic] = current
	}
	b.handlers[topic] = append(b.handlers[topic], handler)
}

func (b *storageBroadcaster) Close() {
	b.once.Do(func() { close(b.stop) })
}

func (b *storageBroadcaster) loop() {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stop:
			return
		case <-ticker.C:
			b.poll()
		}
	}
}

func (b *storageBroadcaster) poll() {
	b.mu.Lock()
	topics := make([]string, 0, len(b.handlers))
	for topic := range b.handlers {
		topics = append(topics, topic)
	}
	b.mu.Unlock()

	for _, topic := range topics {
		value, err := b.store.Get(topic)
		if err != nil {
			continue
		}

		b.mu.Lock()
		changed := b.lastSeen[topic] != value
		if changed {
			b.lastSeen[topic] = value
		}
		handlers := append([]func(string){}, b.handlers[topic]...)
		b.mu.Unlock()

		if changed {
			for _, handler := range handlers {
				handler(value)
			}
		}
	}
}
