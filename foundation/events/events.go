// Package events fans node events out to registered subscribers such as
// websocket connections.
package events

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownSubscriber is returned when releasing an id that was never
// acquired.
var ErrUnknownSubscriber = errors.New("unknown subscriber")

// messageBuffer is how many events a slow subscriber can fall behind before
// events are dropped for it. A websocket write can take a while.
const messageBuffer = 100

// Events maintains a mapping of unique id and channels so goroutines
// can register and receive events.
type Events struct {
	mu   sync.RWMutex
	subs map[string]chan string
}

// New constructs an events for registering and receiving events.
func New() *Events {
	return &Events{
		subs: make(map[string]chan string),
	}
}

// Shutdown closes and removes all channels that were provided by
// the call to Acquire.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, ch := range evt.subs {
		delete(evt.subs, id)
		close(ch)
	}
}

// Acquire takes a unique id and returns a channel that can be used
// to receive events.
func (evt *Events) Acquire(id string) <-chan string {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	if ch, exists := evt.subs[id]; exists {
		return ch
	}

	ch := make(chan string, messageBuffer)
	evt.subs[id] = ch

	return ch
}

// Release closes and removes the channel that was provided by
// the call to Acquire.
func (evt *Events) Release(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	ch, exists := evt.subs[id]
	if !exists {
		return fmt.Errorf("%w: %q", ErrUnknownSubscriber, id)
	}

	delete(evt.subs, id)
	close(ch)

	return nil
}

// Subscribers returns the number of registered channels.
func (evt *Events) Subscribers() int {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	return len(evt.subs)
}

// Send signals a message to every registered channel and returns how many
// received it. Send will not block waiting for a receiver on any channel.
func (evt *Events) Send(s string) int {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	var sent int
	for _, ch := range evt.subs {
		select {
		case ch <- s:
			sent++
		default:
		}
	}

	return sent
}
