package services

import (
	"sync"

	"github.com/dmitrijs2005/geokeeper/internal/client/models"
)

// StateFeed publishes catalog sync state to observers. The catalog service
// is the only writer; observers consume snapshots through Subscribe or poll
// them through Snapshot.
//
// Delivery is best effort. Every subscriber owns a small buffered channel;
// when a publish finds the buffer full, the oldest buffered snapshot is
// dropped in favor of the new one. A slow reader therefore skips
// intermediate states but never stalls the writer and never ends up more
// than one publish behind.
type StateFeed struct {
	mu     sync.Mutex
	closed bool
	state  models.SyncState
	subs   map[chan models.SyncState]struct{}
}

// NewStateFeed returns an empty feed: no data, not loading, no error.
func NewStateFeed() *StateFeed {
	return &StateFeed{subs: make(map[chan models.SyncState]struct{})}
}

// Subscribe registers an observer and returns its channel together with an
// unsubscribe function. The current state is delivered immediately so a new
// observer does not have to wait for the next sync. Subscribing to a closed
// feed yields an already-closed channel.
func (f *StateFeed) Subscribe() (<-chan models.SyncState, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan models.SyncState, 8)
	if f.closed {
		close(ch)
		return ch, func() {}
	}

	f.subs[ch] = struct{}{}
	ch <- f.state

	return ch, func() { f.unsubscribe(ch) }
}

func (f *StateFeed) unsubscribe(ch chan models.SyncState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.subs[ch]; ok {
		delete(f.subs, ch)
		close(ch)
	}
}

// Snapshot returns the current state.
func (f *StateFeed) Snapshot() models.SyncState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// publish replaces the current state and fans it out to subscribers.
// Publishes after Close are discarded, so a refresh that outlives the
// session never reaches dead observers. The Data slice inside a published
// snapshot is replace-only and must not be mutated afterwards.
func (f *StateFeed) publish(s models.SyncState) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.state = s

	for ch := range f.subs {
		select {
		case ch <- s:
		default:
			// buffer full: evict the oldest snapshot, then offer again;
			// if the reader drained it meanwhile the second send wins
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s:
			default:
			}
		}
	}
}

// Close marks the feed dead and closes every subscriber channel. Further
// publishes become no-ops; further Subscribe calls return closed channels.
func (f *StateFeed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.closed = true
	for ch := range f.subs {
		close(ch)
	}
	f.subs = nil
}
