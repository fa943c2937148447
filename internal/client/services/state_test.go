package services

import (
	"fmt"
	"testing"

	"github.com/dmitrijs2005/geokeeper/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateFeed_SubscribeDeliversCurrentState(t *testing.T) {
	f := NewStateFeed()
	f.publish(models.SyncState{Data: []models.Country{{Name: "Latvia"}}})

	ch, unsub := f.Subscribe()
	defer unsub()

	s := <-ch
	require.Len(t, s.Data, 1)
	assert.Equal(t, "Latvia", s.Data[0].Name)
}

func TestStateFeed_PublishFansOutToAllSubscribers(t *testing.T) {
	f := NewStateFeed()

	ch1, unsub1 := f.Subscribe()
	defer unsub1()
	ch2, unsub2 := f.Subscribe()
	defer unsub2()

	<-ch1 // initial empty states
	<-ch2

	f.publish(models.SyncState{Loading: true})

	assert.True(t, (<-ch1).Loading)
	assert.True(t, (<-ch2).Loading)
}

func TestStateFeed_SlowSubscriberNeverBlocksPublisher(t *testing.T) {
	f := NewStateFeed()

	ch, unsub := f.Subscribe()
	defer unsub()

	// never read: the buffer fills, old snapshots get evicted
	for i := 0; i < 100; i++ {
		f.publish(models.SyncState{Data: []models.Country{{Name: fmt.Sprintf("c%d", i)}}})
	}

	// the newest snapshot is still reachable at the tail of the buffer
	var last models.SyncState
	for {
		select {
		case s := <-ch:
			last = s
			continue
		default:
		}
		break
	}
	require.Len(t, last.Data, 1)
	assert.Equal(t, "c99", last.Data[0].Name)

	assert.Equal(t, "c99", f.Snapshot().Data[0].Name)
}

func TestStateFeed_UnsubscribeClosesChannel(t *testing.T) {
	f := NewStateFeed()

	ch, unsub := f.Subscribe()
	<-ch
	unsub()

	_, ok := <-ch
	assert.False(t, ok, "channel must be closed after unsubscribe")

	// publishing after unsubscribe must not panic
	f.publish(models.SyncState{Loading: true})
}

func TestStateFeed_CloseDiscardsLatePublishes(t *testing.T) {
	f := NewStateFeed()
	f.publish(models.SyncState{Data: []models.Country{{Name: "Latvia"}}})

	ch, _ := f.Subscribe()
	<-ch

	f.Close()

	_, ok := <-ch
	assert.False(t, ok, "subscriber channels close with the feed")

	// a refresh result arriving after session end is dropped silently
	f.publish(models.SyncState{Data: []models.Country{{Name: "Japan"}}})
	assert.Equal(t, "Latvia", f.Snapshot().Data[0].Name)
}

func TestStateFeed_SubscribeAfterCloseReturnsClosedChannel(t *testing.T) {
	f := NewStateFeed()
	f.Close()

	ch, unsub := f.Subscribe()
	_, ok := <-ch
	assert.False(t, ok)
	unsub() // no-op, must not panic
}

func TestStateFeed_CloseIsIdempotent(t *testing.T) {
	f := NewStateFeed()
	f.Close()
	f.Close()
}
