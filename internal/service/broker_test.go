package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/talentvote/backend/internal/dto"
)

func update(entrantID string, total int64) dto.VoteUpdate {
	return dto.VoteUpdate{
		Type:          dto.VoteUpdateType,
		EntrantID:     entrantID,
		NewTotalVotes: total,
		SystemTotal:   total,
	}
}

func TestInMemoryBrokerFanout(t *testing.T) {
	broker := NewInMemoryVoteBroker()

	first := broker.Subscribe("first")
	second := broker.Subscribe("second")

	broker.Publish(update("e1", 1))

	for _, subscriber := range []*VoteSubscriber{first, second} {
		select {
		case got := <-subscriber.Updates:
			require.Equal(t, "e1", got.EntrantID)
		case <-time.After(time.Second):
			t.Fatalf("subscriber %s received nothing", subscriber.ID)
		}
	}
}

func TestInMemoryBrokerSubscribeIsIdempotent(t *testing.T) {
	broker := NewInMemoryVoteBroker()

	first := broker.Subscribe("conn")
	again := broker.Subscribe("conn")
	require.Same(t, first, again)
}

func TestInMemoryBrokerUnsubscribeClosesChannel(t *testing.T) {
	broker := NewInMemoryVoteBroker()

	subscriber := broker.Subscribe("conn")
	broker.Unsubscribe("conn")

	_, open := <-subscriber.Updates
	require.False(t, open)

	// Unsubscribing twice is a no-op.
	broker.Unsubscribe("conn")
}

// A full subscriber queue must not block the publisher or starve others.
func TestInMemoryBrokerDropsWhenSubscriberFull(t *testing.T) {
	broker := NewInMemoryVoteBroker()

	slow := broker.Subscribe("slow")
	fast := broker.Subscribe("fast")

	// Saturate the slow subscriber's buffer, then keep draining the fast one.
	for i := 0; i < subscriberBuffer+10; i++ {
		broker.Publish(update("e1", int64(i)))
		select {
		case <-fast.Updates:
		case <-time.After(time.Second):
			t.Fatal("fast subscriber starved")
		}
	}

	require.Len(t, slow.Updates, subscriberBuffer)
}

func TestInMemoryBrokerPublishAfterUnsubscribe(t *testing.T) {
	broker := NewInMemoryVoteBroker()

	broker.Subscribe("conn")
	broker.Unsubscribe("conn")

	// Must not panic even though the channel is closed.
	broker.Publish(update("e1", 1))
}
