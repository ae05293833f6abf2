package broker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/abhishek622/slotwise/internal/negotiation"
	"github.com/abhishek622/slotwise/pkg/model"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublish(t *testing.T) {
	srv := miniredis.RunT(t)
	client := NewRedisClient(srv.Addr(), "", 0)
	defer client.Close()
	ctx := context.Background()
	require.NoError(t, Ping(ctx, client))

	sub := client.Subscribe(ctx, "interview:events")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	ev := negotiation.Event{
		Type:            negotiation.EventSlotAccepted,
		InterviewID:     10,
		ApplicationID:   5,
		SlotID:          2,
		SlotFrom:        model.SlotStatusCounterProposed,
		SlotTo:          model.SlotStatusAccepted,
		RejectedSlotIDs: []int64{1, 3},
		OccurredAt:      time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, NewPublisher(client, "interview:events").Publish(ctx, ev))

	select {
	case msg := <-sub.Channel():
		var got negotiation.Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, ev, got)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}

func TestPublishServerDown(t *testing.T) {
	srv := miniredis.RunT(t)
	client := NewRedisClient(srv.Addr(), "", 0)
	defer client.Close()
	srv.Close()

	err := NewPublisher(client, "interview:events").Publish(context.Background(), negotiation.Event{Type: negotiation.EventSlotRejected})
	assert.ErrorContains(t, err, "publish slot.rejected event")
}
