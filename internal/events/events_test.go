package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishJSON(t *testing.T) {
	bus := NewBus()

	var got []Event
	bus.Subscribe(TypeBookingCreated, func(e Event) error {
		got = append(got, e)
		return nil
	})
	bus.Subscribe("other.type", func(e Event) error {
		t.Fatal("handler for unrelated type must not fire")
		return nil
	})

	err := bus.PublishJSON(TypeBookingCreated, map[string]any{"id": 7})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, TypeBookingCreated, got[0].Type)
	assert.JSONEq(t, `{"id":7}`, string(got[0].Payload))
	assert.False(t, got[0].CreatedAt.IsZero())
}

func TestBus_HandlerErrorDoesNotStopOthers(t *testing.T) {
	bus := NewBus()

	called := 0
	bus.Subscribe(TypeBookingCreated, func(Event) error { return errors.New("boom") })
	bus.Subscribe(TypeBookingCreated, func(Event) error { called++; return nil })

	require.NoError(t, bus.PublishJSON(TypeBookingCreated, "x"))
	assert.Equal(t, 1, called)
}

func TestRedisPublisher(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	sub := client.Subscribe(context.Background(), Channel)
	defer sub.Close()
	_, err := sub.Receive(context.Background())
	require.NoError(t, err)

	pub := NewRedisPublisher(client, zerolog.New(io.Discard))
	require.NoError(t, pub.PublishJSON(TypeBookingCreated, map[string]any{"id": 1}))

	select {
	case msg := <-sub.Channel():
		var e Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &e))
		assert.Equal(t, TypeBookingCreated, e.Type)
		assert.JSONEq(t, `{"id":1}`, string(e.Payload))
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}

func TestMulti_FirstErrorWins(t *testing.T) {
	bus := NewBus()
	failing := publisherFunc(func(string, any) error { return errors.New("down") })

	err := Multi{bus, failing, bus}.PublishJSON(TypeBookingCreated, "x")
	assert.EqualError(t, err, "down")
}

type publisherFunc func(string, any) error

func (f publisherFunc) PublishJSON(eventType string, payload any) error {
	return f(eventType, payload)
}
