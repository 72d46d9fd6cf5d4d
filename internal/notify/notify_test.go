package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
	err    error
}

func (p *recordingPublisher) PublishJSON(eventType string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, eventType)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func TestRedisPublisher(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()
	ctx := context.Background()

	sub := client.Subscribe(ctx, "bookings")
	defer sub.Close()
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	pub := NewRedisPublisher(client, "bookings")
	require.NoError(t, pub.PublishJSON("newBooking", map[string]int64{"booking_id": 7}))

	msg, err := sub.ReceiveTimeout(ctx, time.Second)
	require.NoError(t, err)
	m, ok := msg.(*redis.Message)
	require.True(t, ok)

	var env Envelope
	require.NoError(t, json.Unmarshal([]byte(m.Payload), &env))
	assert.Equal(t, "newBooking", env.Type)
	assert.NotEmpty(t, env.ID)
	assert.JSONEq(t, `{"booking_id":7}`, string(env.Payload))
}

func TestRedisPublisherNilClient(t *testing.T) {
	pub := NewRedisPublisher(nil, "bookings")
	assert.Error(t, pub.PublishJSON("newBooking", nil))
}

func TestFailoverPublisher(t *testing.T) {
	logger := zerolog.New(io.Discard)

	t.Run("primary healthy", func(t *testing.T) {
		primary := &recordingPublisher{}
		fallback := &recordingPublisher{}
		pub := NewFailoverPublisher(primary, fallback, &logger)

		require.NoError(t, pub.PublishJSON("bookingUpdated", nil))
		assert.Equal(t, 1, primary.count())
		assert.Equal(t, 0, fallback.count())
	})

	t.Run("falls back and stays down", func(t *testing.T) {
		primary := &recordingPublisher{err: errors.New("connection refused")}
		fallback := &recordingPublisher{}
		pub := NewFailoverPublisher(primary, fallback, &logger)

		require.NoError(t, pub.PublishJSON("bookingUpdated", nil))
		require.NoError(t, pub.PublishJSON("bookingUpdated", nil))
		assert.Equal(t, 2, fallback.count())
		assert.True(t, pub.isDown.Load())
	})

	t.Run("probes primary after the recovery window", func(t *testing.T) {
		primary := &recordingPublisher{err: errors.New("connection refused")}
		fallback := &recordingPublisher{}
		pub := NewFailoverPublisher(primary, fallback, &logger)
		pub.recovery = 0

		require.NoError(t, pub.PublishJSON("bookingUpdated", nil))
		primary.err = nil

		require.NoError(t, pub.PublishJSON("bookingUpdated", nil))
		assert.Equal(t, 1, primary.count())
		assert.False(t, pub.isDown.Load())
	})

	t.Run("fallback error surfaces", func(t *testing.T) {
		primary := &recordingPublisher{err: errors.New("primary down")}
		fallback := &recordingPublisher{err: errors.New("fallback down")}
		pub := NewFailoverPublisher(primary, fallback, &logger)

		assert.Error(t, pub.PublishJSON("bookingUpdated", nil))
	})
}

func TestFanout(t *testing.T) {
	a := &recordingPublisher{}
	b := &recordingPublisher{err: errors.New("boom")}
	c := &recordingPublisher{}

	fan := NewFanout(a, b, nil, c)
	err := fan.PublishJSON("newBooking", nil)

	assert.Error(t, err)
	assert.Equal(t, 1, a.count())
	assert.Equal(t, 1, c.count())
}

func TestHubBroadcast(t *testing.T) {
	logger := zerolog.New(io.Discard)
	hub := NewHub(&logger)

	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		time.Second, 10*time.Millisecond)

	require.NoError(t, hub.PublishJSON("booking-paid", map[string]int64{"booking_id": 3}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, "booking-paid", env.Type)

	conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 },
		time.Second, 10*time.Millisecond)
}
