package notifications

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEventuallyTimeout = time.Second
	testPollInterval      = 10 * time.Millisecond
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestNotifier_NilClientIsNoop(t *testing.T) {
	n := NewNotifier(nil)
	assert.NoError(t, n.PublishUserEvent(context.Background(), 1, EventNewMessage, nil))
	assert.NoError(t, n.PublishAdminEvent(context.Background(), EventReportCreated, nil))
	assert.NoError(t, n.StartPatternSubscriber(context.Background(), func(string, string) {}))
}

func TestUserChannel(t *testing.T) {
	assert.Equal(t, "notifications:user:1", UserChannel(1))
	assert.Equal(t, "notifications:user:100", UserChannel(100))

	id, ok := parseUserChannel("notifications:user:42")
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)

	for _, bad := range []string{"notifications:user:", "notifications:user:x", "notifications:user:0", "other:1"} {
		_, ok := parseUserChannel(bad)
		assert.False(t, ok, bad)
	}
}

func TestNotifier_SubscriberReceivesEnvelope(t *testing.T) {
	rdb := newTestRedis(t)
	n := NewNotifier(rdb)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type received struct{ channel, payload string }
	got := make(chan received, 4)
	require.NoError(t, n.StartPatternSubscriber(ctx, func(channel, payload string) {
		got <- received{channel, payload}
	}))

	require.NoError(t, n.PublishUserEvent(context.Background(), 7, EventNewMessage, map[string]uint{"conversation_id": 3}))

	select {
	case r := <-got:
		assert.Equal(t, "notifications:user:7", r.channel)
		var ev struct {
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		require.NoError(t, json.Unmarshal([]byte(r.payload), &ev))
		assert.Equal(t, EventNewMessage, ev.Type)
		assert.JSONEq(t, `{"conversation_id":3}`, string(ev.Payload))
	case <-time.After(testEventuallyTimeout):
		t.Fatal("event not received")
	}
}

func TestNotifier_SubscriberStopsOnCancel(t *testing.T) {
	rdb := newTestRedis(t)
	n := NewNotifier(rdb)

	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan string, 4)
	require.NoError(t, n.StartPatternSubscriber(ctx, func(_, payload string) {
		got <- payload
	}))
	cancel()

	// The subscription is torn down once the goroutine observes cancellation.
	assert.Eventually(t, func() bool {
		res, err := rdb.PubSubNumPat(context.Background()).Result()
		return err == nil && res == 0
	}, testEventuallyTimeout, testPollInterval)

	require.NoError(t, n.PublishUserEvent(context.Background(), 1, EventNewMessage, nil))
	assert.Never(t, func() bool { return len(got) > 0 }, 100*time.Millisecond, testPollInterval)
}
