package notifications

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_RegisterEnforcesPerUserLimit(t *testing.T) {
	hub := NewHub()
	defer func() { _ = hub.Shutdown(context.Background()) }()

	for i := 0; i < maxConnsPerUser; i++ {
		_, err := hub.Register(5, false, nil)
		require.NoError(t, err)
	}
	_, err := hub.Register(5, false, nil)
	assert.ErrorIs(t, err, ErrUserFull)

	_, err = hub.Register(6, false, nil)
	assert.NoError(t, err)
	assert.Equal(t, maxConnsPerUser+1, hub.ConnectionCount())
}

func TestHub_DeliverTargetsUser(t *testing.T) {
	hub := NewHub()
	defer func() { _ = hub.Shutdown(context.Background()) }()

	alice, err := hub.Register(1, false, nil)
	require.NoError(t, err)
	bob, err := hub.Register(2, false, nil)
	require.NoError(t, err)
	admin, err := hub.Register(3, true, nil)
	require.NoError(t, err)

	hub.Deliver(1, []byte("hello"))
	assert.Equal(t, "hello", string(<-alice.Send))
	assert.Empty(t, bob.Send)

	hub.DeliverAdmins([]byte("report"))
	assert.Equal(t, "report", string(<-admin.Send))
	assert.Empty(t, alice.Send)
	assert.Empty(t, bob.Send)
}

func TestHub_UnregisterIsIdempotent(t *testing.T) {
	hub := NewHub()
	c, err := hub.Register(1, false, nil)
	require.NoError(t, err)

	hub.UnregisterClient(c)
	hub.UnregisterClient(c)
	assert.Equal(t, 0, hub.ConnectionCount())

	_, open := <-c.Send
	assert.False(t, open)

	// Nothing is delivered to a removed client.
	hub.Deliver(1, []byte("late"))
	require.NoError(t, hub.Shutdown(context.Background()))
}

func TestClient_TrySendDropsWhenFull(t *testing.T) {
	hub := NewHub()
	defer func() { _ = hub.Shutdown(context.Background()) }()

	c, err := hub.Register(9, false, nil)
	require.NoError(t, err)

	for i := 0; i < sendBuffer+5; i++ {
		c.TrySend([]byte(strconv.Itoa(i)))
	}
	assert.Len(t, c.Send, sendBuffer)
}

func TestHub_ShutdownRejectsNewClients(t *testing.T) {
	hub := NewHub()
	c, err := hub.Register(1, false, nil)
	require.NoError(t, err)

	require.NoError(t, hub.Shutdown(context.Background()))
	_, open := <-c.Send
	assert.False(t, open)

	_, err = hub.Register(1, false, nil)
	assert.ErrorIs(t, err, ErrHubClosed)
	assert.NoError(t, hub.Shutdown(context.Background()))
}

func TestHub_StartWiringRoutesRedisEvents(t *testing.T) {
	rdb := newTestRedis(t)
	n := NewNotifier(rdb)
	hub := NewHub()
	defer func() { _ = hub.Shutdown(context.Background()) }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, hub.StartWiring(ctx, n))

	student, err := hub.Register(11, false, nil)
	require.NoError(t, err)
	admin, err := hub.Register(12, true, nil)
	require.NoError(t, err)

	require.NoError(t, n.PublishUserEvent(context.Background(), 11, EventMessagesRead, map[string]uint{"conversation_id": 4}))
	require.NoError(t, n.PublishAdminEvent(context.Background(), EventReportCreated, map[string]uint{"report_id": 2}))

	select {
	case msg := <-student.Send:
		assert.Contains(t, string(msg), `"type":"messages_read"`)
	case <-time.After(testEventuallyTimeout):
		t.Fatal("student did not receive event")
	}
	select {
	case msg := <-admin.Send:
		assert.Contains(t, string(msg), `"type":"report_created"`)
	case <-time.After(testEventuallyTimeout):
		t.Fatal("admin did not receive event")
	}
}
