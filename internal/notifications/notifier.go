// Package notifications delivers best-effort push events over Redis pub/sub and websockets.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"uniwiz/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// Event types pushed to websocket clients.
const (
	EventNewMessage    = "new_message"
	EventMessagesRead  = "messages_read"
	EventReportCreated = "report_created"
)

const (
	userChannelPrefix = "notifications:user:"
	adminsChannel     = "notifications:admins"
)

// Event is the envelope written to Redis and forwarded verbatim to clients.
type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	CreatedAt time.Time   `json:"created_at"`
}

// Notifier publishes events into Redis channels.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier using the provided Redis client.
// A nil client turns every publish into a no-op.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishUserEvent sends an event to a single user's channel.
func (n *Notifier) PublishUserEvent(ctx context.Context, userID uint, eventType string, payload interface{}) error {
	return n.publish(ctx, UserChannel(userID), eventType, payload)
}

// PublishAdminEvent sends an event to every connected administrator.
func (n *Notifier) PublishAdminEvent(ctx context.Context, eventType string, payload interface{}) error {
	return n.publish(ctx, adminsChannel, eventType, payload)
}

func (n *Notifier) publish(ctx context.Context, channel, eventType string, payload interface{}) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	data, err := json.Marshal(Event{Type: eventType, Payload: payload, CreatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return n.rdb.Publish(ctx, channel, data).Err()
}

// StartPatternSubscriber subscribes to user and admin channels and calls onMessage
// for each incoming message until ctx is cancelled.
func (n *Notifier) StartPatternSubscriber(ctx context.Context, onMessage func(channel, payload string)) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, userChannelPrefix+"*", adminsChannel)
	// Wait for the subscription confirmation so publishes issued right after
	// this call are not lost.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe notifications: %w", err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							middleware.Logger.Error("panic in notification subscriber",
								slog.Any("panic", r), slog.Any("stack", string(debug.Stack())))
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

// UserChannel derives the Redis channel name for a user.
func UserChannel(userID uint) string {
	return userChannelPrefix + strconv.FormatUint(uint64(userID), 10)
}

// parseUserChannel returns the user id encoded in a user channel name.
func parseUserChannel(channel string) (uint, bool) {
	raw, ok := strings.CutPrefix(channel, userChannelPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
