// Package service provides application business logic (chat, jobs, applications, moderation, etc.).
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"uniwiz/internal/middleware"
	"uniwiz/internal/models"

	"gorm.io/gorm"
)

// Actor is the authenticated caller of a service operation.
type Actor struct {
	ID   uint
	Role models.UserRole
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// EventPublisher delivers push events. Implementations are best-effort.
type EventPublisher interface {
	PublishUserEvent(ctx context.Context, userID uint, eventType string, payload interface{}) error
	PublishAdminEvent(ctx context.Context, eventType string, payload interface{}) error
}

type noopPublisher struct{}

func (noopPublisher) PublishUserEvent(context.Context, uint, string, interface{}) error { return nil }
func (noopPublisher) PublishAdminEvent(context.Context, string, interface{}) error      { return nil }

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}

const publishTimeout = 2 * time.Second

// publishDetached runs publish after the request has committed. Failures are
// logged and never reach the caller.
func publishDetached(ctx context.Context, eventType string, publish func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := publish(ctx); err != nil {
		middleware.Logger.WarnContext(ctx, "push event not published",
			slog.String("event", eventType), slog.String("error", err.Error()))
	}
}

// notFound converts gorm.ErrRecordNotFound into a NOT_FOUND AppError for resource.
func notFound(err error, resource string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return err
}

// Page limits shared by list endpoints.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ClampPage bounds limit and offset to sane values.
func ClampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
