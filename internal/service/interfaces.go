package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"sub_notifier/internal/domain"
)

// SeenStore is the sole deduplication authority: a post is novel iff the
// store does not know its id. MarkSeen must be durable before it returns.
type SeenStore interface {
	Contains(ctx context.Context, id string) (bool, error)
	MarkSeen(ctx context.Context, id string) error
}

// Source produces a batch of recent posts, newest-first.
type Source interface {
	ID() string
	Name() string
	FetchRecent(ctx context.Context, limit int) ([]domain.Post, error)
}

// Gateway delivers one rendered notification. A *domain.GatewayError return
// means the request went through but the gateway refused the notification.
type Gateway interface {
	Push(ctx context.Context, n domain.Notification) error
}

// Publisher fans out an event for every committed delivery.
type Publisher interface {
	Publish(ctx context.Context, post *domain.Post) error
	Close() error
}
