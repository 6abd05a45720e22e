package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"sub_notifier/internal/config"
	"sub_notifier/internal/domain"
)

// NotifyService runs one dispatch cycle: fetch recent posts, reduce them to
// the unseen subset, deliver a push notification per post oldest-first, and
// commit the seen marker only after the gateway confirms logical acceptance.
type NotifyService struct {
	source    Source
	seen      SeenStore
	gateway   Gateway
	publisher Publisher
	logger    *slog.Logger
	cfg       config.NotifyConfig
	src       config.SourceConfig
}

func NewNotifyService(
	source Source,
	seen SeenStore,
	gateway Gateway,
	publisher Publisher,
	logger *slog.Logger,
	cfg config.NotifyConfig,
	src config.SourceConfig,
) *NotifyService {
	return &NotifyService{
		source:    source,
		seen:      seen,
		gateway:   gateway,
		publisher: publisher,
		logger:    logger.With("source", source.ID()),
		cfg:       cfg,
		src:       src,
	}
}

func (s *NotifyService) Notify(ctx context.Context) (*domain.CycleStats, error) {
	start := time.Now()

	posts, err := s.source.FetchRecent(ctx, s.src.Limit)
	if err != nil {
		return nil, fmt.Errorf("fetch recent posts: %w", err)
	}

	stats := &domain.CycleStats{
		SourceID: s.source.ID(),
		Fetched:  len(posts),
	}

	novel := s.filterNovel(ctx, posts, stats)
	stats.Novel = len(novel)

	if len(novel) == 0 {
		stats.Duration = time.Since(start)
		s.logger.Debug("no novel posts", "fetched", stats.Fetched)
		return stats, nil
	}

	s.logger.Info("novel posts found", "count", len(novel), "fetched", stats.Fetched)

	// Strictly sequential: seen commits must land oldest-to-newest.
	for i := range novel {
		if ctx.Err() != nil {
			break
		}
		s.dispatch(ctx, &novel[i], stats)
	}

	stats.Duration = time.Since(start)

	s.logger.Info("cycle completed",
		"fetched", stats.Fetched,
		"novel", stats.Novel,
		"delivered", stats.Delivered,
		"rejected", stats.Rejected,
		"errors", stats.Errors,
		"published", stats.Published,
		"duration", stats.Duration,
	)

	return stats, nil
}

// filterNovel reduces a newest-first batch to the unseen posts in oldest-first
// order. A batch-local id set guards against duplicate ids when two upstream
// sources are merged; the SeenStore decides everything else.
func (s *NotifyService) filterNovel(ctx context.Context, posts []domain.Post, stats *domain.CycleStats) []domain.Post {
	var novel []domain.Post
	inBatch := make(map[string]struct{}, len(posts))

	for i := len(posts) - 1; i >= 0; i-- {
		post := posts[i]

		if _, dup := inBatch[post.ID]; dup {
			continue
		}
		inBatch[post.ID] = struct{}{}

		seen, err := s.seen.Contains(ctx, post.ID)
		if err != nil {
			// Fail closed: a post whose seen state cannot be decided is
			// skipped rather than risked as a duplicate.
			stats.Errors++
			s.logger.Warn("skipping post with undecidable seen state",
				"post_id", post.ID, "error", err)
			continue
		}
		if seen {
			continue
		}

		novel = append(novel, post)
	}

	return novel
}

func (s *NotifyService) dispatch(ctx context.Context, post *domain.Post, stats *domain.CycleStats) {
	s.logger.Info("found new post",
		"post_id", post.ID,
		"created_at", post.CreatedAt.Time(),
	)

	n := s.render(post)

	err := retry.Do(
		func() error {
			return s.gateway.Push(ctx, n)
		},
		retry.Attempts(uint(s.cfg.MaxAttempts)),
		retry.Delay(s.cfg.RetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.RetryIf(isTimeout),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(attempt uint, err error) {
			s.logger.Warn("push timed out, retrying",
				"post_id", post.ID,
				"attempt", attempt+1,
				"max_attempts", s.cfg.MaxAttempts,
				"error", err,
			)
		}),
	)
	if err != nil {
		var gwErr *domain.GatewayError
		if errors.As(err, &gwErr) {
			stats.Rejected++
			s.logger.Warn("gateway rejected notification, post stays unseen",
				"post_id", post.ID, "status", gwErr.Status, "error", err)
		} else {
			stats.Errors++
			s.logger.Error("push failed", "post_id", post.ID, "error", err)
		}
		return
	}

	stats.Delivered++
	s.logger.Info("pushed notification", "post_id", post.ID)

	if err := s.seen.MarkSeen(ctx, post.ID); err != nil {
		// The push went out but the marker did not stick. Re-sending would
		// duplicate the notification, so record the anomaly and move on.
		stats.Errors++
		s.logger.Error("delivered but seen marker not persisted",
			"post_id", post.ID, "error", err)
		return
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, post); err != nil {
			stats.Errors++
			s.logger.Warn("delivery event not published", "post_id", post.ID, "error", err)
		} else {
			stats.Published++
		}
	}
}

func (s *NotifyService) render(post *domain.Post) domain.Notification {
	return domain.Notification{
		Title:     fmt.Sprintf("New post on r/%s", s.src.Subreddit),
		Message:   html.UnescapeString(post.Title),
		URL:       post.Permalink(),
		Timestamp: post.CreatedAt.Unix(),
	}
}

// isTimeout classifies transport errors: only timeout-class failures are
// worth another attempt, everything else aborts delivery for this cycle.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
