// Package merged combines two upstream sources into one batch per cycle.
package merged

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"sub_notifier/internal/domain"
)

// Fetcher is the subset of the source port a merged child must satisfy.
type Fetcher interface {
	ID() string
	Name() string
	FetchRecent(ctx context.Context, limit int) ([]domain.Post, error)
}

type Source struct {
	primary   Fetcher
	secondary Fetcher
	logger    *slog.Logger
}

func New(primary, secondary Fetcher, logger *slog.Logger) *Source {
	return &Source{
		primary:   primary,
		secondary: secondary,
		logger:    logger.With("source", "merged"),
	}
}

func (s *Source) ID() string {
	return s.primary.ID() + "+" + s.secondary.ID()
}

func (s *Source) Name() string {
	return s.primary.Name()
}

// FetchRecent queries both upstreams concurrently and awaits both. A failing
// upstream degrades to an empty contribution; the cycle only fails when
// neither produced a batch. Order is primary posts then secondary posts, both
// as fetched (newest-first), so downstream duplicate handling sees the
// primary's copy of a post first.
func (s *Source) FetchRecent(ctx context.Context, limit int) ([]domain.Post, error) {
	children := [2]Fetcher{s.primary, s.secondary}

	var (
		wg      sync.WaitGroup
		batches [2][]domain.Post
		errs    [2]error
	)

	for i, child := range children {
		wg.Add(1)
		go func() {
			defer wg.Done()
			batches[i], errs[i] = child.FetchRecent(ctx, limit)
		}()
	}
	wg.Wait()

	for i, child := range children {
		if errs[i] != nil {
			s.logger.Warn("source fetch failed, continuing without it",
				"source", child.ID(), "error", errs[i])
		}
	}

	if errs[0] != nil && errs[1] != nil {
		return nil, fmt.Errorf("all sources failed: %s: %w", s.primary.ID(), errs[0])
	}

	return append(batches[0], batches[1]...), nil
}
