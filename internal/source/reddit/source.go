package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"sub_notifier/internal/domain"
)

const SourceID = "reddit"

// Config holds Reddit source configuration.
type Config struct {
	Subreddit string
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Source fetches recent submissions from the public Reddit JSON API.
type Source struct {
	httpClient *http.Client
	baseURL    string
	subreddit  string
	userAgent  string
	logger     *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Source {
	return &Source{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:   cfg.BaseURL,
		subreddit: cfg.Subreddit,
		userAgent: cfg.UserAgent,
		logger:    logger.With("source", SourceID),
	}
}

func (s *Source) ID() string {
	return SourceID
}

func (s *Source) Name() string {
	return "r/" + s.subreddit
}

// FetchRecent returns up to limit submissions, newest-first as Reddit
// orders them.
func (s *Source) FetchRecent(ctx context.Context, limit int) ([]domain.Post, error) {
	u := fmt.Sprintf("%s/r/%s/new.json?limit=%d",
		s.baseURL, url.PathEscape(s.subreddit), limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	// Reddit throttles requests without a distinctive User-Agent.
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("r/%s: unexpected status: %d", s.subreddit, resp.StatusCode)
	}

	var listing Listing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}

	return s.transform(listing), nil
}

func (s *Source) transform(listing Listing) []domain.Post {
	posts := make([]domain.Post, 0, len(listing.Data.Children))

	for _, child := range listing.Data.Children {
		sub := child.Data
		if !sub.CreatedUTC.Valid() {
			s.logger.Warn("dropping post with unparsable creation time",
				"post_id", sub.ID)
			continue
		}

		posts = append(posts, domain.Post{
			ID:        sub.ID,
			Title:     sub.Title,
			SourceID:  SourceID,
			CreatedAt: sub.CreatedUTC,
		})
	}

	return posts
}
