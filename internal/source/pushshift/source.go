// Package pushshift fetches recent submissions from the Pushshift search API,
// which lags Reddit slightly but surfaces posts the listing endpoint misses.
package pushshift

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

const SourceID = "pushshift"

type Config struct {
	Subreddit string
	BaseURL   string
	Timeout   time.Duration
}

type Source struct {
	httpClient *http.Client
	baseURL    string
	subreddit  string
	logger     *slog.Logger
}

// searchResponse mirrors the submission search response. Pushshift reports
// created_utc as a number or a numeric string depending on the record.
type searchResponse struct {
	Data []submission `json:"data"`
}

type submission struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	CreatedUTC domain.CreatedAt `json:"created_utc"`
}

func New(cfg Config, logger *slog.Logger) *Source {
	return &Source{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:   cfg.BaseURL,
		subreddit: cfg.Subreddit,
		logger:    logger.With("source", SourceID),
	}
}

func (s *Source) ID() string {
	return SourceID
}

func (s *Source) Name() string {
	return "r/" + s.subreddit + " (pushshift)"
}

func (s *Source) FetchRecent(ctx context.Context, limit int) ([]domain.Post, error) {
	q := url.Values{
		"subreddit": {s.subreddit},
		"size":      {fmt.Sprint(limit)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var search searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&search); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	posts := make([]domain.Post, 0, len(search.Data))
	for _, sub := range search.Data {
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

	return posts, nil
}
