// Package pushover delivers notifications through the Pushover message API.
package pushover

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"sub_notifier/internal/domain"
)

type Config struct {
	URL     string
	Token   string
	User    string
	Timeout time.Duration
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	user       string
	logger     *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.URL,
		token:   cfg.Token,
		user:    cfg.User,
		logger:  logger.With("gateway", "pushover"),
	}
}

type response struct {
	Status  int      `json:"status"`
	Request string   `json:"request"`
	Errors  []string `json:"errors"`
}

// Push sends one notification as a form-encoded POST. The response body's
// status field is authoritative: 1 is logical success regardless of the HTTP
// status class; anything else is a *domain.GatewayError.
func (c *Client) Push(ctx context.Context, n domain.Notification) error {
	form := url.Values{
		"token":     {c.token},
		"user":      {c.user},
		"title":     {n.Title},
		"message":   {n.Message},
		"url":       {n.URL},
		"timestamp": {strconv.FormatInt(n.Timestamp, 10)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if body.Status != 1 {
		return &domain.GatewayError{Status: body.Status, Messages: body.Errors}
	}

	c.logger.Debug("notification accepted", "request_id", body.Request)
	return nil
}
