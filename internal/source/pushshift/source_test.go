package pushshift

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestSource_FetchRecent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "golang", r.URL.Query().Get("subreddit"))
		require.Equal(t, "50", r.URL.Query().Get("size"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": [
				{"id": "p2", "title": "Newer", "created_utc": "1700000200"},
				{"id": "p1", "title": "Older", "created_utc": 1700000100}
			]
		}`))
	}))
	defer server.Close()

	src := New(Config{
		Subreddit: "golang",
		BaseURL:   server.URL,
		Timeout:   5 * time.Second,
	}, testLogger())

	posts, err := src.FetchRecent(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	require.Equal(t, "p2", posts[0].ID)
	require.Equal(t, int64(1700000200), posts[0].CreatedAt.Unix())
	require.Equal(t, "p1", posts[1].ID)
	require.Equal(t, "pushshift", posts[1].SourceID)
}

func TestSource_FetchRecentStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	src := New(Config{
		Subreddit: "golang",
		BaseURL:   server.URL,
		Timeout:   5 * time.Second,
	}, testLogger())

	_, err := src.FetchRecent(context.Background(), 50)
	require.Error(t, err)
}
