package watermark

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStore_ColdStart(t *testing.T) {
	ctx := context.Background()

	store, err := Open(filepath.Join(t.TempDir(), "watermark"))
	require.NoError(t, err)

	seen, err := store.Contains(ctx, "abc")
	require.NoError(t, err)
	require.False(t, seen)
}

func TestStore_WatermarkOrdering(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "watermark")

	require.NoError(t, os.WriteFile(path, []byte("100\n"), 0o600))

	store, err := Open(path)
	require.NoError(t, err)

	cases := []struct {
		id   string
		seen bool
	}{
		{"95", true},
		{"100", true},
		{"105", false},
		{"110", false},
	}
	for _, tc := range cases {
		seen, err := store.Contains(ctx, tc.id)
		require.NoError(t, err)
		require.Equal(t, tc.seen, seen, "id %q", tc.id)
	}
}

func TestStore_MarkSeenAdvances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "watermark")

	store, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, store.MarkSeen(ctx, "105"))

	seen, err := store.Contains(ctx, "105")
	require.NoError(t, err)
	require.True(t, seen)

	seen, err = store.Contains(ctx, "110")
	require.NoError(t, err)
	require.False(t, seen)
}

func TestStore_NeverMovesBackwards(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "watermark")

	store, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, store.MarkSeen(ctx, "zz"))
	require.NoError(t, store.MarkSeen(ctx, "10"))

	seen, err := store.Contains(ctx, "zz")
	require.NoError(t, err)
	require.True(t, seen)
}

func TestStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "watermark")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.MarkSeen(ctx, "zz"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "zz", strings.TrimSpace(string(data)))

	reopened, err := Open(path)
	require.NoError(t, err)

	seen, err := reopened.Contains(ctx, "zz")
	require.NoError(t, err)
	require.True(t, seen)

	seen, err = reopened.Contains(ctx, "z z") // parses as nothing
	require.Error(t, err)
	require.False(t, seen)
}

func TestStore_FailsClosedOnUnparsableID(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "watermark")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.MarkSeen(ctx, "100"))

	_, err = store.Contains(ctx, "not/an/id")
	require.Error(t, err)

	require.Error(t, store.MarkSeen(ctx, "not/an/id"))

	// The watermark is untouched after the refusal.
	seen, err := store.Contains(ctx, "100")
	require.NoError(t, err)
	require.True(t, seen)
}

func TestStore_CorruptFileIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watermark")
	require.NoError(t, os.WriteFile(path, []byte("not a watermark"), 0o600))

	_, err := Open(path)
	require.Error(t, err)
}

func TestStore_EmptyFileIsColdStart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "watermark")
	require.NoError(t, os.WriteFile(path, []byte("\n"), 0o600))

	store, err := Open(path)
	require.NoError(t, err)

	seen, err := store.Contains(ctx, "abc")
	require.NoError(t, err)
	require.False(t, seen)
}
