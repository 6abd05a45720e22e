// Package watermark keeps dedup state as a single plain-text file holding the
// highest post id known to be delivered. Ids must share a total order; Reddit
// ids are base-36 integers. Trades O(1) state for the ordering requirement.
package watermark

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const idBase = 36

// Store is single-writer: the dispatcher owns it for the process lifetime,
// so no locking is needed.
type Store struct {
	path string
	mark int64
	set  bool
}

// Open restores the watermark from path. A missing or empty file is a cold
// start; a file whose content does not parse is an error, because guessing a
// watermark risks duplicate or lost deliveries.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read watermark file: %w", err)
	}

	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return s, nil
	}

	mark, err := strconv.ParseInt(raw, idBase, 64)
	if err != nil {
		return nil, fmt.Errorf("parse watermark %q: %w", raw, err)
	}

	s.mark = mark
	s.set = true
	return s, nil
}

// Contains treats any id ordered at or below the watermark as seen. An id
// that does not parse fails closed: the caller must skip the post rather
// than deliver it.
func (s *Store) Contains(_ context.Context, id string) (bool, error) {
	if !s.set {
		return false, nil
	}
	n, err := strconv.ParseInt(id, idBase, 64)
	if err != nil {
		return false, fmt.Errorf("unorderable post id %q: %w", id, err)
	}
	return n <= s.mark, nil
}

// MarkSeen advances the watermark and rewrites the file through a temp file
// and rename, so a crash leaves either the old or the new value, never a
// torn write. The watermark never moves backwards.
func (s *Store) MarkSeen(_ context.Context, id string) error {
	n, err := strconv.ParseInt(id, idBase, 64)
	if err != nil {
		return fmt.Errorf("unorderable post id %q: %w", id, err)
	}
	if s.set && n <= s.mark {
		return nil
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(strconv.FormatInt(n, idBase)+"\n"), 0o600); err != nil {
		return fmt.Errorf("write watermark: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace watermark file: %w", err)
	}

	s.mark = n
	s.set = true
	return nil
}

func (s *Store) Close() error {
	return nil
}
