package domain

import (
	"encoding/json"
	"strconv"
	"time"
)

// Post is a single submission fetched from an upstream source.
// Immutable once fetched.
type Post struct {
	ID        string
	Title     string
	SourceID  string
	CreatedAt CreatedAt
}

// Permalink returns the canonical short link for the post.
func (p Post) Permalink() string {
	return "https://redd.it/" + p.ID
}

// CreatedAt is a post creation time. Upstream APIs report it either as a
// numeric epoch value or as a string (numeric or RFC 3339); all forms are
// normalized to epoch seconds. Values that parse as neither are flagged
// invalid rather than silently defaulted.
type CreatedAt struct {
	unix  int64
	valid bool
}

// NewCreatedAt builds a valid creation time from t.
func NewCreatedAt(t time.Time) CreatedAt {
	return CreatedAt{unix: t.Unix(), valid: true}
}

func (c *CreatedAt) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case float64:
		c.unix, c.valid = int64(v), true
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.unix, c.valid = int64(f), true
			return nil
		}
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			c.unix, c.valid = t.Unix(), true
		}
	}
	return nil
}

// Valid reports whether the upstream value parsed as a timestamp.
func (c CreatedAt) Valid() bool {
	return c.valid
}

// Unix returns the normalized epoch seconds.
func (c CreatedAt) Unix() int64 {
	return c.unix
}

func (c CreatedAt) Time() time.Time {
	return time.Unix(c.unix, 0).UTC()
}
