package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreatedAt_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		unix  int64
		valid bool
	}{
		{"numeric epoch", `{"ts": 1672628645}`, 1672628645, true},
		{"fractional epoch", `{"ts": 1672628645.5}`, 1672628645, true},
		{"numeric string", `{"ts": "1672628645"}`, 1672628645, true},
		{"rfc3339 string", `{"ts": "2023-01-02T03:04:05Z"}`, 1672628645, true},
		{"garbage string", `{"ts": "yesterday-ish"}`, 0, false},
		{"null", `{"ts": null}`, 0, false},
		{"absent", `{}`, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out struct {
				TS CreatedAt `json:"ts"`
			}
			require.NoError(t, json.Unmarshal([]byte(tc.in), &out))
			require.Equal(t, tc.valid, out.TS.Valid())
			if tc.valid {
				require.Equal(t, tc.unix, out.TS.Unix())
			}
		})
	}
}

func TestPost_Permalink(t *testing.T) {
	p := Post{ID: "1abc2d"}
	require.Equal(t, "https://redd.it/1abc2d", p.Permalink())
}

func TestGatewayError_Error(t *testing.T) {
	err := &GatewayError{Status: 0, Messages: []string{"user identifier is invalid"}}
	require.Contains(t, err.Error(), "status 0")
	require.Contains(t, err.Error(), "user identifier is invalid")

	bare := &GatewayError{Status: 0}
	require.Contains(t, bare.Error(), "status 0")
}
