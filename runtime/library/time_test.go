package library

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseSleepDuration(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"1h30m45s", time.Hour + 30*time.Minute + 45*time.Second},
		{"500ms", 500 * time.Millisecond},
		{"90s", 90 * time.Second},
		{"1h", time.Hour},
		{"1h0m30s", time.Hour + 30*time.Second},
	}
	for _, tc := range cases {
		got, err := parseSleepDuration(tc.in)
		require.Nil(t, err, "parseSleepDuration(%q)", tc.in)
		require.Equal(t, tc.want, got, "parseSleepDuration(%q)", tc.in)
	}
}

func TestParseSleepDurationErrors(t *testing.T) {
	cases := []string{
		"",     // empty
		"30",   // missing unit
		"h",    // missing number
		"1m1h", // ascending order
		"1h1h", // repeated unit
		"1z",   // unknown unit
	}
	for _, in := range cases {
		_, err := parseSleepDuration(in)
		require.Error(t, err, "parseSleepDuration(%q)", in)
	}
}
