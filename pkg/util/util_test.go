package util

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"60", 60 * time.Second},
		{"90s", 90 * time.Second},
		{"5m", 5 * time.Minute},
		{"2d", 48 * time.Hour},
		{" 30 ", 30 * time.Second},
	}
	for _, c := range cases {
		got, err := ParseDuration(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}

	_, err := ParseDuration("xd")
	assert.Error(t, err)
}

func TestGetRandomBase36String(t *testing.T) {
	s := GetRandomBase36String(9)
	assert.Len(t, s, 9)
	for _, r := range s {
		assert.True(t, strings.ContainsRune("abcdefghijklmnopqrstuvwxyz0123456789", r))
	}
}
