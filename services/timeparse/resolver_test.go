package timeparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday 2024-03-18 10:00 UTC.
var reference = time.Date(2024, time.March, 18, 10, 0, 0, 0, time.UTC)

func newTestResolver() *Resolver {
	return NewResolver(time.UTC, func() time.Time { return reference })
}

func TestResolveExplicit(t *testing.T) {
	r := newTestResolver()

	tests := []struct {
		name string
		text string
		want time.Time
	}{
		{"date and time", "2024-03-20 14:00", time.Date(2024, 3, 20, 14, 0, 0, 0, time.UTC)},
		{"rfc3339", "2024-03-20T14:00:00Z", time.Date(2024, 3, 20, 14, 0, 0, 0, time.UTC)},
		{"offset", "2024-03-20T14:00:00+02:00", time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)},
		{"padded", "  2024-03-21 09:30  ", time.Date(2024, 3, 21, 9, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Resolve(tt.text)
			require.True(t, ok)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestResolveNaturalLanguage(t *testing.T) {
	r := newTestResolver()

	got, ok := r.Resolve("tomorrow at 2pm")
	require.True(t, ok)
	assert.Equal(t, 19, got.Day())
	assert.Equal(t, 14, got.Hour())
	assert.Equal(t, 0, got.Minute())

	got, ok = r.Resolve("next wednesday at 3pm")
	require.True(t, ok)
	assert.Equal(t, time.Wednesday, got.Weekday())
	assert.Equal(t, 15, got.Hour())
	assert.True(t, got.After(reference))
}

func TestResolveUsesConfiguredZone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	r := NewResolver(ny, func() time.Time { return reference })

	got, ok := r.Resolve("2024-03-20 14:00")
	require.True(t, ok)
	assert.Equal(t, ny, got.Location())
	assert.Equal(t, 18, got.UTC().Hour())
}

func TestResolveRejectsGarbage(t *testing.T) {
	r := newTestResolver()

	for _, text := range []string{"", "   ", "not a date", "banana", "asdf qwerty", "!!!"} {
		_, ok := r.Resolve(text)
		assert.False(t, ok, "expected %q to be rejected", text)
	}
}

func TestResolveRejectsPartialDates(t *testing.T) {
	r := newTestResolver()

	tests := []struct {
		name string
		text string
	}{
		{"day overflow", "2024-02-30 10:00"},
		{"month and day overflow", "2024-13-45 10:00"},
		{"all zero", "0000-00-00"},
		{"slash overflow", "2024/02/30 14:00"},
		{"us slash overflow", "02/30/2024"},
		{"named month overflow", "February 30 at 2pm"},
		{"day before month overflow", "31st of April"},
		{"trailing words", "tomorrow at 2pm banana"},
		{"leading words", "zorp 3pm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Resolve(tt.text)
			assert.False(t, ok, "resolved %q to %s", tt.text, got)
		})
	}
}

func TestResolveAllowsFillerAroundPhrase(t *testing.T) {
	r := newTestResolver()

	got, ok := r.Resolve("how about tomorrow at 2pm please")
	require.True(t, ok)
	assert.Equal(t, 19, got.Day())
	assert.Equal(t, 14, got.Hour())

	got, ok = r.Resolve("March 22 at 3pm")
	require.True(t, ok)
	assert.Equal(t, time.March, got.Month())
	assert.Equal(t, 22, got.Day())
	assert.Equal(t, 15, got.Hour())
}

func TestResolveIsDeterministic(t *testing.T) {
	r := newTestResolver()

	a, okA := r.Resolve("tomorrow at 2pm")
	b, okB := r.Resolve("tomorrow at 2pm")
	require.True(t, okA)
	require.True(t, okB)
	assert.True(t, a.Equal(b))
}
