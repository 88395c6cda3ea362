package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyeh/claimstats/internal/model"
)

func TestKey(t *testing.T) {
	d := time.Date(2026, 4, 1, 13, 0, 0, 0, time.UTC)
	assert.Equal(t, "abc123@2026-04-01", Key("abc123", d))
}

func TestResults_PutGetLast(t *testing.T) {
	c := New(time.Minute)

	_, ok := c.Last()
	assert.False(t, ok)

	first := model.RunResult{Summary: model.RunSummary{RunID: "one"}}
	second := model.RunResult{Summary: model.RunSummary{RunID: "two"}}
	c.Put("a", first)
	c.Put("b", second)

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "one", got.Summary.RunID)

	last, ok := c.Last()
	require.True(t, ok)
	assert.Equal(t, "two", last.Summary.RunID)
	assert.Equal(t, 3, c.Len())

	_, ok = c.Get("missing")
	assert.False(t, ok)

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestResults_Expiry(t *testing.T) {
	c := New(10 * time.Millisecond)
	c.Put("a", model.RunResult{})
	time.Sleep(25 * time.Millisecond)

	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Last()
	assert.True(t, ok)
}
