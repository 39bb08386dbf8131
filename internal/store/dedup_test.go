package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDedupSeenMark(t *testing.T) {
	d := NewDedup(10, time.Hour)
	assert.False(t, d.Seen("t-1"))
	d.Mark("t-1")
	assert.True(t, d.Seen("t-1"))
	assert.False(t, d.Seen("t-2"))
}

func TestDedupExpiry(t *testing.T) {
	d := NewDedup(10, 10*time.Millisecond)
	d.Mark("t-1")
	assert.True(t, d.Seen("t-1"))
	time.Sleep(20 * time.Millisecond)
	assert.False(t, d.Seen("t-1"))
}

func TestDedupEviction(t *testing.T) {
	d := NewDedup(3, time.Hour)
	for i := 0; i < 5; i++ {
		d.Mark(fmt.Sprintf("t-%d", i))
	}
	assert.False(t, d.Seen("t-0"), "cold entries evicted")
	assert.False(t, d.Seen("t-1"))
	assert.True(t, d.Seen("t-4"))
}
