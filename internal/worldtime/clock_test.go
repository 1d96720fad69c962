package worldtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickMonotonic(t *testing.T) {
	c := New()
	c.Tick(2 * time.Second)
	c.Tick(-time.Second)
	c.Tick(500 * time.Millisecond)
	assert.Equal(t, 2500*time.Millisecond, c.Passed())
}

func TestRealTimeTick(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cur := base
	c := NewWithSource(func() time.Time { return cur })

	assert.Equal(t, time.Duration(0), c.RealTimeTick())
	cur = cur.Add(100 * time.Millisecond)
	assert.Equal(t, 100*time.Millisecond, c.RealTimeTick())
	cur = cur.Add(-time.Second)
	assert.Equal(t, time.Duration(0), c.RealTimeTick())
	assert.Equal(t, 100*time.Millisecond, c.Passed())
}
