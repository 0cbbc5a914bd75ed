package nimbus_remote

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyStateTracker(t *testing.T) {
	tracker := NewKeyStateTracker()

	assert.True(t, tracker.Press(KeyUp))
	assert.False(t, tracker.Press(KeyUp), "duplicate press must be rejected")
	assert.True(t, tracker.IsHeld(KeyUp))
	assert.Equal(t, 1, tracker.Held())

	assert.True(t, tracker.Press(KeyLeft))
	assert.Equal(t, 2, tracker.Held())

	assert.True(t, tracker.Release(KeyUp))
	assert.False(t, tracker.Release(KeyUp), "second release must be a no-op")
	assert.False(t, tracker.IsHeld(KeyUp))

	assert.False(t, tracker.Release(KeyRight))
	assert.Equal(t, 1, tracker.Held())

	// a released key can be pressed again
	assert.True(t, tracker.Press(KeyUp))
}
