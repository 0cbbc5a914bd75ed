package nimbus_remote

// KeyStateTracker keeps the set of keys currently held down.
// A code is held iff its last event was a press that has not been released.
type KeyStateTracker struct {
	held map[KeyCode]struct{}
}

func NewKeyStateTracker() *KeyStateTracker {
	return &KeyStateTracker{held: make(map[KeyCode]struct{})}
}

// Press marks code as held. It returns false if the key was already held,
// in which case nothing changes.
func (t *KeyStateTracker) Press(code KeyCode) bool {
	if _, ok := t.held[code]; ok {
		return false
	}
	t.held[code] = struct{}{}
	return true
}

// Release clears code. It returns false if the key was not held.
func (t *KeyStateTracker) Release(code KeyCode) bool {
	if _, ok := t.held[code]; !ok {
		return false
	}
	delete(t.held, code)
	return true
}

func (t *KeyStateTracker) IsHeld(code KeyCode) bool {
	_, ok := t.held[code]
	return ok
}

// Held returns the number of keys currently down.
func (t *KeyStateTracker) Held() int {
	return len(t.held)
}
