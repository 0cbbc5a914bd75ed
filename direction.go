package nimbus_remote

import "fmt"

// Direction is one of the four drive directions bound to a key.
type Direction int

const (
	Forward Direction = iota
	Backward
	TurnLeft
	TurnRight
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "Up"
	case Backward:
		return "Down"
	case TurnLeft:
		return "Left"
	case TurnRight:
		return "Right"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Delta returns the change to (speed_l, speed_r) applied when the direction is pressed.
// Releasing applies the exact negation. The turn magnitude is truncated toward zero.
func (d Direction) Delta(speed int, turn float64) (int, int) {
	turnSpeed := int(float64(speed) * turn)
	switch d {
	case Forward:
		return speed, speed
	case Backward:
		return -speed, -speed
	case TurnLeft:
		return -turnSpeed, turnSpeed
	case TurnRight:
		return turnSpeed, -turnSpeed
	default:
		return 0, 0
	}
}

// KeyCode identifies a key reported by an input source. Only the codes below are
// interpreted; anything else is passed through and ignored by the controller.
type KeyCode string

const (
	KeyUp     KeyCode = "Up"
	KeyDown   KeyCode = "Down"
	KeyLeft   KeyCode = "Left"
	KeyRight  KeyCode = "Right"
	KeyEscape KeyCode = "Escape"
)

// QuitKey ends the session when pressed.
const QuitKey = KeyEscape

// DefaultBindings maps the arrow keys to drive directions.
var DefaultBindings = map[KeyCode]Direction{
	KeyUp:    Forward,
	KeyDown:  Backward,
	KeyLeft:  TurnLeft,
	KeyRight: TurnRight,
}
