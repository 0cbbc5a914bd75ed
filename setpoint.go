package nimbus_remote

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// SetpointPrefix starts every command sent to the motor controller.
const SetpointPrefix = "SPEED"

// Setpoint is a pair of signed wheel speeds.
type Setpoint struct {
	Left  int
	Right int
}

// Encode renders the wire command "SPEED <left> <right>\n".
func (s Setpoint) Encode() []byte {
	buf := make([]byte, 0, 24)
	buf = append(buf, SetpointPrefix...)
	buf = append(buf, ' ')
	buf = strconv.AppendInt(buf, int64(s.Left), 10)
	buf = append(buf, ' ')
	buf = strconv.AppendInt(buf, int64(s.Right), 10)
	return append(buf, '\n')
}

// Clamp limits both speeds to [-limit, limit]. A limit of zero or less leaves s unchanged.
func (s Setpoint) Clamp(limit int) Setpoint {
	if limit <= 0 {
		return s
	}
	return Setpoint{Left: clampInt(s.Left, limit), Right: clampInt(s.Right, limit)}
}

func (s Setpoint) IsZero() bool {
	return s.Left == 0 && s.Right == 0
}

func clampInt(v, limit int) int {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}

// ParseSetpoint decodes a single SPEED command line. A trailing newline is optional.
func ParseSetpoint(line string) (Setpoint, error) {
	fields := strings.Split(strings.TrimSuffix(line, "\n"), " ")
	if len(fields) != 3 || fields[0] != SetpointPrefix {
		return Setpoint{}, errors.Errorf("malformed setpoint command %q", line)
	}
	left, err := strconv.Atoi(fields[1])
	if err != nil {
		return Setpoint{}, errors.Wrapf(err, "bad left speed in %q", line)
	}
	right, err := strconv.Atoi(fields[2])
	if err != nil {
		return Setpoint{}, errors.Wrapf(err, "bad right speed in %q", line)
	}
	return Setpoint{Left: left, Right: right}, nil
}
