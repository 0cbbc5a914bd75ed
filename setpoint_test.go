package nimbus_remote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetpointEncode(t *testing.T) {
	tests := []struct {
		sp   Setpoint
		want string
	}{
		{Setpoint{0, 0}, "SPEED 0 0\n"},
		{Setpoint{255, 255}, "SPEED 255 255\n"},
		{Setpoint{216, -216}, "SPEED 216 -216\n"},
		{Setpoint{-1020, 7}, "SPEED -1020 7\n"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, string(tt.sp.Encode()))
		})
	}
}

func TestSetpointClamp(t *testing.T) {
	assert.Equal(t, Setpoint{255, -255}, Setpoint{471, -300}.Clamp(255))
	assert.Equal(t, Setpoint{10, -10}, Setpoint{10, -10}.Clamp(255))
	assert.Equal(t, Setpoint{471, -300}, Setpoint{471, -300}.Clamp(0))
}

func TestParseSetpoint(t *testing.T) {
	sp, err := ParseSetpoint("SPEED 471 39\n")
	require.NoError(t, err)
	assert.Equal(t, Setpoint{471, 39}, sp)

	sp, err = ParseSetpoint("SPEED -5 0")
	require.NoError(t, err)
	assert.Equal(t, Setpoint{-5, 0}, sp)

	for _, bad := range []string{"", "SPEED", "SPEED 1", "SPEED 1 2 3", "SPED 1 2", "SPEED a 2", "SPEED 1 b", "SPEED  1 2"} {
		_, err := ParseSetpoint(bad)
		assert.Error(t, err, "input %q", bad)
	}
}
