// discovery_test.go
package nimbus_remote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.viam.com/rdk/components/base"
)

func TestFilterCandidatePorts(t *testing.T) {
	tests := []struct {
		name     string
		ports    []string
		expected []string
	}{
		{
			name:     "Linux USB ports",
			ports:    []string{"/dev/ttyUSB0", "/dev/ttyS0", "/dev/ttyACM0", "/dev/null"},
			expected: []string{"/dev/ttyUSB0", "/dev/ttyACM0"},
		},
		{
			name:     "macOS USB ports",
			ports:    []string{"/dev/tty.usbmodem123", "/dev/tty.Bluetooth", "/dev/cu.usbserial-AB"},
			expected: []string{"/dev/tty.usbmodem123", "/dev/cu.usbserial-AB"},
		},
		{
			name:     "Windows COM ports",
			ports:    []string{"COM3", "COM10", "LPT1"},
			expected: []string{"COM3", "COM10"},
		},
		{
			name:     "Empty list",
			ports:    []string{},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, filterCandidatePorts(tt.ports))
		})
	}
}

func TestExtractPortSuffix(t *testing.T) {
	assert.Equal(t, "ttyUSB0", extractPortSuffix("/dev/ttyUSB0"))
	assert.Equal(t, "usbmodem123", extractPortSuffix("/dev/tty.usbmodem123"))
	assert.Equal(t, "usbserial-AB", extractPortSuffix("/dev/cu.usbserial-AB"))
	assert.Equal(t, "COM3", extractPortSuffix("COM3"))
}

func TestSerialBaseConfig(t *testing.T) {
	conf := serialBaseConfig("/dev/ttyACM0", 0)
	assert.Equal(t, "nimbus-base-ttyACM0", conf.Name)
	assert.Equal(t, base.API, conf.API)
	assert.Equal(t, SerialBaseModel, conf.Model)
	assert.Equal(t, map[string]interface{}{"port": "/dev/ttyACM0"}, map[string]interface{}(conf.Attributes))

	conf = serialBaseConfig("COM4", 115200)
	assert.Equal(t, 115200, conf.Attributes["baudrate"])
}
