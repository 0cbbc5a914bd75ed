// discovery.go
package nimbus_remote

import (
	"context"
	"path/filepath"
	"strings"

	"go.bug.st/serial/enumerator"
	"go.viam.com/rdk/components/base"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/resource"
	"go.viam.com/rdk/services/discovery"
)

var NimbusDiscoveryModel = resource.NewModel("devrel", "nimbus", "discovery")

func init() {
	resource.RegisterService(
		discovery.API,
		NimbusDiscoveryModel,
		resource.Registration[discovery.Service, *NimbusDiscoveryConfig]{
			Constructor: newNimbusDiscovery,
		})
}

// NimbusDiscoveryConfig is the configuration for the discovery service
type NimbusDiscoveryConfig struct {
	Baudrate int `json:"baudrate,omitempty"`
}

// Validate ensures the config is valid
func (cfg *NimbusDiscoveryConfig) Validate(path string) ([]string, []string, error) {
	return nil, nil, nil
}

type nimbusDiscovery struct {
	resource.Named
	resource.AlwaysRebuild
	resource.TriviallyCloseable
	baudrate int
	logger   logging.Logger
}

func newNimbusDiscovery(
	ctx context.Context,
	deps resource.Dependencies,
	conf resource.Config,
	logger logging.Logger,
) (discovery.Service, error) {
	newConf, err := resource.NativeConfig[*NimbusDiscoveryConfig](conf)
	if err != nil {
		return nil, err
	}

	return &nimbusDiscovery{
		Named:    conf.ResourceName().AsNamed(),
		baudrate: newConf.Baudrate,
		logger:   logger,
	}, nil
}

// DiscoverResources proposes a serial base for every USB serial port. The motor
// controller never answers, so ports cannot be probed; the user picks the right one.
func (dis *nimbusDiscovery) DiscoverResources(ctx context.Context, extra map[string]any) ([]resource.Config, error) {
	candidates := filterCandidatePorts(enumerateSerialPorts())
	dis.logger.Debugf("Found %d candidate serial ports", len(candidates))

	var configs []resource.Config
	for _, portPath := range candidates {
		select {
		case <-ctx.Done():
			return configs, ctx.Err()
		default:
		}
		configs = append(configs, serialBaseConfig(portPath, dis.baudrate))
	}
	return configs, nil
}

func serialBaseConfig(portPath string, baudrate int) resource.Config {
	attrs := map[string]interface{}{
		"port": portPath,
	}
	if baudrate > 0 {
		attrs["baudrate"] = baudrate
	}
	return resource.Config{
		Name:       "nimbus-base-" + extractPortSuffix(portPath),
		API:        base.API,
		Model:      SerialBaseModel,
		Attributes: attrs,
	}
}

// CandidatePorts returns the serial ports that look like a USB motor controller.
func CandidatePorts() []string {
	return filterCandidatePorts(enumerateSerialPorts())
}

// filterCandidatePorts filters serial ports by platform-specific naming patterns
func filterCandidatePorts(ports []string) []string {
	candidates := []string{}
	for _, port := range ports {
		if isCandidatePort(port) {
			candidates = append(candidates, port)
		}
	}
	return candidates
}

// isCandidatePort checks if a port matches USB serial adapter naming
func isCandidatePort(port string) bool {
	// Linux: /dev/ttyUSB*, /dev/ttyACM*
	if strings.HasPrefix(port, "/dev/ttyUSB") || strings.HasPrefix(port, "/dev/ttyACM") {
		return true
	}
	// macOS: /dev/tty.usbmodem*, /dev/tty.usbserial*, /dev/cu.usbmodem*, /dev/cu.usbserial*
	if strings.HasPrefix(port, "/dev/tty.usbmodem") || strings.HasPrefix(port, "/dev/tty.usbserial") ||
		strings.HasPrefix(port, "/dev/cu.usbmodem") || strings.HasPrefix(port, "/dev/cu.usbserial") {
		return true
	}
	// Windows: COM*
	return strings.HasPrefix(port, "COM")
}

// extractPortSuffix extracts a friendly suffix from port path for naming
// /dev/ttyUSB0 -> "ttyUSB0"
// /dev/tty.usbmodem123 -> "usbmodem123"
func extractPortSuffix(portPath string) string {
	name := filepath.Base(portPath)

	if strings.HasPrefix(name, "tty.usb") {
		return strings.TrimPrefix(name, "tty.")
	}
	if strings.HasPrefix(name, "cu.usb") {
		return strings.TrimPrefix(name, "cu.")
	}
	return name
}

// enumerateSerialPorts returns a list of all serial ports on the system
func enumerateSerialPorts() []string {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return []string{}
	}

	var portPaths []string
	for _, port := range ports {
		portPaths = append(portPaths, port.Name)
	}
	return portPaths
}
