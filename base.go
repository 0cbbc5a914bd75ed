package nimbus_remote

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/rdk/components/base"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/resource"
	"go.viam.com/rdk/spatialmath"
)

var SerialBaseModel = resource.NewModel("devrel", "nimbus", "serial-base")

func init() {
	resource.RegisterComponent(base.API, SerialBaseModel,
		resource.Registration[base.Base, *SerialBaseConfig]{
			Constructor: newSerialBase,
		},
	)
}

// SerialBaseConfig configures a differential base driven by SPEED commands.
type SerialBaseConfig struct {
	Port     string        `json:"port"`               // Required: Serial port path (e.g., "/dev/ttyUSB0")
	Baudrate int           `json:"baudrate,omitempty"` // default: 9600
	Timeout  time.Duration `json:"timeout,omitempty"`  // default: 5s

	MaxSpeed            int     `json:"max_speed,omitempty"` // setpoint sent at full power (default: 255)
	WidthMM             int     `json:"width_mm,omitempty"`
	TurningRadiusMeters float64 `json:"turning_radius_meters,omitempty"`
}

// Validate ensures all parts of the config are valid
func (cfg *SerialBaseConfig) Validate(path string) ([]string, []string, error) {
	if cfg.Port == "" {
		return nil, nil, resource.NewConfigValidationFieldRequiredError(path, "port")
	}

	if cfg.Baudrate == 0 {
		cfg.Baudrate = DefaultBaudrate
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxSpeed == 0 {
		cfg.MaxSpeed = DefaultSpeed
	}

	if cfg.MaxSpeed < 0 {
		return nil, nil, fmt.Errorf("%w: max_speed must be positive, got %d", ErrInvalidArgument, cfg.MaxSpeed)
	}
	if cfg.WidthMM < 0 {
		return nil, nil, fmt.Errorf("%w: width_mm must not be negative, got %d", ErrInvalidArgument, cfg.WidthMM)
	}

	return nil, nil, nil
}

func (cfg *SerialBaseConfig) serial() SerialConfig {
	return SerialConfig{Port: cfg.Port, Baudrate: cfg.Baudrate, Timeout: cfg.Timeout}
}

// serialBase is an open-loop differential base. Only power commands are supported;
// there is no odometry to close a velocity or distance loop on.
type serialBase struct {
	resource.Named
	resource.AlwaysRebuild

	mu        sync.Mutex
	cfg       *SerialBaseConfig
	transport Transport
	current   Setpoint
	closed    bool
	logger    logging.Logger
}

func newSerialBase(
	ctx context.Context,
	deps resource.Dependencies,
	conf resource.Config,
	logger logging.Logger,
) (base.Base, error) {
	newConf, err := resource.NativeConfig[*SerialBaseConfig](conf)
	if err != nil {
		return nil, err
	}

	transport, err := sharedTransports.Acquire(newConf.serial(), logger)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to motor controller")
	}
	return newSerialBaseWithTransport(conf.ResourceName(), newConf, transport, logger), nil
}

func newSerialBaseWithTransport(name resource.Name, cfg *SerialBaseConfig, transport Transport, logger logging.Logger) *serialBase {
	return &serialBase{
		Named:     name.AsNamed(),
		cfg:       cfg,
		transport: transport,
		logger:    logger,
	}
}

// SetPower mixes linear.Y and angular.Z (each in [-1, 1]) into left and right setpoints.
// Positive angular turns left, like the Left key.
func (b *serialBase) SetPower(ctx context.Context, linear, angular r3.Vector, extra map[string]interface{}) error {
	left := clampUnit(linear.Y - angular.Z)
	right := clampUnit(linear.Y + angular.Z)
	sp := Setpoint{
		Left:  int(left * float64(b.cfg.MaxSpeed)),
		Right: int(right * float64(b.cfg.MaxSpeed)),
	}
	b.logger.CDebugf(ctx, "SetPower linear=%.2f angular=%.2f -> %d %d", linear.Y, angular.Z, sp.Left, sp.Right)
	return b.send(sp)
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

func (b *serialBase) send(sp Setpoint) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return errTransportClosed
	}
	sp = sp.Clamp(b.cfg.MaxSpeed)
	if _, err := b.transport.Write(sp.Encode()); err != nil {
		return fmt.Errorf("%w: %w", ErrTransportWrite, err)
	}
	b.current = sp
	return nil
}

func (b *serialBase) MoveStraight(ctx context.Context, distanceMm int, mmPerSec float64, extra map[string]interface{}) error {
	return errUnimplemented
}

func (b *serialBase) Spin(ctx context.Context, angleDeg, degsPerSec float64, extra map[string]interface{}) error {
	return errUnimplemented
}

func (b *serialBase) SetVelocity(ctx context.Context, linear, angular r3.Vector, extra map[string]interface{}) error {
	return errUnimplemented
}

// Stop sends a zero setpoint.
func (b *serialBase) Stop(ctx context.Context, extra map[string]interface{}) error {
	return b.send(Setpoint{})
}

// IsMoving reports whether the last setpoint sent was non-zero.
func (b *serialBase) IsMoving(ctx context.Context) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.current.IsZero(), nil
}

func (b *serialBase) Properties(ctx context.Context, extra map[string]interface{}) (base.Properties, error) {
	return base.Properties{
		TurningRadiusMeters: b.cfg.TurningRadiusMeters,
		WidthMeters:         float64(b.cfg.WidthMM) * 0.001,
	}, nil
}

func (b *serialBase) Geometries(ctx context.Context, extra map[string]interface{}) ([]spatialmath.Geometry, error) {
	return nil, nil
}

// DoCommand executes custom commands
func (b *serialBase) DoCommand(ctx context.Context, cmd map[string]interface{}) (map[string]interface{}, error) {
	switch cmd["command"] {
	case "set_speed":
		left, ok := cmd["left"].(float64)
		if !ok {
			return nil, errors.New("left must be a number")
		}
		right, ok := cmd["right"].(float64)
		if !ok {
			return nil, errors.New("right must be a number")
		}
		if err := b.send(Setpoint{Left: int(left), Right: int(right)}); err != nil {
			return nil, err
		}
		return b.speedResponse(), nil
	case "get_speed":
		return b.speedResponse(), nil
	case "get_controller_status":
		refCount, open, summary := sharedTransports.Status(b.cfg.Port)
		return map[string]interface{}{
			"ref_count": refCount,
			"open":      open,
			"config":    summary,
		}, nil
	default:
		return nil, errors.Errorf("unknown command: %v", cmd["command"])
	}
}

func (b *serialBase) speedResponse() map[string]interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	return map[string]interface{}{
		"left":  b.current.Left,
		"right": b.current.Right,
	}
}

// Close stops the wheels and releases the serial link.
func (b *serialBase) Close(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	if _, err := b.transport.Write(Setpoint{}.Encode()); err != nil {
		b.logger.Warnf("failed to stop wheels before closing: %v", err)
	}
	b.current = Setpoint{}
	return b.transport.Close()
}
