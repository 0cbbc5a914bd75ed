package nimbus_remote

import (
	"fmt"
	"sync"

	"go.viam.com/rdk/logging"
)

// SessionState is the lifecycle state of a DriveController.
type SessionState int

const (
	StateRunning SessionState = iota
	StateShutdown
)

func (s SessionState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateShutdown:
		return "shutdown"
	default:
		return fmt.Sprintf("SessionState(%d)", int(s))
	}
}

// DriveController turns key transitions into wheel setpoints and writes them
// to the transport. Handlers are serialized; once shut down, every event is dropped.
type DriveController struct {
	mu sync.Mutex

	transport Transport
	logger    logging.Logger
	cfg       DriveConfig
	bindings  map[KeyCode]Direction

	tracker *KeyStateTracker
	speedL  int
	speedR  int

	state    SessionState
	done     chan struct{}
	closeErr error
}

// NewDriveController starts a session on transport with both wheels at zero.
func NewDriveController(transport Transport, cfg DriveConfig, logger logging.Logger) (*DriveController, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if transport == nil {
		return nil, fmt.Errorf("%w: transport is required", ErrInvalidArgument)
	}
	return &DriveController{
		transport: transport,
		logger:    logger,
		cfg:       cfg,
		bindings:  DefaultBindings,
		tracker:   NewKeyStateTracker(),
		state:     StateRunning,
		done:      make(chan struct{}),
	}, nil
}

// HandlePress processes a key-down event. The only error it returns is a
// wrapped ErrTransportWrite, after the session has been shut down.
func (c *DriveController) HandlePress(code KeyCode) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateRunning {
		return nil
	}
	if code == QuitKey {
		return c.shutdownLocked()
	}
	dir, ok := c.bindings[code]
	if !ok {
		return nil
	}
	if !c.tracker.Press(code) {
		return nil
	}

	c.logger.Info(dir.String())
	dl, dr := dir.Delta(c.cfg.Speed, c.cfg.Turn)
	c.speedL += dl
	c.speedR += dr
	return c.commitLocked()
}

// HandleRelease processes a key-up event. Releases of keys that are not held are ignored.
func (c *DriveController) HandleRelease(code KeyCode) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateRunning {
		return nil
	}
	dir, ok := c.bindings[code]
	if !ok {
		return nil
	}
	if !c.tracker.Release(code) {
		return nil
	}

	c.logger.Info(dir.String())
	dl, dr := dir.Delta(c.cfg.Speed, c.cfg.Turn)
	c.speedL -= dl
	c.speedR -= dr
	return c.commitLocked()
}

// commitLocked writes the current setpoint and reports it. A failed write shuts the session down.
func (c *DriveController) commitLocked() error {
	sp := Setpoint{Left: c.speedL, Right: c.speedR}.Clamp(c.cfg.MaxSpeed)
	if _, err := c.transport.Write(sp.Encode()); err != nil {
		c.logger.Errorf("Failed to send setpoint %d %d: %v", sp.Left, sp.Right, err)
		writeErr := fmt.Errorf("%w: %w", ErrTransportWrite, err)
		if closeErr := c.shutdownLocked(); closeErr != nil {
			c.logger.Warnf("error closing transport after write failure: %v", closeErr)
		}
		return writeErr
	}
	c.logger.Infof("SPEED: %d %d", c.speedL, c.speedR)
	return nil
}

// Shutdown closes the transport and ends the session. Calling it again is a no-op.
func (c *DriveController) Shutdown() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shutdownLocked()
}

func (c *DriveController) shutdownLocked() error {
	if c.state == StateShutdown {
		return nil
	}
	c.state = StateShutdown
	c.logger.Info("Exiting...")
	c.closeErr = c.transport.Close()
	close(c.done)
	return c.closeErr
}

// Done is closed when the session reaches StateShutdown.
func (c *DriveController) Done() <-chan struct{} {
	return c.done
}

func (c *DriveController) State() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Speeds returns the current accumulated (speed_l, speed_r), before any clamping.
func (c *DriveController) Speeds() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speedL, c.speedR
}

// IsHeld reports whether the tracker considers code pressed.
func (c *DriveController) IsHeld(code KeyCode) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tracker.IsHeld(code)
}
