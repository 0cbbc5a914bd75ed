package nimbus_remote

import (
	"context"
	"fmt"
)

// EventType is the kind of an input event.
type EventType uint8

const (
	KeyPressed EventType = iota + 1
	KeyReleased
	// Destroy means the input surface went away; it ends the session.
	Destroy
)

func (t EventType) String() string {
	switch t {
	case KeyPressed:
		return "down"
	case KeyReleased:
		return "up"
	case Destroy:
		return "destroy"
	default:
		return fmt.Sprintf("EventType(%d)", uint8(t))
	}
}

// Event is a single input event. Code is empty for Destroy.
type Event struct {
	Type EventType
	Code KeyCode
}

// InputSource delivers key events. The channel is closed when the source has no more
// events, which the session treats like Destroy.
type InputSource interface {
	Events(ctx context.Context) (<-chan Event, error)
	Close() error
}

// RunSession feeds events from src into ctrl until the session shuts down.
// Cancelling ctx (process interrupt) is treated as a quit. A failed setpoint write
// is returned after the controller has shut down.
func RunSession(ctx context.Context, src InputSource, ctrl *DriveController) error {
	events, err := src.Events(ctx)
	if err != nil {
		if shutdownErr := ctrl.Shutdown(); shutdownErr != nil {
			ctrl.logger.Warnf("error closing transport: %v", shutdownErr)
		}
		return err
	}

	for {
		select {
		case <-ctx.Done():
			ctrl.logger.Debug("session interrupted")
			return ctrl.Shutdown()
		case <-ctrl.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				ctrl.logger.Debug("input source closed")
				return ctrl.Shutdown()
			}
			if err := dispatch(ctrl, ev); err != nil {
				return err
			}
		}
	}
}

func dispatch(ctrl *DriveController, ev Event) error {
	switch ev.Type {
	case KeyPressed:
		return ctrl.HandlePress(ev.Code)
	case KeyReleased:
		return ctrl.HandleRelease(ev.Code)
	case Destroy:
		return ctrl.Shutdown()
	default:
		ctrl.logger.Debugf("ignoring unknown event type %v", ev.Type)
		return nil
	}
}

// EchoReplies logs every line the motor controller sends until reading fails
// or ctx is done. It is a diagnostic aid and takes no part in the control loop.
func EchoReplies(ctx context.Context, t Transport, ctrl *DriveController) {
	for {
		line, err := t.ReadLine()
		select {
		case <-ctx.Done():
			return
		case <-ctrl.Done():
			return
		default:
		}
		if err != nil {
			ctrl.logger.Debugf("stopped reading replies: %v", err)
			return
		}
		if line == "" {
			continue
		}
		if sp, err := ParseSetpoint(line); err == nil {
			ctrl.logger.Debugf("motor controller echoed setpoint %d %d", sp.Left, sp.Right)
			continue
		}
		ctrl.logger.Infof("motor controller: %s", line)
	}
}
