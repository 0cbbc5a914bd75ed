//go:build linux

package nimbus_remote

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/viamrobotics/evdev"
	"go.viam.com/rdk/logging"
)

var evdevKeys = map[evdev.KeyType]KeyCode{
	evdev.KeyUp:     KeyUp,
	evdev.KeyDown:   KeyDown,
	evdev.KeyLeft:   KeyLeft,
	evdev.KeyRight:  KeyRight,
	evdev.KeyEscape: KeyEscape,
}

// EvdevSource reads key events from a Linux input device such as /dev/input/event3.
type EvdevSource struct {
	dev    *evdev.Evdev
	path   string
	grab   bool
	logger logging.Logger
}

// OpenEvdevSource opens the keyboard at path. With grab set, the device is locked so
// key presses do not also reach other applications.
func OpenEvdevSource(path string, grab bool, logger logging.Logger) (*EvdevSource, error) {
	dev, err := evdev.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open input device %s", path)
	}
	if grab {
		if err := dev.Lock(); err != nil {
			dev.Close()
			return nil, errors.Wrapf(err, "failed to grab input device %s", path)
		}
	}
	logger.Infof("Reading keys from %s (%s)", path, strings.TrimSpace(dev.Name()))
	return &EvdevSource{dev: dev, path: path, grab: grab, logger: logger}, nil
}

func (s *EvdevSource) Events(ctx context.Context) (<-chan Event, error) {
	out := make(chan Event)
	in := s.dev.Poll(ctx)
	go func() {
		defer close(out)
		for {
			var env *evdev.EventEnvelope
			select {
			case <-ctx.Done():
				return
			case e, ok := <-in:
				if !ok || e == nil {
					s.logger.Warnf("input device %s disconnected", s.path)
					return
				}
				env = e
			}
			ev, ok := translateEvdev(env)
			if !ok {
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// translateEvdev keeps key presses and releases. Autorepeat (value 2) is dropped; the
// controller would ignore it as a duplicate press anyway.
func translateEvdev(env *evdev.EventEnvelope) (Event, bool) {
	if env.Event.Type != evdev.EventKey {
		return Event{}, false
	}
	code := evdevKeyCode(evdev.KeyType(env.Event.Code))
	switch env.Event.Value {
	case 0:
		return Event{Type: KeyReleased, Code: code}, true
	case 1:
		return Event{Type: KeyPressed, Code: code}, true
	default:
		return Event{}, false
	}
}

func evdevKeyCode(k evdev.KeyType) KeyCode {
	if code, ok := evdevKeys[k]; ok {
		return code
	}
	return KeyCode(fmt.Sprintf("KEY_%d", int(k)))
}

func (s *EvdevSource) Close() error {
	if s.grab {
		if err := s.dev.Unlock(); err != nil {
			s.logger.Debugf("failed to release grab on %s: %v", s.path, err)
		}
	}
	return s.dev.Close()
}

// ListKeyboards returns the input event devices present on the system.
func ListKeyboards() []string {
	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		return nil
	}
	return paths
}
