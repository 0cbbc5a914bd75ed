//go:build !linux

package nimbus_remote

import (
	"context"

	"github.com/pkg/errors"
	"go.viam.com/rdk/logging"
)

// EvdevSource is only available on Linux.
type EvdevSource struct{}

func OpenEvdevSource(path string, grab bool, logger logging.Logger) (*EvdevSource, error) {
	return nil, errors.Errorf("cannot read %s: evdev keyboards are only supported on linux", path)
}

func (s *EvdevSource) Events(ctx context.Context) (<-chan Event, error) {
	return nil, errUnimplemented
}

func (s *EvdevSource) Close() error {
	return nil
}

func ListKeyboards() []string {
	return nil
}
