package nimbus_remote

import "github.com/pkg/errors"

var (
	// ErrTransportOpen is returned when the serial device cannot be opened.
	ErrTransportOpen = errors.New("transport open failure")
	// ErrTransportWrite is returned when a setpoint could not be written. The
	// session is shut down before it is returned.
	ErrTransportWrite = errors.New("transport write failure")
	// ErrInvalidArgument marks bad configuration or command line input.
	ErrInvalidArgument = errors.New("invalid argument")

	errTransportClosed = errors.New("transport is closed")
	errUnimplemented   = errors.New("unimplemented")
)
