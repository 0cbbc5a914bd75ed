package nimbus_remote

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.bug.st/serial"
	"go.viam.com/rdk/logging"
)

// Transport is the byte stream to the motor controller.
type Transport interface {
	Write(p []byte) (int, error)
	// ReadLine returns the next line sent by the motor controller without its line ending.
	ReadLine() (string, error)
	Close() error
}

// SerialConfig holds the settings the serial link is opened with.
type SerialConfig struct {
	Port     string
	Baudrate int
	Timeout  time.Duration
}

// OpenDevice opens the serial device. It's a variable so tests can substitute a fake device.
var OpenDevice = func(cfg SerialConfig) (io.ReadWriteCloser, error) {
	mode := &serial.Mode{
		BaudRate: cfg.Baudrate,
		Parity:   serial.NoParity,
		DataBits: 8,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(cfg.Port, mode)
	if err != nil {
		return nil, err
	}
	if cfg.Timeout > 0 {
		if err := port.SetReadTimeout(cfg.Timeout); err != nil {
			port.Close()
			return nil, errors.Wrap(err, "failed to set read timeout")
		}
	}
	return port, nil
}

// SerialTransport writes setpoints to a serial device.
type SerialTransport struct {
	mu     sync.Mutex
	cfg    SerialConfig
	dev    io.ReadWriteCloser
	reader *bufio.Reader
	closed bool
	logger logging.Logger
}

// OpenSerialTransport opens the device described by cfg.
func OpenSerialTransport(cfg SerialConfig, logger logging.Logger) (*SerialTransport, error) {
	dev, err := OpenDevice(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open serial port %s: %w", ErrTransportOpen, cfg.Port, err)
	}
	logger.Infof("Connected to motor controller on port %s at %d baud", cfg.Port, cfg.Baudrate)
	return &SerialTransport{
		cfg:    cfg,
		dev:    dev,
		reader: bufio.NewReader(dev),
		logger: logger,
	}, nil
}

// Write sends p in a single call. Short writes are reported as errors.
func (t *SerialTransport) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return 0, errTransportClosed
	}
	n, err := t.dev.Write(p)
	if err != nil {
		return n, errors.Wrapf(err, "failed to write to serial port %s", t.cfg.Port)
	}
	if n != len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

// ReadLine is not serialized with Write; the device is full duplex. Read timeouts
// without data are retried, so it only returns on a full line or a real error.
func (t *SerialTransport) ReadLine() (string, error) {
	var line strings.Builder
	for {
		chunk, err := t.reader.ReadString('\n')
		line.WriteString(chunk)
		switch {
		case err == nil:
			return strings.TrimRight(line.String(), "\r\n"), nil
		case errors.Is(err, io.ErrNoProgress):
			continue
		case errors.Is(err, io.EOF) && line.Len() > 0:
			return strings.TrimRight(line.String(), "\r\n"), nil
		default:
			return "", err
		}
	}
}

// Close closes the device once. Later calls return nil.
func (t *SerialTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	t.logger.Debugf("Closing serial port %s", t.cfg.Port)
	return t.dev.Close()
}
