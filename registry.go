package nimbus_remote

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go.viam.com/rdk/logging"
)

// sharedTransports lets every resource in a module process talk over the same link per port.
var sharedTransports = NewTransportRegistry()

type transportEntry struct {
	transport *SerialTransport
	config    SerialConfig
	refCount  int64 // Atomic reference counter
	mu        sync.Mutex
}

// TransportRegistry hands out reference counted serial transports keyed by port path.
type TransportRegistry struct {
	entries map[string]*transportEntry // port path -> entry
	mu      sync.Mutex
}

func NewTransportRegistry() *TransportRegistry {
	return &TransportRegistry{
		entries: make(map[string]*transportEntry),
	}
}

// Acquire returns a handle on the transport for cfg.Port, opening it on first use.
// Closing the handle releases the reference; the port closes with the last one.
func (r *TransportRegistry) Acquire(cfg SerialConfig, logger logging.Logger) (Transport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, exists := r.entries[cfg.Port]; exists {
		entry.mu.Lock()
		defer entry.mu.Unlock()

		if !serialConfigsEqual(entry.config, cfg) {
			currentRefCount := atomic.LoadInt64(&entry.refCount)
			return nil, fmt.Errorf("conflict: port %s is already open with different settings (refCount: %d)",
				cfg.Port, currentRefCount)
		}
		atomic.AddInt64(&entry.refCount, 1)
		return &sharedTransport{Transport: entry.transport, registry: r, port: cfg.Port}, nil
	}

	transport, err := OpenSerialTransport(cfg, logger)
	if err != nil {
		return nil, err
	}
	r.entries[cfg.Port] = &transportEntry{
		transport: transport,
		config:    cfg,
		refCount:  1,
	}
	logger.Debugf("Opened shared transport for port %s", cfg.Port)
	return &sharedTransport{Transport: transport, registry: r, port: cfg.Port}, nil
}

// Release drops one reference on port and closes the transport when none remain.
func (r *TransportRegistry) Release(port string) error {
	r.mu.Lock()
	entry, exists := r.entries[port]
	if !exists {
		r.mu.Unlock()
		return nil
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	currentRefCount := atomic.AddInt64(&entry.refCount, -1)
	if currentRefCount > 0 {
		r.mu.Unlock()
		return nil
	}
	delete(r.entries, port)
	r.mu.Unlock()

	return entry.transport.Close()
}

// Status reports the reference count, whether the port is open, and a summary of its settings.
func (r *TransportRegistry) Status(port string) (int64, bool, string) {
	r.mu.Lock()
	entry, exists := r.entries[port]
	r.mu.Unlock()

	if !exists {
		return 0, false, ""
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	return atomic.LoadInt64(&entry.refCount), true,
		fmt.Sprintf("Serial: %s@%d", entry.config.Port, entry.config.Baudrate)
}

func serialConfigsEqual(a, b SerialConfig) bool {
	return a.Port == b.Port &&
		a.Baudrate == b.Baudrate &&
		a.Timeout == b.Timeout
}

// sharedTransport is one reference on a registry entry.
type sharedTransport struct {
	Transport
	registry *TransportRegistry
	port     string
	once     sync.Once
}

func (s *sharedTransport) Close() error {
	var err error
	s.once.Do(func() {
		err = s.registry.Release(s.port)
	})
	return err
}
