package nimbus_remote

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

const (
	DefaultBaudrate = 9600
	DefaultTimeout  = 5 * time.Second
	DefaultSpeed    = 255
	DefaultTurn     = 0.85
)

// Config describes a teleoperation session.
type Config struct {
	// Serial communication settings
	Port     string        `json:"port"`
	Baudrate int           `json:"baudrate,omitempty"`
	Timeout  time.Duration `json:"timeout,omitempty"`

	// Drive parameters
	Speed    int     `json:"speed,omitempty"`
	Turn     float64 `json:"turn,omitempty"`
	MaxSpeed int     `json:"max_speed,omitempty"` // clamp on transmitted setpoints, 0 disables

	// Input settings
	Keyboard     string `json:"keyboard,omitempty"` // evdev device, e.g. /dev/input/event3
	GrabKeyboard bool   `json:"grab_keyboard,omitempty"`

	// Log lines sent back by the motor controller
	EchoReplies bool `json:"echo_replies,omitempty"`
}

// Validate fills defaults and rejects values the controller cannot use.
func (cfg *Config) Validate(path string) ([]string, []string, error) {
	if cfg.Port == "" {
		return nil, nil, fmt.Errorf("%w: must specify port for serial communication", ErrInvalidArgument)
	}

	if cfg.Baudrate == 0 {
		cfg.Baudrate = DefaultBaudrate
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Speed == 0 {
		cfg.Speed = DefaultSpeed
	}
	if cfg.Turn == 0 {
		cfg.Turn = DefaultTurn
	}

	if err := cfg.Drive().validate(); err != nil {
		return nil, nil, err
	}
	if cfg.Baudrate < 0 {
		return nil, nil, fmt.Errorf("%w: baudrate must be positive, got %d", ErrInvalidArgument, cfg.Baudrate)
	}
	if cfg.Timeout < 0 {
		return nil, nil, fmt.Errorf("%w: timeout must not be negative, got %s", ErrInvalidArgument, cfg.Timeout)
	}

	return nil, nil, nil
}

// Drive returns the controller parameters of the config.
func (cfg *Config) Drive() DriveConfig {
	return DriveConfig{Speed: cfg.Speed, Turn: cfg.Turn, MaxSpeed: cfg.MaxSpeed}
}

// Serial returns the transport parameters of the config.
func (cfg *Config) Serial() SerialConfig {
	return SerialConfig{Port: cfg.Port, Baudrate: cfg.Baudrate, Timeout: cfg.Timeout}
}

// DriveConfig holds the fixed parameters of a DriveController.
type DriveConfig struct {
	Speed    int
	Turn     float64
	MaxSpeed int
}

func (dc DriveConfig) validate() error {
	if dc.Speed <= 0 {
		return fmt.Errorf("%w: speed must be positive, got %d", ErrInvalidArgument, dc.Speed)
	}
	if !(dc.Turn > 0 && dc.Turn <= 1) {
		return fmt.Errorf("%w: turn must be in (0, 1], got %v", ErrInvalidArgument, dc.Turn)
	}
	if dc.MaxSpeed < 0 {
		return fmt.Errorf("%w: max_speed must not be negative, got %d", ErrInvalidArgument, dc.MaxSpeed)
	}
	return nil
}

// LoadConfigFile reads a JSON config. Defaults are not applied until Validate.
func LoadConfigFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config JSON: %w", ErrInvalidArgument, err)
	}
	return &cfg, nil
}

// SaveConfigFile writes cfg as indented JSON.
func SaveConfigFile(filePath string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
