// Package main drives a Nimbus vehicle from the keyboard over a serial link.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"go.uber.org/multierr"
	"go.viam.com/rdk/logging"
	"go.viam.com/utils"

	nimbus "nimbus_remote"
)

var (
	logger           = logging.NewLogger("nimbus-remote")
	stdin  io.Reader = os.Stdin
)

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	Device     string `flag:"0,usage=serial device, e.g. /dev/ttyUSB0"`
	Baud       string `flag:"1,usage=baud rate (default 9600)"`
	Config     string `flag:"config,usage=JSON config file; command line values take precedence"`
	SaveConfig string `flag:"save-config,usage=write the merged config to this file and exit"`
	Speed      int    `flag:"speed,usage=setpoint added per forward/backward key"`
	Turn       string `flag:"turn,usage=fraction of speed applied per turn key (default 0.85)"`
	MaxSpeed   int    `flag:"max-speed,usage=clamp transmitted setpoints to this magnitude"`
	Keyboard   string `flag:"keyboard,usage=evdev keyboard device; events are read from stdin when empty"`
	Grab       bool   `flag:"grab,usage=grab the keyboard so keys do not reach other programs"`
	Echo       bool   `flag:"echo,usage=log lines sent back by the motor controller"`
	List       bool   `flag:"list,usage=list candidate serial ports and keyboards"`
	Debug      bool   `flag:"debug,usage=enable debug logging"`
}

func usage(prog string) string {
	return fmt.Sprintf("usage: %s <tty> [baud=%d]", prog, nimbus.DefaultBaudrate)
}

func mainWithArgs(ctx context.Context, args []string, logger logging.Logger) (err error) {
	prog := "nimbus-remote"
	if len(args) > 0 {
		prog = args[0]
	}

	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return fmt.Errorf("%w: %w\n%s", nimbus.ErrInvalidArgument, err, usage(prog))
	}
	if argsParsed.Debug {
		logger.SetLevel(logging.DEBUG)
	}
	if argsParsed.List {
		listDevices(logger)
		return nil
	}

	cfg, err := buildConfig(argsParsed)
	if err != nil {
		return fmt.Errorf("%w\n%s", err, usage(prog))
	}
	if _, _, err := cfg.Validate(""); err != nil {
		return fmt.Errorf("%w\n%s", err, usage(prog))
	}
	if argsParsed.SaveConfig != "" {
		if err := nimbus.SaveConfigFile(argsParsed.SaveConfig, cfg); err != nil {
			return err
		}
		logger.Infof("Wrote config to %s", argsParsed.SaveConfig)
		return nil
	}

	transport, err := nimbus.OpenSerialTransport(cfg.Serial(), logger)
	if err != nil {
		return err
	}
	ctrl, err := nimbus.NewDriveController(transport, cfg.Drive(), logger)
	if err != nil {
		return multierr.Combine(err, transport.Close())
	}

	// stops the input and echo goroutines once the session ends
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	src, err := openInput(cfg, logger)
	if err != nil {
		return multierr.Combine(err, ctrl.Shutdown())
	}
	defer func() {
		err = multierr.Combine(err, src.Close())
	}()

	if cfg.EchoReplies {
		go nimbus.EchoReplies(ctx, transport, ctrl)
	}

	logger.Infof("Driving with speed=%d turn=%.2f; arrow keys steer, Escape quits", cfg.Speed, cfg.Turn)
	return nimbus.RunSession(ctx, src, ctrl)
}

// buildConfig merges the optional config file with the command line.
func buildConfig(args Arguments) (*nimbus.Config, error) {
	cfg := &nimbus.Config{}
	if args.Config != "" {
		loaded, err := nimbus.LoadConfigFile(args.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if args.Device != "" {
		cfg.Port = args.Device
	}
	if args.Baud != "" {
		baud, err := strconv.Atoi(args.Baud)
		if err != nil || baud <= 0 {
			return nil, fmt.Errorf("%w: malformed baud rate %q", nimbus.ErrInvalidArgument, args.Baud)
		}
		cfg.Baudrate = baud
	}
	if args.Speed != 0 {
		cfg.Speed = args.Speed
	}
	if args.Turn != "" {
		turn, err := strconv.ParseFloat(args.Turn, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed turn %q", nimbus.ErrInvalidArgument, args.Turn)
		}
		cfg.Turn = turn
	}
	if args.MaxSpeed != 0 {
		cfg.MaxSpeed = args.MaxSpeed
	}
	if args.Keyboard != "" {
		cfg.Keyboard = args.Keyboard
	}
	cfg.GrabKeyboard = cfg.GrabKeyboard || args.Grab
	cfg.EchoReplies = cfg.EchoReplies || args.Echo
	return cfg, nil
}

func openInput(cfg *nimbus.Config, logger logging.Logger) (nimbus.InputSource, error) {
	if cfg.Keyboard != "" {
		return nimbus.OpenEvdevSource(cfg.Keyboard, cfg.GrabKeyboard, logger)
	}
	logger.Info("No keyboard device given, reading events from stdin (e.g. \"down Up\", \"up Up\", \"destroy\")")
	return nimbus.NewScriptSource(stdin, logger), nil
}

func listDevices(logger logging.Logger) {
	ports := nimbus.CandidatePorts()
	if len(ports) == 0 {
		logger.Info("No USB serial ports found")
	}
	for _, port := range ports {
		logger.Infof("serial port: %s", port)
	}
	for _, kbd := range nimbus.ListKeyboards() {
		logger.Infof("input device: %s", kbd)
	}
}
