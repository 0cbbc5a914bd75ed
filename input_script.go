package nimbus_remote

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/pkg/errors"
	"go.viam.com/rdk/logging"
)

// ScriptSource reads events as text, one per line:
//
//	down Up
//	up Up
//	destroy
//
// Blank lines and lines starting with '#' are skipped. It is used for headless
// sessions on stdin and for replaying recorded key sequences.
type ScriptSource struct {
	r      io.Reader
	closer io.Closer
	logger logging.Logger
}

// NewScriptSource reads from r. If r is also an io.Closer it is closed by Close.
func NewScriptSource(r io.Reader, logger logging.Logger) *ScriptSource {
	src := &ScriptSource{r: r, logger: logger}
	if c, ok := r.(io.Closer); ok {
		src.closer = c
	}
	return src
}

func (s *ScriptSource) Events(ctx context.Context) (<-chan Event, error) {
	out := make(chan Event)
	go func() {
		defer close(out)
		scanner := bufio.NewScanner(s.r)
		lineNo := 0
		for scanner.Scan() {
			lineNo++
			ev, ok, err := parseScriptLine(scanner.Text())
			if err != nil {
				s.logger.Warnf("line %d: %v", lineNo, err)
				continue
			}
			if !ok {
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			s.logger.Warnf("error reading input script: %v", err)
		}
	}()
	return out, nil
}

func (s *ScriptSource) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

func parseScriptLine(line string) (Event, bool, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Event{}, false, nil
	}
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case "down", "press":
		if len(fields) != 2 {
			return Event{}, false, errors.Errorf("expected key after %q", fields[0])
		}
		return Event{Type: KeyPressed, Code: KeyCode(fields[1])}, true, nil
	case "up", "release":
		if len(fields) != 2 {
			return Event{}, false, errors.Errorf("expected key after %q", fields[0])
		}
		return Event{Type: KeyReleased, Code: KeyCode(fields[1])}, true, nil
	case "destroy", "quit":
		return Event{Type: Destroy}, true, nil
	default:
		return Event{}, false, errors.Errorf("unknown event %q", fields[0])
	}
}
