package nimbus_remote

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.viam.com/rdk/logging"
)

type chanSource struct {
	ch     chan Event
	err    error
	closed bool
}

func (s *chanSource) Events(ctx context.Context) (<-chan Event, error) {
	return s.ch, s.err
}

func (s *chanSource) Close() error {
	s.closed = true
	return nil
}

func TestRunSessionScript(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	logger := logging.NewTestLogger(t)
	ctrl, ft := newTestController(t, defaultDrive)

	script := `
# drive forward, then turn
down Up
down Up
down Right
up Up
up Right
up Left
down Escape
down Up
`
	src := NewScriptSource(strings.NewReader(script), logger)
	require.NoError(t, RunSession(ctx, src, ctrl))

	assert.Equal(t, []string{
		"SPEED 255 255\n",
		"SPEED 471 39\n",
		"SPEED 216 -216\n",
		"SPEED 0 0\n",
	}, ft.writes)
	assert.Equal(t, StateShutdown, ctrl.State())
	assert.Equal(t, 1, ft.closeCount)
}

func TestRunSessionSourceEnds(t *testing.T) {
	ctrl, ft := newTestController(t, defaultDrive)
	src := &chanSource{ch: make(chan Event, 2)}
	src.ch <- Event{Type: KeyPressed, Code: KeyDown}
	close(src.ch)

	require.NoError(t, RunSession(context.Background(), src, ctrl))
	assert.Equal(t, []string{"SPEED -255 -255\n"}, ft.writes)
	assert.Equal(t, StateShutdown, ctrl.State())
}

func TestRunSessionDestroy(t *testing.T) {
	ctrl, ft := newTestController(t, defaultDrive)
	src := &chanSource{ch: make(chan Event, 3)}
	src.ch <- Event{Type: KeyPressed, Code: KeyLeft}
	src.ch <- Event{Type: Destroy}
	src.ch <- Event{Type: KeyReleased, Code: KeyLeft}

	require.NoError(t, RunSession(context.Background(), src, ctrl))
	assert.Equal(t, []string{"SPEED -216 216\n"}, ft.writes)
	assert.Equal(t, 1, ft.closeCount)
	assert.True(t, ctrl.IsHeld(KeyLeft))
}

func TestRunSessionInterrupt(t *testing.T) {
	ctrl, ft := newTestController(t, defaultDrive)
	src := &chanSource{ch: make(chan Event)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, RunSession(ctx, src, ctrl))
	assert.Equal(t, StateShutdown, ctrl.State())
	assert.Equal(t, 1, ft.closeCount)
	assert.Empty(t, ft.writes)
}

func TestRunSessionWriteFailure(t *testing.T) {
	ctrl, ft := newTestController(t, defaultDrive)
	ft.writeErr = errors.New("i/o error")
	src := &chanSource{ch: make(chan Event, 2)}
	src.ch <- Event{Type: KeyPressed, Code: KeyUp}
	src.ch <- Event{Type: KeyReleased, Code: KeyUp}

	err := RunSession(context.Background(), src, ctrl)
	assert.ErrorIs(t, err, ErrTransportWrite)
	assert.Equal(t, StateShutdown, ctrl.State())
	assert.Equal(t, 1, ft.closeCount)
}

func TestRunSessionSourceError(t *testing.T) {
	ctrl, ft := newTestController(t, defaultDrive)
	src := &chanSource{err: errors.New("no keyboard")}

	err := RunSession(context.Background(), src, ctrl)
	assert.EqualError(t, err, "no keyboard")
	assert.Equal(t, 1, ft.closeCount)
}

func TestParseScriptLine(t *testing.T) {
	tests := []struct {
		line    string
		want    Event
		ok      bool
		wantErr bool
	}{
		{"down Up", Event{Type: KeyPressed, Code: KeyUp}, true, false},
		{"  press Left ", Event{Type: KeyPressed, Code: KeyLeft}, true, false},
		{"UP Right", Event{Type: KeyReleased, Code: KeyRight}, true, false},
		{"release Down", Event{Type: KeyReleased, Code: KeyDown}, true, false},
		{"destroy", Event{Type: Destroy}, true, false},
		{"quit", Event{Type: Destroy}, true, false},
		{"", Event{}, false, false},
		{"# comment", Event{}, false, false},
		{"down", Event{}, false, true},
		{"up a b", Event{}, false, true},
		{"jump Up", Event{}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			ev, ok, err := parseScriptLine(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, ev)
		})
	}
}

func TestEchoReplies(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	ft := &fakeTransport{lines: make(chan string, 3)}
	ctrl, err := NewDriveController(ft, defaultDrive, logger)
	require.NoError(t, err)

	ft.lines <- "SPEED 1 2"
	ft.lines <- ""
	ft.lines <- "LOW BAT!"
	close(ft.lines)

	EchoReplies(context.Background(), ft, ctrl)
	assert.Len(t, logs.FilterMessage("motor controller: LOW BAT!").All(), 1)
	assert.Len(t, logs.FilterMessage("motor controller echoed setpoint 1 2").All(), 1)
}
