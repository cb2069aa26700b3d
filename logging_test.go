package reactor

import (
	"errors"
	"testing"

	"github.com/joeycumines/logiface"
	"github.com/stretchr/testify/require"
)

// captureEvent is the minimal Event implementation required to construct a
// Logger: it carries only the level.
type captureEvent struct {
	logiface.UnimplementedEvent
	level logiface.Level
}

func (e *captureEvent) Level() logiface.Level {
	if e == nil {
		return logiface.LevelDisabled
	}
	return e.level
}

func (e *captureEvent) AddField(string, any) {}

// captureLogger builds a logger recording the level of every event it
// writes.
func captureLogger(levels *[]logiface.Level) *Logger {
	return logiface.New[logiface.Event](
		logiface.WithLevel[logiface.Event](logiface.LevelTrace),
		logiface.WithEventFactory[logiface.Event](logiface.NewEventFactoryFunc(func(level logiface.Level) logiface.Event {
			return &captureEvent{level: level}
		})),
		logiface.WithWriter[logiface.Event](logiface.NewWriterFunc(func(event logiface.Event) error {
			*levels = append(*levels, event.Level())
			return nil
		})),
	)
}

// TestWithLogger_PanicDiagnostic verifies a recovered callback panic is
// reported through the loop's logger at error level.
func TestWithLogger_PanicDiagnostic(t *testing.T) {
	var levels []logiface.Level
	l := New(WithLogger(captureLogger(&levels)))
	defer l.Destroy()

	p := l.NewPrepare(func() { panic("boom") })
	p.Start()

	l.Ref()
	defer l.Unref()
	require.NoError(t, l.RunOnce())

	require.Contains(t, levels, logiface.LevelError)
}

// TestSetLogger verifies loops created without WithLogger pick up the
// package logger.
func TestSetLogger(t *testing.T) {
	var levels []logiface.Level
	SetLogger(captureLogger(&levels))
	defer SetLogger(nil)

	l := New()
	defer l.Destroy()

	// Construction emits a debug event through the package logger.
	require.Contains(t, levels, logiface.LevelDebug)
}

// TestReportFatal_ExitHook verifies the default escalation path logs at
// emergency level and terminates through the overridable exit hook.
func TestReportFatal_ExitHook(t *testing.T) {
	var levels []logiface.Level
	logger := captureLogger(&levels)

	type exit struct{ code int }
	restore := logiface.OsExit
	logiface.OsExit = func(code int) { panic(exit{code}) }
	defer func() { logiface.OsExit = restore }()

	l := New(WithLogger(logger))
	defer l.Destroy()

	wantErr := errors.New("substrate gone")
	func() {
		defer func() {
			r := recover()
			require.Equal(t, exit{1}, r)
		}()
		l.fatal(`probe`, wantErr)
		t.Fatal("fatal returned")
	}()

	require.Contains(t, levels, logiface.LevelEmergency)
	require.ErrorIs(t, l.LastError(), wantErr)
}
