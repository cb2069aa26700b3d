package reactor

import (
	"errors"
	"syscall"

	"github.com/joeycumines/logiface"
)

// FatalReporter handles the unrecoverable tier of substrate failures:
// completion port creation failure, loop allocation failure, and any
// completion dequeue failure other than a plain wait timeout.
//
// The reporter receives the name of the failing operation and the
// underlying error, and MUST NOT return control to the loop: the reactor
// cannot make forward progress without its substrate. The default reporter
// emits a structured diagnostic then terminates the process. Replacements
// (see [WithFatalReporter]) must likewise panic or exit.
type FatalReporter func(op string, err error)

// fatal escalates an unrecoverable substrate failure through the loop's
// reporter. It does not return in well-formed configurations.
func (l *Loop) fatal(op string, err error) {
	l.setLastError(err)
	if l.fatalReporter != nil {
		l.fatalReporter(op, err)
		return
	}
	reportFatal(l.logger, op, err)
}

// reportFatal is the default escalation path: log the failing operation
// name and OS error code, then exit. logiface.OsExit is the exit hook.
func reportFatal(logger *Logger, op string, err error) {
	b := logger.Emerg().
		Str(`op`, op).
		Err(err)
	var errno syscall.Errno
	if errors.As(err, &errno) {
		b = b.Int(`code`, int(errno))
	}
	b.Log(`reactor: unrecoverable completion substrate failure`)
	logiface.OsExit(1)
}
