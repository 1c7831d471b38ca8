package shell

import (
	"errors"
	"fmt"
)

// ErrNoResult reports a work item that finished without recording an
// outcome. The worker resolves every item exactly once, so seeing this
// error indicates a bug in the queue itself; it is surfaced rather than
// leaving the caller suspended forever.
var ErrNoResult = errors.New("command finished without recording a result")

// RunError wraps an I/O failure from launching the child process or
// reading its output pipe.
type RunError struct {
	Command string // the joined command line
	Err     error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("running %q: %v", e.Command, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// DecodeError reports output bytes that are not valid text in the
// requested encoding.
type DecodeError struct {
	Encoding string // e.g. "utf-8"
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decoding output as %s: %v", e.Encoding, e.Err)
	}
	return fmt.Sprintf("output is not valid %s", e.Encoding)
}

func (e *DecodeError) Unwrap() error { return e.Err }
