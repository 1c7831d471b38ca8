package shell

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/deixis/cellar/internal/logging"
)

// Shell runs command lines through a strictly ordered queue. All commands
// submitted to one Shell execute start-to-finish in submission order; no
// two of its child processes ever run concurrently.
type Shell struct {
	proc  Processor
	enc   encoding.Encoding
	queue *Queue
	log   zerolog.Logger
}

// Options configures a Shell.
type Options struct {
	Processor Processor         // zero value means DefaultProcessor
	Encoding  encoding.Encoding // text encoding for RunString/RunLines; nil means UTF-8
	Logger    *zerolog.Logger   // nil falls back to the package logger
}

// New creates a Shell and starts its worker. The worker lives until Close
// is called; a Shell is normally kept for the lifetime of the process.
func New(opts Options) *Shell {
	proc := opts.Processor
	if proc.Path == "" {
		proc = DefaultProcessor
	}

	enc := opts.Encoding
	if enc == nil {
		enc = unicode.UTF8
	}

	log := logging.GetLogger("shell")
	if opts.Logger != nil {
		log = *opts.Logger
	}

	s := &Shell{proc: proc, enc: enc, log: log}
	r := &runner{proc: proc, log: log}
	s.queue = NewQueue(r.run)
	return s
}

// Run executes a command line and returns its raw stdout bytes. A nil
// slice means the command produced no output, which is a valid success.
func (s *Shell) Run(ctx context.Context, command string, args ...string) ([]byte, error) {
	return s.queue.Enqueue(ctx, command, args...)
}

// RunString executes a command line and decodes its stdout with the
// configured encoding. No output decodes to the empty string.
func (s *Shell) RunString(ctx context.Context, command string, args ...string) (string, error) {
	raw, err := s.Run(ctx, command, args...)
	if err != nil {
		return "", err
	}
	return s.decode(raw)
}

// RunLines executes a command line and splits its decoded stdout on
// newlines, dropping the trailing empty segment. No output yields nil.
func (s *Shell) RunLines(ctx context.Context, command string, args ...string) ([]string, error) {
	out, err := s.RunString(ctx, command, args...)
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return splitLines(out), nil
}

// Close stops the worker once all queued commands have finished.
func (s *Shell) Close() {
	s.queue.Close()
}

func (s *Shell) decode(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	if s.enc == unicode.UTF8 {
		if !utf8.Valid(raw) {
			return "", &DecodeError{Encoding: "utf-8"}
		}
		return string(raw), nil
	}
	out, err := s.enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", &DecodeError{Encoding: encodingName(s.enc), Err: err}
	}
	return string(out), nil
}

// encodingName returns the canonical name of an encoding for diagnostics.
func encodingName(enc encoding.Encoding) string {
	name, err := htmlindex.Name(enc)
	if err != nil {
		return "unknown"
	}
	return name
}

func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
