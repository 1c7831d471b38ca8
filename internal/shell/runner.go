package shell

import (
	"bytes"
	"errors"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// chunkSize is the fixed read size used when draining the output pipe.
const chunkSize = 1 << 20 // 1 MiB

// runner spawns one child process per command line and captures its
// entire stdout.
type runner struct {
	proc Processor
	log  zerolog.Logger

	// drain overrides the pipe drain; nil means the package drain.
	drain func(io.Reader, zerolog.Logger) ([]byte, error)
}

// run blocks until the child has exited and its output pipe is drained.
// It returns the accumulated stdout bytes, or nil when the command
// produced no output; producing no output is not an error. The child's
// exit code is logged but does not affect the result — only stdout bytes
// and I/O failures do.
func (r *runner) run(command string, args []string) ([]byte, error) {
	runID := uuid.New().String()
	line := commandLine(command, args)

	log := r.log.With().Str("run_id", runID).Logger()
	log.Debug().
		Str("processor", r.proc.Path).
		Str("command", line).
		Msg("Preparing command")

	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, &RunError{Command: line, Err: err}
	}

	cmd := exec.Command(r.proc.Path, r.proc.Argv(command, args)...)
	cmd.Stdout = pw
	// stderr and stdin stay at process defaults; only stdout is captured.

	start := time.Now()
	if err := cmd.Start(); err != nil {
		pw.Close()
		pr.Close()
		log.Error().Err(err).Msg("Command failed to launch")
		return nil, &RunError{Command: line, Err: err}
	}

	// The child holds its own copy of the write end. Close ours now so
	// the drain sees EOF once the child exits.
	pw.Close()

	log.Debug().Msg("Command running")

	drainPipe := drain
	if r.drain != nil {
		drainPipe = r.drain
	}

	// Drain concurrently with the exit wait. Waiting first and reading
	// after would deadlock as soon as the child writes more than the
	// kernel pipe buffer.
	var (
		output  []byte
		readErr error
		drained = make(chan struct{})
	)
	go func() {
		defer close(drained)
		defer pr.Close()
		output, readErr = drainPipe(pr, log)
	}()

	waitErr := cmd.Wait()
	<-drained

	if readErr != nil {
		log.Error().Err(readErr).Msg("Reading command output failed")
		return nil, &RunError{Command: line, Err: readErr}
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			// A non-zero exit is not an error by itself; only output
			// bytes determine the result.
			log.Debug().Int("exit_code", exitErr.ExitCode()).Msg("Command exited non-zero")
		} else {
			log.Error().Err(waitErr).Msg("Waiting for command failed")
			return nil, &RunError{Command: line, Err: waitErr}
		}
	}

	log.Debug().
		Int("bytes", len(output)).
		Dur("duration", time.Since(start)).
		Msg("Command done")

	if len(output) == 0 {
		return nil, nil
	}
	return output, nil
}

// drain reads r in fixed-size chunks until EOF, accumulating everything
// read. On a read error it returns the error; partial output is never
// returned as a result.
func drain(r io.Reader, log zerolog.Logger) ([]byte, error) {
	var buf bytes.Buffer
	chunk := make([]byte, chunkSize)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			log.Trace().Int("bytes", buf.Len()).Msg("Drained output chunk")
		}
		if err == io.EOF {
			return buf.Bytes(), nil
		}
		if err != nil {
			return nil, err
		}
	}
}
