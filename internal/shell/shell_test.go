package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/charmap"
)

func newTestShell(t *testing.T, opts Options) *Shell {
	t.Helper()
	quiet := zerolog.New(io.Discard)
	opts.Logger = &quiet
	sh := New(opts)
	t.Cleanup(sh.Close)
	return sh
}

func TestNew_DefaultLoggerEmitsRunLogs(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = orig })

	sh := New(Options{})
	t.Cleanup(sh.Close)

	if _, err := sh.Run(context.Background(), "echo", "-n", "hi"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "run_id") {
		t.Errorf("no run logs reached the package logger:\n%s", out)
	}
	if !strings.Contains(out, `"component":"shell"`) {
		t.Errorf("missing component field in run logs:\n%s", out)
	}
}

func TestRunString(t *testing.T) {
	sh := newTestShell(t, Options{})
	out, err := sh.RunString(context.Background(), "echo", "-n", "hello world")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "hello world" {
		t.Errorf("output = %q, want %q", out, "hello world")
	}
}

func TestRunString_InvalidUTF8(t *testing.T) {
	sh := newTestShell(t, Options{})
	_, err := sh.RunString(context.Background(), "printf", `'\377\376'`)
	if err == nil {
		t.Fatal("expected decode error for invalid UTF-8")
	}
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("error = %T, want *DecodeError", err)
	}
	if decErr.Encoding != "utf-8" {
		t.Errorf("DecodeError.Encoding = %q, want %q", decErr.Encoding, "utf-8")
	}
}

func TestRunString_AlternateEncoding(t *testing.T) {
	sh := newTestShell(t, Options{Encoding: charmap.ISO8859_1})
	out, err := sh.RunString(context.Background(), "printf", `'\377'`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "ÿ" {
		t.Errorf("output = %q, want %q", out, "ÿ")
	}
}

func TestRunLines(t *testing.T) {
	sh := newTestShell(t, Options{})

	lines, err := sh.RunLines(context.Background(), "printf", `'a\nb\nc'`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"a", "b", "c"}
	if len(lines) != len(want) {
		t.Fatalf("lines = %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("lines[%d] = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestRunLines_TrailingNewlineDropped(t *testing.T) {
	sh := newTestShell(t, Options{})

	lines, err := sh.RunLines(context.Background(), "printf", `'a\nb\n'`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 2 || lines[0] != "a" || lines[1] != "b" {
		t.Errorf("lines = %v, want [a b]", lines)
	}
}

func TestRunLines_NoOutput(t *testing.T) {
	sh := newTestShell(t, Options{})
	lines, err := sh.RunLines(context.Background(), "true")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lines != nil {
		t.Errorf("lines = %v, want nil", lines)
	}
}

func TestRun_ArgumentsAreShellInterpreted(t *testing.T) {
	// Arguments are joined into one command line and handed to the
	// processor, so redirections and operators work by design.
	sh := newTestShell(t, Options{})
	path := filepath.Join(t.TempDir(), "out.txt")

	_, err := sh.Run(context.Background(), "echo", "redirected", ">", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if strings.TrimSpace(string(data)) != "redirected" {
		t.Errorf("file contents = %q, want %q", data, "redirected")
	}
}

func TestShell_SerializesSideEffects(t *testing.T) {
	// Each command appends a start marker, sleeps, then appends an end
	// marker. If two child processes ever overlapped, the markers would
	// interleave.
	sh := newTestShell(t, Options{})
	path := filepath.Join(t.TempDir(), "trace.txt")

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			line := fmt.Sprintf("echo start >> %s; sleep 0.05; echo end >> %s", path, path)
			if _, err := sh.Run(context.Background(), line); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	got := splitLines(string(data))
	if len(got) != 6 {
		t.Fatalf("trace has %d lines, want 6: %v", len(got), got)
	}
	for i, line := range got {
		want := "start"
		if i%2 == 1 {
			want = "end"
		}
		if line != want {
			t.Fatalf("trace[%d] = %q, want %q (overlapping executions): %v", i, line, want, got)
		}
	}
}
