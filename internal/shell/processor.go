// Package shell provides serialized execution of shell command lines.
//
// A Shell owns a single background worker that runs at most one child
// process at a time, in strict submission order. Each run captures the
// child's entire stdout by draining the pipe concurrently with the exit
// wait, so commands that write more than the kernel pipe buffer cannot
// deadlock the parent.
package shell

import "strings"

// Processor describes the interpreter that executes every submitted
// command line: an executable path and the flag that tells it the next
// argument is a command string to run.
type Processor struct {
	Path     string // e.g. /bin/bash
	ExecFlag string // e.g. -c; empty means arguments are passed unwrapped
}

// DefaultProcessor runs command lines through bash.
var DefaultProcessor = Processor{Path: "/bin/bash", ExecFlag: "-c"}

// Argv builds the child argv for a command and its arguments. The command
// and arguments are joined with single spaces into one string, so the
// processor's shell performs word splitting and expansion; callers are
// responsible for quoting arguments that contain shell-special characters.
func (p Processor) Argv(command string, args []string) []string {
	line := commandLine(command, args)
	if p.ExecFlag == "" {
		return []string{line}
	}
	return []string{p.ExecFlag, line}
}

// commandLine joins a command and its arguments into a single shell line.
func commandLine(command string, args []string) string {
	if len(args) == 0 {
		return command
	}
	return command + " " + strings.Join(args, " ")
}
