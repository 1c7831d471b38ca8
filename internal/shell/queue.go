package shell

import (
	"context"
	"sync"
)

// RunFunc executes one command and returns its output bytes.
type RunFunc func(command string, args []string) ([]byte, error)

// Queue executes submitted commands strictly one at a time, in submission
// order, on a single background worker goroutine. Serialization is
// structural — every command passes through one FIFO channel consumed by
// one worker — so no lock guards the external state the commands mutate.
type Queue struct {
	work chan *work
	run  RunFunc
}

// work is one queued command together with its eventual result. It is
// resolved exactly once; the one-shot done channel bridges the worker's
// completion back to the suspended caller.
type work struct {
	command string
	args    []string

	once sync.Once
	res  result
	done chan struct{}
}

type result struct {
	output   []byte
	err      error
	recorded bool
}

func newWork(command string, args []string) *work {
	return &work{command: command, args: args, done: make(chan struct{})}
}

// resolve records the outcome and releases the waiting caller. Calling it
// more than once is a no-op.
func (w *work) resolve(output []byte, err error) {
	w.once.Do(func() {
		w.res = result{output: output, err: err, recorded: true}
		close(w.done)
	})
}

// NewQueue starts the queue's worker goroutine. The worker lives until
// Close is called; in normal use a queue lives for the lifetime of its
// owning Shell.
func NewQueue(run RunFunc) *Queue {
	q := &Queue{work: make(chan *work), run: run}
	go q.loop()
	return q
}

func (q *Queue) loop() {
	for w := range q.work {
		out, err := q.run(w.command, w.args)
		w.resolve(out, err)
	}
}

// Enqueue submits a command and suspends the calling goroutine until the
// worker has executed it. Commands execute in the order their Enqueue
// calls were admitted; at most one child process runs at a time.
//
// Cancelling ctx abandons the wait only: the command still runs to
// completion on the worker in its queued position. No cancellation is
// propagated to the child process.
func (q *Queue) Enqueue(ctx context.Context, command string, args ...string) ([]byte, error) {
	w := newWork(command, args)
	select {
	case q.work <- w:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return awaitWork(ctx, w)
}

// awaitWork suspends until the work item is done, then consumes its
// result. An item that completed without a recorded result is an
// invariant breach and fails with ErrNoResult rather than hanging.
func awaitWork(ctx context.Context, w *work) ([]byte, error) {
	select {
	case <-w.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if !w.res.recorded {
		return nil, ErrNoResult
	}
	return w.res.output, w.res.err
}

// Close stops the worker once all queued commands have finished. Enqueue
// must not be called after Close.
func (q *Queue) Close() {
	close(q.work)
}
