package transport

import (
	"context"
	"sync"

	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/observability"
	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/protocol"
	"github.com/rs/zerolog"
)

// Doer executes one command and returns the decoded reply.
type Doer interface {
	Do(ctx context.Context, cmd protocol.Command) (protocol.Response, error)
}

// Result is delivered exactly once per submitted request.
type Result struct {
	Response protocol.Response
	Err      error
}

type request struct {
	ctx  context.Context
	cmd  protocol.Command
	done chan Result
}

// Worker runs requests one at a time on its own goroutine so the
// interactive goroutine never blocks on the network.
type Worker struct {
	doer  Doer
	queue chan request
	log   zerolog.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

func NewWorker(doer Doer, queueSize int) *Worker {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Worker{
		doer:  doer,
		queue: make(chan request, queueSize),
		log:   observability.Component("worker"),
	}
}

func (w *Worker) Start(ctx context.Context) {
	w.log.Debug().Int("queue", cap(w.queue)).Msg("starting request worker")
	w.wg.Add(1)
	go w.run(ctx)
}

// Stop rejects new requests, finishes the queued ones and waits for the
// goroutine to exit.
func (w *Worker) Stop() {
	w.shutdown()
	w.wg.Wait()
	w.log.Debug().Msg("request worker stopped")
}

// Submit enqueues cmd. A full queue or a stopped worker fails immediately.
func (w *Worker) Submit(ctx context.Context, cmd protocol.Command) <-chan Result {
	done := make(chan Result, 1)

	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.stopped {
		done <- Result{Err: ErrWorkerStopped}
		return done
	}
	select {
	case w.queue <- request{ctx: ctx, cmd: cmd, done: done}:
	default:
		w.log.Warn().Str("command", cmd.Name()).Msg("request queue full")
		done <- Result{Err: ErrWorkerBusy}
	}
	return done
}

// Do submits cmd and waits for its result or for ctx to end.
func (w *Worker) Do(ctx context.Context, cmd protocol.Command) (protocol.Response, error) {
	select {
	case res := <-w.Submit(ctx, cmd):
		return res.Response, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (w *Worker) shutdown() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	w.stopped = true
	close(w.queue)
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			w.shutdown()
			for req := range w.queue {
				req.done <- Result{Err: ErrWorkerStopped}
			}
			return
		case req, ok := <-w.queue:
			if !ok {
				return
			}
			w.handle(req)
		}
	}
}

func (w *Worker) handle(req request) {
	if err := req.ctx.Err(); err != nil {
		req.done <- Result{Err: err}
		return
	}
	resp, err := w.doer.Do(req.ctx, req.cmd)
	req.done <- Result{Response: resp, Err: err}
}
