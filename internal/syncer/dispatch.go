package syncer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/amscan/ordersync/internal/pipeline"
)

// ErrDispatchTimeout means the processing side never returned a verdict
// within the window. Treated as a failure: the file stays untouched.
var ErrDispatchTimeout = errors.New("syncer: timed out waiting for processing verdict")

// DefaultDispatchTimeout bounds how long the orchestrator waits for a
// per-file verdict.
const DefaultDispatchTimeout = 30 * time.Second

// FileProcessor is the processing side of the hand-off.
type FileProcessor interface {
	ProcessFile(ctx context.Context, fileName, content string) (*pipeline.Result, error)
}

type dispatchRequest struct {
	fileName string
	content  string
	reply    chan dispatchVerdict
}

type dispatchVerdict struct {
	result *pipeline.Result
	err    error
}

// Dispatcher hands (fileName, content) to a dedicated processing goroutine
// and relays the verdict back. At most one file is in flight at a time; the
// orchestrator blocks until the verdict arrives or the timeout elapses.
type Dispatcher struct {
	requests chan dispatchRequest
	timeout  time.Duration
	done     chan struct{}
}

// NewDispatcher starts the processing goroutine. Close must be called to
// stop it. A timeout of 0 means DefaultDispatchTimeout.
func NewDispatcher(proc FileProcessor, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultDispatchTimeout
	}
	d := &Dispatcher{
		requests: make(chan dispatchRequest),
		timeout:  timeout,
		done:     make(chan struct{}),
	}
	go d.loop(proc)
	return d
}

func (d *Dispatcher) loop(proc FileProcessor) {
	for {
		select {
		case req, ok := <-d.requests:
			if !ok {
				return
			}
			result, err := proc.ProcessFile(context.Background(), req.fileName, req.content)
			// The reply channel is buffered; a timed-out waiter never blocks
			// the loop.
			req.reply <- dispatchVerdict{result: result, err: err}
		case <-d.done:
			return
		}
	}
}

// Dispatch sends one file for processing and waits for its verdict.
func (d *Dispatcher) Dispatch(ctx context.Context, fileName, content string) (*pipeline.Result, error) {
	req := dispatchRequest{
		fileName: fileName,
		content:  content,
		reply:    make(chan dispatchVerdict, 1),
	}

	select {
	case d.requests <- req:
	case <-ctx.Done():
		return nil, fmt.Errorf("dispatch %s: %w", fileName, ctx.Err())
	case <-d.done:
		return nil, fmt.Errorf("dispatch %s: dispatcher closed", fileName)
	}

	timer := time.NewTimer(d.timeout)
	defer timer.Stop()

	select {
	case verdict := <-req.reply:
		return verdict.result, verdict.err
	case <-timer.C:
		log.Printf("[dispatch] No verdict for %s within %s", fileName, d.timeout)
		return nil, fmt.Errorf("%w (%s after %s)", ErrDispatchTimeout, fileName, d.timeout)
	case <-ctx.Done():
		return nil, fmt.Errorf("dispatch %s: %w", fileName, ctx.Err())
	}
}

// Close stops the processing goroutine. In-flight work finishes; its verdict
// is dropped.
func (d *Dispatcher) Close() {
	close(d.done)
}
