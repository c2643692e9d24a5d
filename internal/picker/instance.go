package picker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/quickpick/internal/config"
	"github.com/dshills/quickpick/internal/picker/match"
	"github.com/dshills/quickpick/internal/picker/stream"
	"github.com/dshills/quickpick/internal/producer"
)

// Status is the lifecycle state of an instance.
type Status int

const (
	// StatusRunning indicates the producer is still generating items.
	StatusRunning Status = iota
	// StatusCompleted indicates the producer finished successfully.
	StatusCompleted
	// StatusCancelled indicates the instance was explicitly cancelled.
	StatusCancelled
	// StatusFailed indicates the producer failed; see Err.
	StatusFailed
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Instance is one execution of a picker spec with resolved options.
// It owns its result stream and cancellation handle. The registry that
// created it owns the instance itself.
type Instance struct {
	id     string
	name   string
	opts   config.Options
	stream *stream.Stream
	ranker *stream.Ranker
	attach AttachFunc
	cancel context.CancelFunc

	// emitMu orders producer appends against Cancel, guaranteeing no
	// append lands after Cancel returns.
	emitMu  sync.Mutex
	stopped bool

	mu      sync.RWMutex
	query   match.Query
	status  Status
	failErr error

	done chan struct{}
}

// newInstance wires an instance for a spec invocation.
func newInstance(name string, opts config.Options, ranker *stream.Ranker, attach AttachFunc) *Instance {
	in := &Instance{
		id:     uuid.New().String(),
		name:   name,
		opts:   opts,
		stream: stream.New(opts.MaxResults),
		ranker: ranker,
		attach: attach,
		status: StatusRunning,
		done:   make(chan struct{}),
	}
	in.query = match.Query{Text: opts.DefaultText, Mode: opts.Mode}
	return in
}

// start launches the producer in its own goroutine and returns
// immediately.
func (in *Instance) start(ctx context.Context, p producer.Producer) {
	ctx, in.cancel = context.WithCancel(ctx)
	go in.run(ctx, p)
}

// run executes the producer and records the terminal state.
func (in *Instance) run(ctx context.Context, p producer.Producer) {
	err := p.Produce(ctx, in.emit)

	in.mu.Lock()
	switch {
	case in.isStopped() || errors.Is(err, context.Canceled):
		in.status = StatusCancelled
	case err != nil:
		in.status = StatusFailed
		in.failErr = fmt.Errorf("picker %s: %w: %v", in.name, ErrProducerFailure, err)
	default:
		in.status = StatusCompleted
	}
	in.mu.Unlock()

	close(in.done)
}

// emit appends one produced item unless the instance was cancelled.
func (in *Instance) emit(it stream.Item) {
	in.emitMu.Lock()
	defer in.emitMu.Unlock()

	if in.stopped {
		return
	}
	in.stream.Append(it)
}

func (in *Instance) isStopped() bool {
	in.emitMu.Lock()
	defer in.emitMu.Unlock()
	return in.stopped
}

// ID returns the unique instance identifier.
func (in *Instance) ID() string { return in.id }

// Name returns the picker name this instance was dispatched as.
func (in *Instance) Name() string { return in.name }

// Options returns the resolved options for this invocation.
func (in *Instance) Options() config.Options { return in.opts }

// Stream returns the instance's result stream.
func (in *Instance) Stream() *stream.Stream { return in.stream }

// Attach returns the caller's attach-mappings hook, or nil.
func (in *Instance) Attach() AttachFunc { return in.attach }

// Status returns the current lifecycle state.
func (in *Instance) Status() Status {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.status
}

// Err returns the captured producer failure, or nil.
// Failures surface only here and via Status, never across the
// producer/consumer boundary.
func (in *Instance) Err() error {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.failErr
}

// Done returns a channel closed when the producer goroutine exits.
func (in *Instance) Done() <-chan struct{} { return in.done }

// SetQuery replaces the live query. The next Rank call reflects it.
func (in *Instance) SetQuery(q match.Query) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.query = q
}

// Query returns the current query. Retained in the resume cache, so a
// resumed instance restores the prior filter state.
func (in *Instance) Query() match.Query {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.query
}

// Rank returns the ranked view of the stream for the current query.
func (in *Instance) Rank() ([]stream.Ranked, error) {
	return in.ranker.Rank(in.stream, in.Query())
}

// Cancel stops the instance. It is idempotent and safe to call from
// the consumer goroutine while the producer is mid-flight. Once Cancel
// returns, no further items are appended; process producers are
// interrupted and force-killed after their grace period. Already
// collected results stay readable and the instance stays resumable.
// Cancelling an instance that already completed or failed is a no-op.
func (in *Instance) Cancel() {
	in.emitMu.Lock()
	if in.stopped {
		in.emitMu.Unlock()
		return
	}
	in.stopped = true
	in.emitMu.Unlock()

	in.mu.Lock()
	if in.status == StatusRunning {
		in.status = StatusCancelled
	}
	in.mu.Unlock()

	if in.cancel != nil {
		in.cancel()
	}
}

// Wait blocks until the producer finishes or the timeout elapses.
//
// On timeout it returns ErrTimeout and the task continues running
// detached; the caller decides whether to Cancel. On completion it
// returns nil, the producer failure for failed instances, or
// ErrCancelled for cancelled ones.
func (in *Instance) Wait(timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-in.done:
	case <-timer.C:
		return fmt.Errorf("picker %s: %w after %s", in.name, ErrTimeout, timeout)
	}

	switch in.Status() {
	case StatusFailed:
		return in.Err()
	case StatusCancelled:
		return fmt.Errorf("picker %s: %w", in.name, ErrCancelled)
	default:
		return nil
	}
}
