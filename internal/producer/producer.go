// Package producer defines the asynchronous sources that feed result
// streams: external processes with streamed stdout capture, local
// closures, and static lists.
package producer

import (
	"context"
	"fmt"

	"github.com/dshills/quickpick/internal/picker/stream"
)

// Kind identifies how a producer generates items.
type Kind int

const (
	// KindProcess spawns a subprocess and parses its stdout.
	KindProcess Kind = iota
	// KindFunc runs a local closure.
	KindFunc
	// KindStatic emits a fixed list.
	KindStatic
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindProcess:
		return "process"
	case KindFunc:
		return "closure"
	case KindStatic:
		return "static"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Emit delivers one produced item to the consumer side.
// Emit implementations are safe to call from multiple goroutines.
type Emit func(stream.Item)

// Producer generates result items until exhausted or canceled.
//
// Produce blocks until production finishes; callers run it in its own
// goroutine. Implementations must stop promptly when ctx is canceled
// and return ctx.Err() in that case. Items arrive in first-seen order;
// no semantic ordering is guaranteed.
type Producer interface {
	Produce(ctx context.Context, emit Emit) error
}

// Func adapts a closure into a Producer.
type Func func(ctx context.Context, emit Emit) error

// Produce implements Producer.
func (f Func) Produce(ctx context.Context, emit Emit) error {
	return f(ctx, emit)
}

// Static emits a fixed list of items in order.
type Static struct {
	Items []stream.Item
}

// StaticLines builds a static producer from plain text lines.
func StaticLines(lines ...string) *Static {
	items := make([]stream.Item, len(lines))
	for i, line := range lines {
		items[i] = stream.Item{Text: line}
	}
	return &Static{Items: items}
}

// Produce implements Producer.
func (s *Static) Produce(ctx context.Context, emit Emit) error {
	for _, it := range s.Items {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		emit(it)
	}
	return nil
}
