package picker

import "errors"

// Sentinel errors for the picker package. User-visible failures wrap
// these with the picker name; producer failures carry the underlying
// exit or error detail.
var (
	// ErrUnknownPicker is returned when dispatching an unregistered name.
	ErrUnknownPicker = errors.New("unknown picker")

	// ErrDuplicateName is returned when registering a name twice.
	ErrDuplicateName = errors.New("picker name already registered")

	// ErrTimeout is returned when a synchronous wait exceeds its deadline.
	// The task keeps running detached; cancel it if unwanted.
	ErrTimeout = errors.New("wait timed out")

	// ErrProducerFailure wraps subprocess or remote-call errors captured
	// as instance status.
	ErrProducerFailure = errors.New("producer failed")

	// ErrCancelled marks the terminal state reached only via explicit
	// cancel. Partial results of a cancelled instance remain readable.
	ErrCancelled = errors.New("picker cancelled")

	// ErrCacheMiss is returned when a resume index exceeds the cache size.
	ErrCacheMiss = errors.New("no cached picker at index")
)
