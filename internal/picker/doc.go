// Package picker implements the live search task registry: named task
// specs, running instances with cancelable producers, a bounded resume
// cache, and the option-merging dispatcher.
//
// The consumer (a UI event loop) drives a single goroutine issuing
// commands; each instance's producer runs concurrently and feeds the
// instance's result stream. The stream is the only structure shared
// across that boundary.
package picker
