// Package spapqerr collects the sentinel and wrapped errors raised across
// the runtime, colocated the way each package in the corpus keeps its own
// errors.go rather than reaching for a shared error package per concern.
package spapqerr

import "errors"

var (
	// ErrInvalidNetwork is returned by qnet.Network.Validate and wraps the
	// first failing check.
	ErrInvalidNetwork = errors.New("spapq: invalid network")

	// ErrWouldBlock is a sentinel for a push that found no room or a pop
	// that found nothing. ringbuf.Ring reports both with boolean results
	// and does not return it, and no runtime operation returns it.
	ErrWouldBlock = errors.New("spapq: would block")

	// ErrPinFailure names a failure to place a worker's OS thread on its
	// logical core. No code path in this module returns it: setAffinity
	// ignores sched_setaffinity errors, and a worker whose pin fails runs
	// unpinned.
	ErrPinFailure = errors.New("spapq: thread pin failure")

	// ErrAlreadyActive is returned by Queue.InitQueue when the queue is
	// already running.
	ErrAlreadyActive = errors.New("spapq: queue already active")

	// ErrNotActive is returned by operations that require an initialised
	// queue (PushBeforeProcessing) when none exists.
	ErrNotActive = errors.New("spapq: queue not active")
)

// IsWouldBlock reports whether err is, or wraps, ErrWouldBlock.
func IsWouldBlock(err error) bool {
	return errors.Is(err, ErrWouldBlock)
}

// IsFatal reports whether err represents a condition the runtime cannot
// recover from and must surface as a hard failure to the caller.
func IsFatal(err error) bool {
	return errors.Is(err, ErrPinFailure) || errors.Is(err, ErrInvalidNetwork)
}

// HookPanic wraps a recovered panic value from a processing hook. Per the
// runtime's failure semantics a hook is expected never to panic; when one
// does, the panic is converted into this error instead of crashing the
// worker's OS thread outright.
type HookPanic struct {
	WorkerID int
	Value    any
	Stack    []byte
}

func (e *HookPanic) Error() string {
	return "spapq: worker hook panicked"
}

func (e *HookPanic) Unwrap() error { return nil }
