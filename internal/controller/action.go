// Package controller holds the page controllers: single-flight actions that
// call the backend and keep the last outcome for display.
package controller

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
)

// State is where an action is in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

var (
	// ErrBusy is returned when an action is started while it is still loading.
	ErrBusy = goerr.New("action already in progress")

	// ErrEmptyInput is returned before any call when the required input is blank.
	ErrEmptyInput = goerr.New("input is required")
)

// Action runs one kind of request at a time and remembers its last outcome.
// There is no cancellation; a started call runs to completion.
type Action[T any] struct {
	mu     sync.Mutex
	state  State
	result T
	err    error
}

// Run moves the action to loading, calls fn and records the outcome.
// It returns ErrBusy without calling fn if the action is already loading.
func (a *Action[T]) Run(ctx context.Context, fn func(ctx context.Context) (T, error)) (T, error) {
	a.mu.Lock()
	if a.state == StateLoading {
		a.mu.Unlock()
		var zero T
		return zero, ErrBusy
	}
	a.state = StateLoading
	a.mu.Unlock()

	result, err := fn(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		a.state = StateError
		a.err = err
		return result, err
	}
	a.state = StateSuccess
	a.result = result
	a.err = nil
	return result, nil
}

// State returns the current state.
func (a *Action[T]) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Result returns the last successful result and the last error.
// A failed run keeps the previous result on display.
func (a *Action[T]) Result() (T, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.result, a.err
}
