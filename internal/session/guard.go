package session

import (
	"errors"
	"sync"
)

// ErrPending is returned when the same action is triggered while a previous
// run is still in flight.
var ErrPending = errors.New("action already in progress")

// Action names a deduplicated write action
type Action string

const (
	ActionSave    Action = "save"
	ActionSuggest Action = "suggest"
	ActionEdit    Action = "edit"
	ActionDelete  Action = "delete"
	ActionSubmit  Action = "submit"
	ActionTryOn   Action = "tryon"
)

// Guard allows at most one in-flight run per action. The zero value is ready
// to use.
type Guard struct {
	mu      sync.Mutex
	pending map[Action]struct{}
}

// Begin marks a as in flight, or returns ErrPending
func (g *Guard) Begin(a Action) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending == nil {
		g.pending = make(map[Action]struct{})
	}
	if _, busy := g.pending[a]; busy {
		return ErrPending
	}
	g.pending[a] = struct{}{}
	return nil
}

// End clears the in-flight mark for a
func (g *Guard) End(a Action) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.pending, a)
}

// Pending reports whether a is in flight
func (g *Guard) Pending(a Action) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.pending[a]
	return busy
}

// Any reports whether any action is in flight
func (g *Guard) Any() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.pending) > 0
}

// Do runs fn under the guard for a
func (g *Guard) Do(a Action, fn func() error) error {
	if err := g.Begin(a); err != nil {
		return err
	}
	defer g.End(a)
	return fn()
}
