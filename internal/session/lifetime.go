// Package session scopes asynchronous page work. A Lifetime cancels
// outstanding requests when a page is left and marks their responses stale;
// a Guard keeps a write action from running twice at once.
package session

import (
	"context"
	"sync"
)

// Token identifies one mount of a page. Results tagged with an old token are
// dropped.
type Token uint64

// Lifetime tracks the current mount of a page
type Lifetime struct {
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	gen    Token
}

// NewLifetime returns an unmounted Lifetime
func NewLifetime() *Lifetime {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return &Lifetime{ctx: ctx, cancel: cancel}
}

// Mount starts a new page lifetime, cancelling the previous one.
func (l *Lifetime) Mount() (context.Context, Token) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	l.ctx, l.cancel = context.WithCancel(context.Background())
	return l.ctx, l.gen
}

// Unmount cancels in-flight work and invalidates the current token.
func (l *Lifetime) Unmount() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
}

// Context returns the context of the current mount. It is already cancelled
// when the page is not mounted.
func (l *Lifetime) Context() context.Context {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ctx
}

// Token returns the token of the current mount
func (l *Lifetime) Token() Token {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen
}

// Current reports whether tok belongs to the live mount
func (l *Lifetime) Current(tok Token) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return tok == l.gen && l.ctx.Err() == nil
}
