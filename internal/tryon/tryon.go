package tryon

import (
	"context"
	"fmt"

	"github.com/julianstephens/bliss/internal/constants"
	"github.com/julianstephens/bliss/internal/logger"
	"github.com/julianstephens/bliss/internal/session"
)

// Backend is the subset of the API client try-on needs
type Backend interface {
	TryOn(ctx context.Context, image string) (string, error)
}

// Page holds the last message returned by the try-on endpoint
type Page struct {
	message string
	guard   session.Guard
}

func New() *Page {
	return &Page{}
}

func (p *Page) Message() string {
	return p.message
}

// Guard returns the in-flight guard for the send action
func (p *Page) Guard() *session.Guard {
	return &p.guard
}

// Request performs the network half of a send without touching page state
func Request(ctx context.Context, be Backend) (string, error) {
	msg, err := be.TryOn(ctx, constants.TryOnPlaceholder)
	if err != nil {
		logger.Error("Try-on request failed", "error", err)
		return "", fmt.Errorf("sending image: %w", err)
	}
	return msg, nil
}

// Apply shows msg. Failures leave the display unchanged.
func (p *Page) Apply(msg string, err error) {
	if err != nil {
		return
	}
	p.message = msg
}

// SendImage posts the placeholder image and displays the reply
func (p *Page) SendImage(ctx context.Context, be Backend) (string, error) {
	var msg string
	err := p.guard.Do(session.ActionTryOn, func() error {
		var err error
		msg, err = Request(ctx, be)
		p.Apply(msg, err)
		return err
	})
	return msg, err
}
