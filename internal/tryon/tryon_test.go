package tryon

import (
	"context"
	"errors"
	"testing"

	"github.com/julianstephens/bliss/internal/constants"
	apperrors "github.com/julianstephens/bliss/internal/errors"
	"github.com/julianstephens/bliss/internal/session"
)

type fakeBackend struct {
	images []string
	reply  string
	err    error
}

func (f *fakeBackend) TryOn(ctx context.Context, image string) (string, error) {
	f.images = append(f.images, image)
	return f.reply, f.err
}

func TestSendImage(t *testing.T) {
	be := &fakeBackend{reply: "Virtual try-on applied"}
	p := New()

	msg, err := p.SendImage(context.Background(), be)
	if err != nil {
		t.Fatalf("SendImage() error = %v", err)
	}
	if msg != "Virtual try-on applied" || p.Message() != msg {
		t.Errorf("message = %q / %q", msg, p.Message())
	}
	if len(be.images) != 1 || be.images[0] != constants.TryOnPlaceholder {
		t.Errorf("images sent = %v", be.images)
	}
}

func TestSendImageFailureKeepsMessage(t *testing.T) {
	be := &fakeBackend{reply: "first"}
	p := New()
	if _, err := p.SendImage(context.Background(), be); err != nil {
		t.Fatal(err)
	}

	be.err = apperrors.ErrNetwork
	if _, err := p.SendImage(context.Background(), be); !errors.Is(err, apperrors.ErrNetwork) {
		t.Fatalf("error = %v, want ErrNetwork", err)
	}
	if p.Message() != "first" {
		t.Errorf("Message = %q, want unchanged", p.Message())
	}
}

func TestSendImagePending(t *testing.T) {
	be := &fakeBackend{}
	p := New()
	if err := p.Guard().Begin(session.ActionTryOn); err != nil {
		t.Fatal(err)
	}
	if _, err := p.SendImage(context.Background(), be); !errors.Is(err, session.ErrPending) {
		t.Errorf("error = %v, want ErrPending", err)
	}
	if len(be.images) != 0 {
		t.Error("pending send should not issue a request")
	}
}
