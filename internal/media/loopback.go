package media

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pion/webrtc/v3"
)

// Loopback is an in-process Transport used when no real media stack
// is wired in (headless runs and tests). Calls placed on one end pop
// out as incoming calls on the other.
type Loopback struct {
	mu      sync.Mutex
	peer    *Loopback
	handler func(Call)
}

// NewLoopbackPair returns two connected transports.
func NewLoopbackPair() (*Loopback, *Loopback) {
	a := &Loopback{}
	b := &Loopback{}
	a.peer = b
	b.peer = a
	return a, b
}

func (l *Loopback) AcquireLocal(ctx context.Context) (Stream, error) {
	return &loopStream{id: uuid.NewString()}, nil
}

func (l *Loopback) Call(ctx context.Context, local Stream) (Stream, error) {
	l.mu.Lock()
	peer := l.peer
	l.mu.Unlock()
	if peer == nil {
		return nil, ErrNoDevices
	}

	call := &loopCall{caller: local, answered: make(chan Stream, 1)}
	peer.mu.Lock()
	handler := peer.handler
	peer.mu.Unlock()
	if handler == nil {
		return nil, ErrNoDevices
	}
	handler(call)

	select {
	case remote := <-call.answered:
		return remote, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *Loopback) OnIncoming(handler func(Call)) {
	l.mu.Lock()
	l.handler = handler
	l.mu.Unlock()
}

type loopStream struct {
	id      string
	mu      sync.Mutex
	stopped bool
}

func (s *loopStream) ID() string { return s.id }

func (s *loopStream) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
}

// Stopped reports whether Stop ran, for teardown assertions.
func (s *loopStream) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

type loopCall struct {
	caller   Stream
	answered chan Stream
}

func (c *loopCall) Offer() webrtc.SessionDescription {
	return webrtc.SessionDescription{Type: webrtc.SDPTypeOffer}
}

func (c *loopCall) Answer(local Stream) (Stream, error) {
	c.answered <- local
	return c.caller, nil
}

func (c *loopCall) Decline() error { return nil }
