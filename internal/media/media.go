// Package media specifies the audio/video call collaborator. The
// actual capture and transport live outside this module; the session
// controller only needs offer/answer negotiation, auto-answer on
// incoming calls, and deterministic track release on teardown.
package media

import (
	"context"
	"errors"

	"github.com/pion/webrtc/v3"
)

// ErrNoDevices is returned when neither audio+video nor video-only
// capture could be opened. The session surfaces it as a hard failure.
var ErrNoDevices = errors.New("no capture devices available")

// Stream is one live audio+video feed: either the local capture or
// the remote peer's tracks. Stop releases the underlying tracks and
// is safe to call twice.
type Stream interface {
	ID() string
	Stop()
}

// Call is an inbound call pending an answer.
type Call interface {
	// Offer is the caller's session description.
	Offer() webrtc.SessionDescription
	// Answer accepts the call with the given local stream and returns
	// the remote one.
	Answer(local Stream) (Stream, error)
	Decline() error
}

// Transport negotiates the single bidirectional call of a session,
// independently of the data channel.
type Transport interface {
	// AcquireLocal opens the camera and microphone. Implementations
	// degrade to video-only when the microphone is unavailable and
	// return ErrNoDevices when video fails too.
	AcquireLocal(ctx context.Context) (Stream, error)
	// Call places a call toward the connected peer.
	Call(ctx context.Context, local Stream) (Stream, error)
	// OnIncoming registers the handler invoked for inbound calls.
	OnIncoming(handler func(Call))
}

// Offer and Answer are the negotiation payloads relayed between the
// peers by the external brokering service.
type Offer struct {
	Room string                    `json:"room"`
	SDP  webrtc.SessionDescription `json:"sdp"`
}

type Answer struct {
	SDP webrtc.SessionDescription `json:"sdp"`
}
