// Package session orchestrates a peer session: role assignment, room
// brokering, the connect timeout, the one-shot full-state bootstrap,
// the media call, and teardown. One Controller lives for the whole
// process; a session that dies needs a fresh Host or Join, there is
// no resume.
package session

import (
	"context"
	"fmt"
	"log"
	gosync "sync"
	"time"

	"github.com/hashicorp/mdns"

	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/board"
	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/config"
	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/discovery"
	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/input"
	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/media"
	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/netutil"
	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/sync"
)

type Role int

const (
	RoleNone Role = iota
	RoleHost
	RoleGuest
)

func (r Role) String() string {
	switch r {
	case RoleHost:
		return "host"
	case RoleGuest:
		return "guest"
	}
	return "none"
}

type State int

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	}
	return "disconnected"
}

// Controller drives the session state machine. Callbacks fire off the
// controller's own goroutines; UI code must hop to its own thread.
type Controller struct {
	cfg     *config.Config
	store   *board.Store
	machine *input.Machine
	media   media.Transport

	mu           gosync.Mutex
	role         Role
	state        State
	room         string
	peer         *sync.Peer
	listener     *sync.Listener
	advertiser   *mdns.Server
	localStream  media.Stream
	remoteStream media.Stream
	cancelWait   context.CancelFunc

	// OnStateChanged fires on every lifecycle transition.
	OnStateChanged func(State, Role)
	// OnRemoteApplied fires after an inbound message changed the
	// store, so the board re-renders.
	OnRemoteApplied func()
	// OnRemoteStream hands the remote feed over for playback.
	OnRemoteStream func(media.Stream)
	// OnFailure carries user-visible failure notices. Nothing is
	// retried automatically.
	OnFailure func(msg string)
}

func NewController(cfg *config.Config, store *board.Store, machine *input.Machine, mt media.Transport) *Controller {
	c := &Controller{
		cfg:     cfg,
		store:   store,
		machine: machine,
		media:   mt,
	}
	if mt != nil {
		mt.OnIncoming(c.autoAnswer)
	}
	return c
}

func (c *Controller) Role() Role {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.role
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Room() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.room
}

// Host opens a room: allocates the code, starts the data channel
// endpoint, advertises the room, and waits in the background for the
// one guest. Returns the room code and share link immediately.
func (c *Controller) Host() (room, link string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.role != RoleNone {
		return "", "", fmt.Errorf("session already started as %s", c.role)
	}

	room = NewRoomCode()
	listener, err := sync.NewListener(c.cfg.DataPort, room)
	if err != nil {
		return "", "", err
	}

	if adv, err := discovery.Advertise(room, c.cfg.DataPort); err != nil {
		log.Printf("[session] mDNS advertise failed, share link only: %v", err)
	} else {
		c.advertiser = adv
	}

	ip, err := netutil.OutgoingIP()
	if err != nil {
		ip = "127.0.0.1"
	}
	hostAddr := fmt.Sprintf("%s:%d", ip, c.cfg.DataPort)

	c.role = RoleHost
	c.state = Connecting
	c.room = room
	c.listener = listener

	ctx, cancel := context.WithCancel(context.Background())
	c.cancelWait = cancel
	go c.waitForGuest(ctx, listener)

	c.notifyStateLocked()
	log.Printf("[session] hosting sala %s on %s", room, hostAddr)
	return room, ShareLink(hostAddr, room), nil
}

// waitForGuest blocks until the single guest arrives, then bootstraps
// it: a short settling delay, the FullState push, and the media call.
func (c *Controller) waitForGuest(ctx context.Context, listener *sync.Listener) {
	ch, err := listener.Accept(ctx)
	if err != nil {
		return // hosting cancelled
	}

	peer := sync.NewPeer(c.store, ch)
	c.attachPeer(peer)

	time.Sleep(c.cfg.SettleDelay)
	peer.SendFullState()
	log.Printf("[session] guest joined sala %s, state pushed", c.Room())

	c.placeCall()
}

// Join connects to a hosted room. The target is a share link or a
// bare room code; bare codes are resolved over mDNS. The whole
// attempt is bounded by the connect timeout.
func (c *Controller) Join(target string) error {
	c.mu.Lock()
	if c.role != RoleNone {
		c.mu.Unlock()
		return fmt.Errorf("session already started as %s", c.role)
	}
	c.role = RoleGuest
	c.state = Connecting
	c.notifyStateLocked()
	c.mu.Unlock()

	err := c.join(target)
	if err != nil {
		c.mu.Lock()
		c.role = RoleNone
		c.state = Disconnected
		c.room = ""
		c.notifyStateLocked()
		c.mu.Unlock()
		c.fail(fmt.Sprintf("Não foi possível entrar na sala: %v", err))
		return err
	}
	return nil
}

func (c *Controller) join(target string) error {
	hostAddr, room, err := ParseShareLink(target)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.ConnectTimeout)
	defer cancel()

	if hostAddr == "" {
		deadline, _ := ctx.Deadline()
		hostAddr, err = discovery.Resolve(room, time.Until(deadline))
		if err != nil {
			return err
		}
	}

	ch, err := sync.Dial(ctx, hostAddr, room)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("connection timed out after %s", c.cfg.ConnectTimeout)
		}
		return err
	}

	c.mu.Lock()
	c.room = room
	c.mu.Unlock()

	peer := sync.NewPeer(c.store, ch)
	c.attachPeer(peer)
	log.Printf("[session] joined sala %s at %s", room, hostAddr)

	go c.placeCall()
	return nil
}

// attachPeer wires the connected channel into the board: inbound
// messages mutate the store, local mutations go out through the peer.
func (c *Controller) attachPeer(peer *sync.Peer) {
	peer.OnApplied = func() {
		if c.OnRemoteApplied != nil {
			c.OnRemoteApplied()
		}
	}
	peer.OnClosed = c.handleChannelClosed

	c.mu.Lock()
	c.peer = peer
	c.state = Connected
	c.machine.SetEmitter(peer)
	c.notifyStateLocked()
	c.mu.Unlock()

	go peer.Run()
}

// placeCall acquires the local devices and calls the peer. Device
// failure degrades inside the transport; a hard failure is surfaced
// but does not end the data session.
func (c *Controller) placeCall() {
	if c.media == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.ConnectTimeout)
	defer cancel()

	local, err := c.localStreamOrAcquire(ctx)
	if err != nil {
		c.fail("Câmera e microfone indisponíveis; a chamada não foi iniciada.")
		return
	}

	remote, err := c.media.Call(ctx, local)
	if err != nil {
		log.Printf("[session] media call failed: %v", err)
		return
	}
	c.setRemoteStream(remote)
}

// localStreamOrAcquire returns the held local stream, opening the
// capture devices on first use. Exactly one local stream exists per
// session whichever of placeCall and autoAnswer runs first.
func (c *Controller) localStreamOrAcquire(ctx context.Context) (media.Stream, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.localStream != nil {
		return c.localStream, nil
	}
	local, err := c.media.AcquireLocal(ctx)
	if err != nil {
		return nil, err
	}
	c.localStream = local
	return local, nil
}

// autoAnswer accepts an inbound call with the local stream.
func (c *Controller) autoAnswer(call media.Call) {
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.ConnectTimeout)
	defer cancel()
	local, err := c.localStreamOrAcquire(ctx)
	if err != nil {
		call.Decline()
		c.fail("Câmera e microfone indisponíveis; chamada recusada.")
		return
	}
	remote, err := call.Answer(local)
	if err != nil {
		log.Printf("[session] failed to answer call: %v", err)
		return
	}
	c.setRemoteStream(remote)
}

func (c *Controller) setRemoteStream(s media.Stream) {
	c.mu.Lock()
	c.remoteStream = s
	c.mu.Unlock()
	if c.OnRemoteStream != nil {
		c.OnRemoteStream(s)
	}
}

// handleChannelClosed is terminal: whatever the cause, both sides
// fall back to disconnected and a new session must be started. A close
// caused by our own deliberate teardown is not reported again.
func (c *Controller) handleChannelClosed(err error) {
	c.mu.Lock()
	active := c.role != RoleNone
	c.mu.Unlock()
	if !active {
		return
	}
	c.teardown()
	c.fail("A conexão com o outro participante caiu. Inicie uma nova sessão.")
}

// Stop ends the session deliberately (hangup or app exit).
func (c *Controller) Stop() {
	c.teardown()
}

func (c *Controller) teardown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancelWait != nil {
		c.cancelWait()
		c.cancelWait = nil
	}
	if c.listener != nil {
		c.listener.Close()
		c.listener = nil
	}
	if c.advertiser != nil {
		c.advertiser.Shutdown()
		c.advertiser = nil
	}
	if c.peer != nil {
		c.peer.Close()
		c.peer = nil
	}
	if c.localStream != nil {
		c.localStream.Stop()
		c.localStream = nil
	}
	if c.remoteStream != nil {
		c.remoteStream.Stop()
		c.remoteStream = nil
	}
	c.machine.SetEmitter(nil)
	c.role = RoleNone
	c.state = Disconnected
	c.room = ""
	c.notifyStateLocked()
	log.Printf("[session] torn down")
}

func (c *Controller) notifyStateLocked() {
	if c.OnStateChanged != nil {
		state, role := c.state, c.role
		go c.OnStateChanged(state, role)
	}
}

func (c *Controller) fail(msg string) {
	log.Printf("[session] %s", msg)
	if c.OnFailure != nil {
		c.OnFailure(msg)
	}
}
