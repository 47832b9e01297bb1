package sync

import (
	"log"

	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/board"
	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/wire"
)

// Peer binds the local element store to the data channel. It
// implements input.Emitter on the outbound side and applies inbound
// messages on a read loop. One Peer exists per connected session.
type Peer struct {
	store *board.Store
	ch    Channel

	// OnApplied fires after an inbound message changed the store, so
	// the UI can re-render. OnClosed fires once when the read loop
	// dies; the session treats that as a full reset.
	OnApplied func()
	OnClosed  func(err error)
}

func NewPeer(store *board.Store, ch Channel) *Peer {
	return &Peer{store: store, ch: ch}
}

// Close tears the data channel down. The local read loop exits and
// the remote peer observes the close through its own.
func (p *Peer) Close() error {
	return p.ch.Close()
}

// Run consumes inbound messages until the channel fails. Call it on
// its own goroutine.
func (p *Peer) Run() {
	for {
		msg, err := p.ch.Receive()
		if err != nil {
			log.Printf("[sync] channel closed: %v", err)
			if p.OnClosed != nil {
				p.OnClosed(err)
			}
			return
		}
		if err := Apply(msg, p.store); err != nil {
			log.Printf("[sync] dropping %s message: %v", msg.Type, err)
			continue
		}
		if p.OnApplied != nil {
			p.OnApplied()
		}
	}
}

// send puts one message on the wire. Send failures are logged, not
// surfaced: the read loop notices the dead channel and resets the
// session.
func (p *Peer) send(m wire.Message) {
	if err := p.ch.Send(m); err != nil {
		log.Printf("[sync] failed to send %s: %v", m.Type, err)
	}
}

// SendFullState replaces the remote store with the local one. Host
// only, once, right after the guest's channel opens.
func (p *Peer) SendFullState() {
	p.send(wire.FullState(p.store.Elements()))
}

// input.Emitter implementation: one local mutation, one message.

func (p *Peer) ElementAdded(e board.Element) {
	p.send(wire.AddElement(e))
}

func (p *Peer) ElementRemoved(id string) {
	p.send(wire.RemoveElement(id))
}

func (p *Peer) ElementUpdated(id string, u board.Update) {
	p.send(wire.UpdateElement(id, u))
}

func (p *Peer) BoardCleared() {
	p.send(wire.ClearBoard())
}

// Apply executes one inbound message against the store. Unknown
// message types and operations on absent ids are ignored, never
// errors; duplicate adds are absorbed by the store.
func Apply(m wire.Message, store *board.Store) error {
	switch m.Type {
	case wire.TypeFullState:
		elements := make([]board.Element, 0, len(m.Elements))
		for _, we := range m.Elements {
			e, err := we.ToBoard()
			if err != nil {
				return err
			}
			elements = append(elements, e)
		}
		store.Replace(elements)
	case wire.TypeAdd:
		if m.Element == nil {
			return nil
		}
		e, err := m.Element.ToBoard()
		if err != nil {
			return err
		}
		store.Add(e)
	case wire.TypeRemove:
		store.Remove(m.ID)
	case wire.TypeUpdate:
		if m.Update != nil {
			store.Update(m.ID, *m.Update)
		}
	case wire.TypeClear:
		store.Clear()
	default:
		log.Printf("[sync] ignoring unknown message type %q", m.Type)
	}
	return nil
}
