package sync

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/board"
	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/geom"
	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/wire"
)

// pipeChannel is an in-process Channel for tests. NewPipe returns both
// ends of one link.
type pipeChannel struct {
	in  chan wire.Message
	out chan wire.Message
}

func NewPipe() (Channel, Channel) {
	a := make(chan wire.Message, 64)
	b := make(chan wire.Message, 64)
	return &pipeChannel{in: a, out: b}, &pipeChannel{in: b, out: a}
}

func (c *pipeChannel) Send(m wire.Message) error {
	defer func() { recover() }()
	c.out <- m
	return nil
}

func (c *pipeChannel) Receive() (wire.Message, error) {
	m, ok := <-c.in
	if !ok {
		return wire.Message{}, errors.New("pipe closed")
	}
	return m, nil
}

func (c *pipeChannel) Close() error {
	defer func() { recover() }()
	close(c.out)
	return nil
}

func testPath(id string) *board.PathElement {
	return &board.PathElement{
		EID:  id,
		Path: board.Path{Points: []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 10}}, Color: "#1d1d1f", Width: 3, Tool: board.ToolPen},
	}
}

func TestApplyFullStateIsIdempotent(t *testing.T) {
	store := board.NewStore()
	msg := wire.FullState([]board.Element{testPath("a"), testPath("b")})

	require.NoError(t, Apply(msg, store))
	require.NoError(t, Apply(msg, store))

	elements := store.Elements()
	require.Len(t, elements, 2)
	assert.Equal(t, "a", elements[0].ID())
	assert.Equal(t, "b", elements[1].ID())
}

func TestApplyDuplicateAddAbsorbed(t *testing.T) {
	store := board.NewStore()
	msg := wire.AddElement(testPath("a"))

	require.NoError(t, Apply(msg, store))
	require.NoError(t, Apply(msg, store))
	assert.Equal(t, 1, store.Len())
}

func TestApplyRemoveAbsentIsNoOp(t *testing.T) {
	store := board.NewStore()
	store.Add(testPath("a"))

	require.NoError(t, Apply(wire.RemoveElement("missing"), store))
	assert.Equal(t, 1, store.Len())
}

func TestApplyUpdateAbsentIsNoOp(t *testing.T) {
	store := board.NewStore()
	x := 5.0
	require.NoError(t, Apply(wire.UpdateElement("missing", board.Update{X: &x}), store))
	assert.Equal(t, 0, store.Len())
}

func TestApplyUnknownTypeIgnored(t *testing.T) {
	store := board.NewStore()
	store.Add(testPath("a"))

	require.NoError(t, Apply(wire.Message{Type: "FOO"}, store))
	assert.Equal(t, 1, store.Len(), "store untouched by unknown types")
}

func TestApplyClear(t *testing.T) {
	store := board.NewStore()
	store.Add(testPath("a"))
	store.Add(testPath("b"))

	require.NoError(t, Apply(wire.ClearBoard(), store))
	assert.Equal(t, 0, store.Len())
}

func TestApplyFullStateRejectsCorruptElement(t *testing.T) {
	store := board.NewStore()
	store.Add(testPath("keep"))

	msg := wire.Message{Type: wire.TypeFullState, Elements: []wire.Element{
		{ID: "a", Kind: wire.KindPath},
		{ID: "bad", Kind: "triangle"},
	}}
	assert.Error(t, Apply(msg, store))
	assert.Equal(t, 1, store.Len(), "a bad snapshot never replaces the store")
	assert.Equal(t, "keep", store.Elements()[0].ID())
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 10*time.Millisecond)
}

func TestPeersConvergeOverPipe(t *testing.T) {
	hostCh, guestCh := NewPipe()
	hostStore := board.NewStore()
	guestStore := board.NewStore()

	host := NewPeer(hostStore, hostCh)
	guest := NewPeer(guestStore, guestCh)
	go host.Run()
	go guest.Run()
	defer hostCh.Close()
	defer guestCh.Close()

	// Bootstrap: host pushes its snapshot to the late joiner.
	hostStore.Add(testPath("pre"))
	host.SendFullState()
	waitFor(t, func() bool { return guestStore.Len() == 1 })

	// A guest-side mutation travels back.
	stroke := testPath("guest-stroke")
	guestStore.Add(stroke)
	guest.ElementAdded(stroke)
	waitFor(t, func() bool { return hostStore.Len() == 2 })

	e, ok := hostStore.Get("guest-stroke")
	require.True(t, ok)
	assert.Equal(t, stroke.Path, e.(*board.PathElement).Path)

	// Removal propagates and both boards end aligned.
	hostStore.Remove("pre")
	host.ElementRemoved("pre")
	waitFor(t, func() bool { return guestStore.Len() == 1 })
	assert.Equal(t, "guest-stroke", guestStore.Elements()[0].ID())
}

func TestPeerReportsClosedChannel(t *testing.T) {
	hostCh, guestCh := NewPipe()
	guest := NewPeer(board.NewStore(), guestCh)

	closed := make(chan error, 1)
	guest.OnClosed = func(err error) { closed <- err }
	go guest.Run()

	hostCh.Close()
	select {
	case err := <-closed:
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("read loop never reported the dead channel")
	}
}

func TestPeerAppliedCallback(t *testing.T) {
	hostCh, guestCh := NewPipe()
	guestStore := board.NewStore()
	guest := NewPeer(guestStore, guestCh)

	applied := make(chan struct{}, 8)
	guest.OnApplied = func() { applied <- struct{}{} }
	go guest.Run()
	defer hostCh.Close()

	require.NoError(t, hostCh.Send(wire.AddElement(testPath("a"))))
	select {
	case <-applied:
	case <-time.After(2 * time.Second):
		t.Fatal("OnApplied never fired")
	}
	assert.Equal(t, 1, guestStore.Len())
}
