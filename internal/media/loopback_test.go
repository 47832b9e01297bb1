package media

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopbackCallExchangesStreams(t *testing.T) {
	a, b := NewLoopbackPair()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var answeredWith Stream
	b.OnIncoming(func(call Call) {
		local, err := b.AcquireLocal(ctx)
		require.NoError(t, err)
		answeredWith = local
		_, err = call.Answer(local)
		require.NoError(t, err)
	})

	callerLocal, err := a.AcquireLocal(ctx)
	require.NoError(t, err)
	remote, err := a.Call(ctx, callerLocal)
	require.NoError(t, err)

	assert.Equal(t, answeredWith.ID(), remote.ID(), "the caller receives the answerer's stream")
	assert.NotEqual(t, callerLocal.ID(), remote.ID())
}

func TestLoopbackCallWithoutHandlerFails(t *testing.T) {
	a, _ := NewLoopbackPair()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	local, err := a.AcquireLocal(ctx)
	require.NoError(t, err)
	_, err = a.Call(ctx, local)
	assert.ErrorIs(t, err, ErrNoDevices)
}

func TestStreamStopIsIdempotent(t *testing.T) {
	a, _ := NewLoopbackPair()
	s, err := a.AcquireLocal(context.Background())
	require.NoError(t, err)

	s.Stop()
	s.Stop()
	assert.True(t, s.(*loopStream).Stopped())
}
