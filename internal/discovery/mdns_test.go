package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/hashicorp/mdns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(ip string, port int, info ...string) *mdns.ServiceEntry {
	return &mdns.ServiceEntry{
		AddrV4:     net.ParseIP(ip),
		Port:       port,
		InfoFields: info,
	}
}

func TestMatchRoomCancelsQueryOnFirstHit(t *testing.T) {
	entries := make(chan *mdns.ServiceEntry, 8)
	cancelled := make(chan struct{})
	found := matchRoom(entries, "aula-1234", func() { close(cancelled) })

	entries <- entry("192.168.0.5", 8844, "sala=aula-9999")
	entries <- entry("192.168.0.7", 8844, "sala=aula-1234")

	select {
	case addr := <-found:
		assert.Equal(t, "192.168.0.7:8844", addr)
	case <-time.After(time.Second):
		t.Fatal("matching entry never surfaced")
	}

	// The cancel must fire with the match, not at the query timeout,
	// so the caller's remaining deadline is left for the dial.
	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("query was not cancelled on match")
	}
	close(entries)
}

func TestMatchRoomDrainsAfterMatch(t *testing.T) {
	entries := make(chan *mdns.ServiceEntry)
	found := matchRoom(entries, "aula-1234", func() {})

	entries <- entry("192.168.0.7", 8844, "sala=aula-1234")
	// Unbuffered sends after the match must not block the producer.
	for i := 0; i < 4; i++ {
		select {
		case entries <- entry("192.168.0.9", 8844, "sala=aula-5555"):
		case <-time.After(time.Second):
			t.Fatal("matcher stopped consuming entries after the match")
		}
	}
	close(entries)

	addr, ok := <-found
	require.True(t, ok)
	assert.Equal(t, "192.168.0.7:8844", addr)
}

func TestMatchRoomSkipsIncompleteEntries(t *testing.T) {
	entries := make(chan *mdns.ServiceEntry, 4)
	found := matchRoom(entries, "aula-1234", func() {})

	entries <- &mdns.ServiceEntry{Port: 8844, InfoFields: []string{"sala=aula-1234"}}
	entries <- entry("192.168.0.3", 0, "sala=aula-1234")
	close(entries)

	_, ok := <-found
	assert.False(t, ok, "entries without a usable address never match")
}

func TestMatchRoomNoMatch(t *testing.T) {
	entries := make(chan *mdns.ServiceEntry, 4)
	found := matchRoom(entries, "aula-1234", func() {})

	entries <- entry("192.168.0.5", 8844, "sala=aula-9999")
	close(entries)

	_, ok := <-found
	assert.False(t, ok)
}
