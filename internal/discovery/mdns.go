// Package discovery brokers room codes on the local network. The
// host advertises its room as an mDNS service instance; a guest
// resolves the code it was given into the host's address without any
// central relay.
package discovery

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/mdns"
)

const serviceType = "_salinha._tcp"

// Advertise publishes the room code and data port. The returned
// server must be shut down when the session ends.
func Advertise(room string, port int) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	service, err := mdns.NewMDNSService(
		host,
		serviceType,
		"",
		"",
		port,
		nil,
		[]string{"sala=" + room},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	return server, nil
}

// Resolve browses for the host advertising the given room code and
// returns its "ip:port" address. The query is cancelled the moment a
// match arrives; mdns.Query otherwise blocks for its full timeout even
// after a hit, which would leave the caller no deadline budget for the
// dial that follows.
func Resolve(room string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	entries := make(chan *mdns.ServiceEntry, 8)
	found := matchRoom(entries, room, cancel)

	params := mdns.DefaultParams(serviceType)
	params.Entries = entries
	params.Timeout = timeout
	queryErr := mdns.QueryContext(ctx, params)
	close(entries)

	if addr, ok := <-found; ok {
		return addr, nil
	}
	if queryErr != nil && ctx.Err() == nil {
		return "", fmt.Errorf("mDNS lookup failed: %w", queryErr)
	}
	return "", fmt.Errorf("sala %q not found on this network", room)
}

// matchRoom scans service entries for the wanted room and delivers the
// first matching address, calling cancel so the underlying query stops
// early. It keeps draining entries after a match; the query may still
// be flushing responses while it winds down. The returned channel
// closes once the entry stream ends.
func matchRoom(entries <-chan *mdns.ServiceEntry, room string, cancel context.CancelFunc) <-chan string {
	found := make(chan string, 1)
	go func() {
		defer close(found)
		want := "sala=" + room
		matched := false
		for e := range entries {
			if matched || e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			for _, info := range e.InfoFields {
				if info == want {
					found <- fmt.Sprintf("%s:%d", e.AddrV4.String(), e.Port)
					cancel()
					matched = true
					break
				}
			}
		}
	}()
	return found
}
