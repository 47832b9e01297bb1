package session

import (
	"fmt"
	"math/rand"
	"net/url"
	"strings"
)

// RoomPrefix keeps room codes recognizable when read aloud.
const RoomPrefix = "aula-"

// Scheme is the custom URL scheme of share links.
const Scheme = "salinha"

// NewRoomCode mints a short, human-shareable room identifier like
// "aula-1234".
func NewRoomCode() string {
	return fmt.Sprintf("%s%04d", RoomPrefix, rand.Intn(9000)+1000)
}

// ShareLink builds the link a host hands to the guest. The room code
// rides in the "sala" query parameter so the guest client can
// pre-fill the join flow.
func ShareLink(hostAddr, room string) string {
	return fmt.Sprintf("%s://%s/?sala=%s", Scheme, hostAddr, url.QueryEscape(room))
}

// ParseShareLink extracts the host address and room code from a share
// link. A bare room code is returned as-is with an empty address, in
// which case the caller resolves it over discovery.
func ParseShareLink(link string) (hostAddr, room string, err error) {
	if !strings.Contains(link, "://") {
		return "", strings.TrimSpace(link), nil
	}
	u, err := url.Parse(link)
	if err != nil {
		return "", "", fmt.Errorf("invalid share link: %w", err)
	}
	if u.Scheme != Scheme {
		return "", "", fmt.Errorf("invalid share link scheme %q", u.Scheme)
	}
	room = u.Query().Get("sala")
	if room == "" {
		return "", "", fmt.Errorf("share link carries no room code")
	}
	return u.Host, room, nil
}
