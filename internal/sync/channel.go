// Package sync owns the data channel between the two peers: the
// channel abstraction, its websocket implementation, and the peer
// link that translates store mutations to and from wire messages.
package sync

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	gosync "sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/wire"
)

// Channel is a reliable, ordered, bidirectional message pipe between
// exactly two endpoints. Receive blocks until a message arrives or
// the channel dies.
type Channel interface {
	Send(m wire.Message) error
	Receive() (wire.Message, error)
	Close() error
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsChannel adapts a websocket connection. Writes are serialized;
// gorilla connections allow only one concurrent writer.
type wsChannel struct {
	conn    *websocket.Conn
	writeMu gosync.Mutex
}

func (c *wsChannel) Send(m wire.Message) error {
	data, err := wire.Encode(m)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *wsChannel) Receive() (wire.Message, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return wire.Message{}, err
	}
	return wire.Decode(data)
}

func (c *wsChannel) Close() error {
	return c.conn.Close()
}

// Listener is the host side of the data channel. It serves a single
// websocket endpoint and hands over exactly one accepted connection;
// later connection attempts are turned away, the board only ever has
// two participants.
type Listener struct {
	room     string
	srv      *http.Server
	ln       net.Listener
	accepted chan *websocket.Conn
	once     gosync.Once
}

// NewListener starts listening on the given port for a guest joining
// the given room code.
func NewListener(port int, room string) (*Listener, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen on port %d: %w", port, err)
	}

	l := &Listener{
		room:     room,
		ln:       ln,
		accepted: make(chan *websocket.Conn, 1),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", l.handleJoin)
	l.srv = &http.Server{Handler: mux}
	go func() {
		if err := l.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("[sync] data channel server stopped: %v", err)
		}
	}()
	return l, nil
}

func (l *Listener) handleJoin(w http.ResponseWriter, r *http.Request) {
	if sala := r.URL.Query().Get("sala"); sala != l.room {
		log.Printf("[sync] rejected join for unknown room %q", sala)
		http.Error(w, "sala desconhecida", http.StatusNotFound)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[sync] upgrade failed: %v", err)
		return
	}
	select {
	case l.accepted <- conn:
	default:
		log.Printf("[sync] room %s is full, closing extra connection", l.room)
		conn.Close()
	}
}

// Accept waits for the one guest connection.
func (l *Listener) Accept(ctx context.Context) (Channel, error) {
	select {
	case conn := <-l.accepted:
		return &wsChannel{conn: conn}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Addr returns the bound address, useful when port 0 was requested.
func (l *Listener) Addr() string {
	return l.ln.Addr().String()
}

// Close tears the endpoint down.
func (l *Listener) Close() error {
	var err error
	l.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		err = l.srv.Shutdown(ctx)
	})
	return err
}

// Dial opens the guest side of the data channel.
func Dial(ctx context.Context, host string, room string) (Channel, error) {
	url := fmt.Sprintf("ws://%s/ws?sala=%s", host, room)
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("sala %q não está aberta: %w", room, err)
		}
		return nil, fmt.Errorf("failed to reach host %s: %w", host, err)
	}
	return &wsChannel{conn: conn}, nil
}
