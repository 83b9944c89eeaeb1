package sync

import (
	"encoding/json"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	transportTCP = "tcp"
	transportWS  = "websocket"

	writeTimeout = 2 * time.Second
)

// Hub fans watch events out to every connected sync client, over raw TCP
// lines or WebSocket text frames.
type Hub struct {
	mu  sync.Mutex
	tcp map[net.Conn]struct{}
	ws  map[*websocket.Conn]struct{}
}

type Stats struct {
	TCPClients int `json:"tcp_clients"`
	WSClients  int `json:"ws_clients"`
}

func NewHub() *Hub {
	return &Hub{
		tcp: make(map[net.Conn]struct{}),
		ws:  make(map[*websocket.Conn]struct{}),
	}
}

func (h *Hub) Add(conn net.Conn) {
	h.mu.Lock()
	h.tcp[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Remove(conn net.Conn) {
	h.mu.Lock()
	delete(h.tcp, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

func (h *Hub) AddWS(ws *websocket.Conn) {
	h.mu.Lock()
	h.ws[ws] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) RemoveWS(ws *websocket.Conn) {
	h.mu.Lock()
	delete(h.ws, ws)
	h.mu.Unlock()
	_ = ws.Close()
}

// BroadcastJSON writes v as one JSON line to every client. Clients that
// fail a write are dropped.
func (h *Hub) BroadcastJSON(v any) {
	line, err := encodeLine(v)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.tcp {
		if err := writeTCP(c, line); err != nil {
			_ = c.Close()
			delete(h.tcp, c)
		}
	}
	for ws := range h.ws {
		if err := writeWS(ws, line); err != nil {
			_ = ws.Close()
			delete(h.ws, ws)
		}
	}
}

// Count reports TCP clients only.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.tcp)
}

func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{TCPClients: len(h.tcp), WSClients: len(h.ws)}
}

// Welcome greets a freshly registered TCP client.
func (h *Hub) Welcome(conn net.Conn) error {
	line, err := encodeLine(h.welcome(transportTCP))
	if err != nil {
		return err
	}
	return writeTCP(conn, line)
}

// WelcomeWS greets a freshly registered WebSocket client.
func (h *Hub) WelcomeWS(ws *websocket.Conn) error {
	line, err := encodeLine(h.welcome(transportWS))
	if err != nil {
		return err
	}
	return writeWS(ws, line)
}

func (h *Hub) welcome(transport string) WelcomeEvent {
	st := h.Stats()
	return WelcomeEvent{Type: EventWelcome, Transport: transport, Clients: st.TCPClients + st.WSClients}
}

func encodeLine(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func writeTCP(c net.Conn, line []byte) error {
	_ = c.SetWriteDeadline(time.Now().Add(writeTimeout))
	_, err := c.Write(line)
	return err
}

func writeWS(ws *websocket.Conn, line []byte) error {
	_ = ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return ws.WriteMessage(websocket.TextMessage, line)
}
