// Package wspeer attaches widgets over websockets.
//
// A widget connects to the Hub with the element name in the "element" query parameter.
// The Hub then exposes it as a Peer, an element.Element whose property reads, writes and
// function calls are JSON frames (see Frame) correlated by request ID.
//
// Serve implements the widget side of the protocol on top of any element.Element.
package wspeer

import (
	"net/http"
	"sync"

	"github.com/anoideaopen/litbridge/core/logger"
	"github.com/anoideaopen/litbridge/core/metrics"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// QueryElement is the query parameter naming the attaching element.
const QueryElement = "element"

// Hub accepts widget connections.
type Hub struct {
	upgrader websocket.Upgrader
	log      logrus.FieldLogger
	metrics  *metrics.Collector

	onAttach func(*Peer)
	onDetach func(*Peer)

	mu    sync.RWMutex
	peers map[string]*Peer
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithHubLogger sets the logger of the hub.
func WithHubLogger(log logrus.FieldLogger) HubOption {
	return func(h *Hub) { h.log = log }
}

// WithHubMetrics records connected widgets.
func WithHubMetrics(c *metrics.Collector) HubOption {
	return func(h *Hub) { h.metrics = c }
}

// WithCheckOrigin sets the origin check of the websocket handshake.
func WithCheckOrigin(check func(r *http.Request) bool) HubOption {
	return func(h *Hub) { h.upgrader.CheckOrigin = check }
}

// OnAttach registers callbacks run when a widget attaches and when it goes away.
func OnAttach(attach, detach func(*Peer)) HubOption {
	return func(h *Hub) {
		h.onAttach = attach
		h.onDetach = detach
	}
}

// NewHub returns a hub without peers.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		peers: make(map[string]*Peer),
	}
	for _, opt := range opts {
		opt(h)
	}

	if h.log == nil {
		h.log = logger.Logger()
	}

	return h
}

// ServeHTTP upgrades the request and serves the widget until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get(QueryElement)
	if name == "" {
		http.Error(w, "element name is required", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	p := newPeer(name, conn, h.log)
	h.attach(p)
	defer h.detach(p)

	p.readLoop()
}

// Peer returns the widget attached as name.
func (h *Hub) Peer(name string) (*Peer, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	p, ok := h.peers[name]
	return p, ok
}

// Close disconnects all widgets.
func (h *Hub) Close() {
	h.mu.RLock()
	peers := make([]*Peer, 0, len(h.peers))
	for _, p := range h.peers {
		peers = append(peers, p)
	}
	h.mu.RUnlock()

	for _, p := range peers {
		_ = p.Close()
	}
}

func (h *Hub) attach(p *Peer) {
	h.mu.Lock()
	old, replaced := h.peers[p.Name()]
	h.peers[p.Name()] = p
	h.mu.Unlock()

	if replaced {
		_ = old.Close()
	}

	h.metrics.PeerConnected(1)
	h.log.WithField("element", p.Name()).Info("widget attached")

	if h.onAttach != nil {
		h.onAttach(p)
	}
}

func (h *Hub) detach(p *Peer) {
	_ = p.Close()

	h.mu.Lock()
	current := h.peers[p.Name()] == p
	if current {
		delete(h.peers, p.Name())
	}
	h.mu.Unlock()

	h.metrics.PeerConnected(-1)
	h.log.WithField("element", p.Name()).Info("widget detached")

	if current && h.onDetach != nil {
		h.onDetach(p)
	}
}
