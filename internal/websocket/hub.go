package websocket

import (
	"sync"

	"github.com/dom/diary-service/internal/logger"
	"github.com/google/uuid"
)

// Hub tracks open connections per user and fans server messages out to them.
// A user may hold several connections (tabs, devices).
type Hub struct {
	clients    map[uuid.UUID]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	deliver    chan *delivery
	stop       chan struct{}
	done       chan struct{} // closed when Run() exits
	running    bool
	stopped    bool
	mu         sync.RWMutex
}

type delivery struct {
	userID uuid.UUID
	data   []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliver:    make(chan *delivery, 64),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Run processes hub events until Stop is called. It returns immediately if
// the hub is already running or stopped.
func (h *Hub) Run() {
	h.mu.Lock()
	if h.running || h.stopped {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.mu.Unlock()
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for _, conns := range h.clients {
				for client := range conns {
					client.Close()
				}
			}
			h.clients = make(map[uuid.UUID]map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			conns, ok := h.clients[client.userID]
			if !ok {
				conns = make(map[*Client]bool)
				h.clients[client.userID] = conns
			}
			conns[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(client)
			h.mu.Unlock()

		case d := <-h.deliver:
			h.mu.Lock()
			for client := range h.clients[d.userID] {
				if !client.trySend(d.data) {
					logger.Warn("websocket client send buffer full, dropping connection", logger.Fields{
						"user_id": d.userID.String(),
					})
					h.removeLocked(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) removeLocked(client *Client) {
	conns, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := conns[client]; !ok {
		return
	}
	delete(conns, client)
	client.Close()
	if len(conns) == 0 {
		delete(h.clients, client.userID)
	}
}

// Stop closes every connection and blocks until Run has returned. A hub that
// was never run is marked done straight away.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.stopped = true
	running := h.running
	h.mu.Unlock()

	close(h.stop)
	if !running {
		close(h.done)
		return
	}
	<-h.done
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.Close()
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// SendToUser queues msg for every connection the user has open. Messages for
// users with no connection are discarded.
func (h *Hub) SendToUser(userID uuid.UUID, msg *Message) error {
	data, err := msg.Marshal()
	if err != nil {
		return err
	}
	select {
	case h.deliver <- &delivery{userID: userID, data: data}:
	case <-h.done:
	}
	return nil
}

// ConnectionCount reports how many connections the user has open.
func (h *Hub) ConnectionCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
