package ws

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
)

type stream struct {
	conn   *websocket.Conn
	cancel context.CancelFunc
}

// Manager keeps track of the live notification streams opened by each user.
type Manager struct {
	mu          sync.RWMutex
	connections map[uint]map[*websocket.Conn]stream // userID -> conns
}

func NewManager() *Manager {
	return &Manager{connections: make(map[uint]map[*websocket.Conn]stream)}
}

// Register adds a stream. cancel stops the subscriptions feeding it.
func (m *Manager) Register(userID uint, conn *websocket.Conn, cancel context.CancelFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.connections[userID] == nil {
		m.connections[userID] = make(map[*websocket.Conn]stream)
	}
	m.connections[userID][conn] = stream{conn: conn, cancel: cancel}
}

// Unregister stops and removes one stream.
func (m *Manager) Unregister(userID uint, conn *websocket.Conn) {
	m.mu.Lock()
	s, ok := m.connections[userID][conn]
	if ok {
		delete(m.connections[userID], conn)
		if len(m.connections[userID]) == 0 {
			delete(m.connections, userID)
		}
	}
	m.mu.Unlock()

	if ok {
		s.stop()
	}
}

// CloseUser stops every stream of a user, e.g. on logout, and returns how
// many were open.
func (m *Manager) CloseUser(userID uint) int {
	m.mu.Lock()
	streams := m.connections[userID]
	delete(m.connections, userID)
	m.mu.Unlock()

	for _, s := range streams {
		s.stop()
	}
	return len(streams)
}

// IsConnected returns whether a user has at least one open stream.
func (m *Manager) IsConnected(userID uint) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.connections[userID]) > 0
}

// List returns a copy of the connected user IDs.
func (m *Manager) List() []uint {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]uint, 0, len(m.connections))
	for id := range m.connections {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of open streams.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, conns := range m.connections {
		n += len(conns)
	}
	return n
}

// closing the conn first unblocks a writer stuck on the network
func (s stream) stop() {
	_ = s.conn.Close()
	if s.cancel != nil {
		s.cancel()
	}
}
