// Package presence tracks which users currently hold a live connection.
package presence

import (
	"sync"

	"trade-service/internal/observability"
)

// Conn is a live connection handle that can carry push events.
type Conn interface {
	ID() string
	Send(event string, payload any) error
}

// Registry maps each user to at most one connection. It is indexed both ways so
// Unregister is O(1) and keyed by the connection, never by the user.
type Registry struct {
	mu     sync.RWMutex
	byUser map[string]Conn
	byConn map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byUser: make(map[string]Conn),
		byConn: make(map[string]string),
	}
}

// Register binds userID to conn. The last registration wins: a previous
// connection for the same user is forgotten, so its later Unregister is a no-op.
func (r *Registry) Register(userID string, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	connID := conn.ID()
	if prevUser, ok := r.byConn[connID]; ok && prevUser != userID {
		if cur, ok := r.byUser[prevUser]; ok && cur.ID() == connID {
			delete(r.byUser, prevUser)
		}
	}
	if prev, ok := r.byUser[userID]; ok && prev.ID() != connID {
		delete(r.byConn, prev.ID())
	}
	r.byUser[userID] = conn
	r.byConn[connID] = userID
	observability.SetOnlineUsers(len(r.byUser))
}

// Lookup returns the user's live connection. A miss means "deliver later".
func (r *Registry) Lookup(userID string) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.byUser[userID]
	return conn, ok
}

// Unregister drops the connection. The user's entry is removed only if it
// still points at connID. It reports the user the connection belonged to and
// whether that user went offline.
func (r *Registry) Unregister(connID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.byConn[connID]
	if !ok {
		return "", false
	}
	delete(r.byConn, connID)
	if cur, ok := r.byUser[userID]; ok && cur.ID() == connID {
		delete(r.byUser, userID)
		observability.SetOnlineUsers(len(r.byUser))
		return userID, true
	}
	return userID, false
}

// Online returns the number of users with a live connection.
func (r *Registry) Online() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser)
}
