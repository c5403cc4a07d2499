package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"herovault/internal/game"
	"herovault/internal/model"
)

// Presence reports how many live connections a player has
type Presence interface {
	Connections(playerKey string) int
}

type managedSession struct {
	s        *Session
	lastUsed time.Time
}

// SessionManager keeps one bound Session per player for the server process
type SessionManager struct {
	gw          *Gateway
	logger      *slog.Logger
	broadcaster Broadcaster
	presence    Presence
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*managedSession
}

// NewSessionManager creates a new session manager
func NewSessionManager(gw *Gateway, logger *slog.Logger) *SessionManager {
	return &SessionManager{
		gw:       gw,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*managedSession),
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (m *SessionManager) SetBroadcaster(b Broadcaster) {
	m.broadcaster = b
}

// SetPresence lets EvictIdle keep sessions that still have live connections
func (m *SessionManager) SetPresence(p Presence) {
	m.presence = p
}

// lookup returns the bound session for key and marks it used. Caller holds m.mu.
func (m *SessionManager) lookup(key string) *Session {
	ms, ok := m.sessions[key]
	if !ok {
		return nil
	}
	ms.lastUsed = m.now()
	return ms.s
}

// adopt stores s under key unless another caller bound the player first,
// in which case s is closed and the existing session wins.
func (m *SessionManager) adopt(key string, s *Session) *Session {
	m.mu.Lock()
	if existing := m.lookup(key); existing != nil {
		m.mu.Unlock()
		if err := s.Close(); err != nil {
			m.logger.Warn("session close failed", "player", key, "err", err)
		}
		return existing
	}
	m.sessions[key] = &managedSession{s: s, lastUsed: m.now()}
	m.mu.Unlock()
	return s
}

func checkOwner(s *Session, email string) error {
	if st := s.State(); st != nil && st.Email != email {
		return fmt.Errorf("%w: %q", ErrIdentityCollision, email)
	}
	return nil
}

// Bind starts (or rejoins) the adventure for id.
// Store I/O runs without m.mu so a slow player never blocks the others.
func (m *SessionManager) Bind(ctx context.Context, id model.Identity) (*Session, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	key := id.Key()

	m.mu.Lock()
	existing := m.lookup(key)
	m.mu.Unlock()
	if existing != nil {
		if err := checkOwner(existing, id.Email); err != nil {
			return nil, err
		}
		return existing, nil
	}

	s := m.newSession()
	if _, err := s.Bind(ctx, id); err != nil {
		return nil, err
	}
	got := m.adopt(key, s)
	if err := checkOwner(got, id.Email); err != nil {
		return nil, err
	}
	return got, nil
}

// Session returns the bound session for a token's identity, resuming it
// from the store when this process has not seen it yet.
func (m *SessionManager) Session(ctx context.Context, key, email string) (*Session, error) {
	m.mu.Lock()
	existing := m.lookup(key)
	m.mu.Unlock()
	if existing != nil {
		return existing, nil
	}
	if model.NormalizeEmail(email) != key {
		return nil, fmt.Errorf("%w: %q", ErrIdentityCollision, email)
	}

	s := m.newSession()
	if _, err := s.Resume(ctx, email); err != nil {
		return nil, err
	}
	return m.adopt(key, s), nil
}

// Dispatch routes a to the player's session
func (m *SessionManager) Dispatch(ctx context.Context, key, email string, a game.Action) (*Session, *model.PlayerState, error) {
	s, err := m.Session(ctx, key, email)
	if err != nil {
		return nil, nil, err
	}
	p, err := s.Dispatch(ctx, a)
	return s, p, err
}

// View projects the session's current state for the presentation layer
func (m *SessionManager) View(s *Session) (*model.PlayerView, error) {
	st := s.State()
	if st == nil {
		return nil, ErrUnbound
	}
	v, err := game.View(st)
	if err != nil {
		return nil, err
	}
	v.SaveStatus = string(s.SaveStatus())
	return v, nil
}

// Remove signs the player out of this process
func (m *SessionManager) Remove(key string) {
	m.mu.Lock()
	ms, ok := m.sessions[key]
	delete(m.sessions, key)
	m.mu.Unlock()

	if !ok {
		return
	}
	if err := ms.s.Close(); err != nil {
		m.logger.Warn("session close failed", "player", key, "err", err)
	}
}

// Delete removes the player record and tears down any live session
func (m *SessionManager) Delete(ctx context.Context, email string) error {
	key := model.NormalizeEmail(email)
	if err := m.gw.Delete(ctx, email); err != nil {
		return err
	}
	m.Remove(key)
	if m.broadcaster != nil {
		m.broadcaster.BroadcastToPlayer(key, MsgPlayerDeleted, map[string]string{"playerKey": key})
		m.broadcaster.DisconnectPlayer(key)
	}
	return nil
}

// Active returns how many sessions are bound
func (m *SessionManager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close unbinds every session
func (m *SessionManager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*managedSession)
	m.mu.Unlock()

	for key, ms := range sessions {
		if err := ms.s.Close(); err != nil {
			m.logger.Warn("session close failed", "player", key, "err", err)
		}
	}
}

// EvictIdle closes sessions unused for longer than idle that have no live
// connections, releasing their feed subscriptions. It returns how many were closed.
func (m *SessionManager) EvictIdle(idle time.Duration) int {
	cutoff := m.now().Add(-idle)
	evicted := make(map[string]*Session)

	m.mu.Lock()
	for key, ms := range m.sessions {
		if ms.lastUsed.After(cutoff) {
			continue
		}
		if m.presence != nil && m.presence.Connections(key) > 0 {
			continue
		}
		evicted[key] = ms.s
		delete(m.sessions, key)
	}
	m.mu.Unlock()

	for key, s := range evicted {
		if err := s.Close(); err != nil {
			m.logger.Warn("session close failed", "player", key, "err", err)
		}
	}
	if len(evicted) > 0 {
		m.logger.Info("evicted idle sessions", "count", len(evicted))
	}
	return len(evicted)
}

// RunJanitor calls EvictIdle every interval until ctx is done
func (m *SessionManager) RunJanitor(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.EvictIdle(idle)
		}
	}
}

func (m *SessionManager) newSession() *Session {
	s := NewSession(m.gw, m.logger)
	s.OnChange(func(p *model.PlayerState) {
		if m.broadcaster == nil {
			return
		}
		v, err := game.View(p)
		if err != nil {
			m.logger.Warn("snapshot view failed", "player", p.Key, "err", err)
			return
		}
		v.SaveStatus = string(s.SaveStatus())
		m.broadcaster.BroadcastToPlayer(p.Key, MsgPlayerSnapshot, v)
	})
	return s
}
