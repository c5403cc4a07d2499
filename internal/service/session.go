package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"herovault/internal/game"
	"herovault/internal/model"
)

// SaveStatus mirrors the "saving" indicator shown to the player
type SaveStatus string

const (
	SaveIdle   SaveStatus = "idle"
	SaveSaving SaveStatus = "saving"
	SaveSaved  SaveStatus = "saved"
	SaveFailed SaveStatus = "failed"
)

// maxRebase bounds how often a dispatch is re-applied on a newer remote record
const maxRebase = 3

// Session binds one identity to its live PlayerState.
// It starts Unbound; Bind or Resume moves it to Bound.
type Session struct {
	gw     *Gateway
	logger *slog.Logger
	now    func() time.Time

	// dispatchMu keeps at most one save in flight
	dispatchMu sync.Mutex

	mu       sync.Mutex
	email    string
	state    *model.PlayerState
	status   SaveStatus
	sub      *Subscription
	onChange func(*model.PlayerState)
}

// NewSession creates an unbound session
func NewSession(gw *Gateway, logger *slog.Logger) *Session {
	return &Session{
		gw:     gw,
		logger: logger,
		now:    time.Now,
		status: SaveIdle,
	}
}

// OnChange registers the listener that receives every new local state.
// It must be set before Bind and must not block.
func (s *Session) OnChange(fn func(*model.PlayerState)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Bind creates the player if absent, loads it and subscribes to remote changes.
// On failure the session stays unbound.
func (s *Session) Bind(ctx context.Context, id model.Identity) (*model.PlayerState, error) {
	if s.Bound() {
		return nil, ErrAlreadyBound
	}
	p, created, err := s.gw.CreateIfAbsent(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attach(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("session bound", "player", p.Key, "created", created)
	return p.Clone(), nil
}

// Resume binds to an existing player without creating one
func (s *Session) Resume(ctx context.Context, email string) (*model.PlayerState, error) {
	if s.Bound() {
		return nil, ErrAlreadyBound
	}
	p, err := s.gw.Load(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := s.attach(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("session resumed", "player", p.Key)
	return p.Clone(), nil
}

func (s *Session) attach(ctx context.Context, p *model.PlayerState) error {
	sub, err := s.gw.Subscribe(ctx, p.Email, s.receive)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.email = p.Email
	s.sub = sub
	// a snapshot may have landed between the load and the subscribe
	if s.state == nil || p.Version > s.state.Version {
		s.state = p
	}
	s.mu.Unlock()
	s.notify(p)
	return nil
}

// Bound reports whether a player is loaded and subscribed
func (s *Session) Bound() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sub != nil
}

// State returns a copy of the current local state, or nil when unbound
func (s *Session) State() *model.PlayerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// SaveStatus reports the outcome of the most recent save
func (s *Session) SaveStatus() SaveStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Dispatch applies a locally, then saves. Validation errors leave the state
// untouched. On a version conflict the action is re-applied to the newest
// remote record. On any other sync failure the optimistic state is kept,
// the status turns failed and an error wrapping ErrSyncFailure is returned.
func (s *Session) Dispatch(ctx context.Context, a game.Action) (*model.PlayerState, error) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	base, email := s.state, s.email
	s.mu.Unlock()
	if base == nil {
		return nil, ErrUnbound
	}

	next, err := game.Apply(base, a, s.now())
	if err != nil {
		return nil, err
	}
	s.setLocal(next, SaveSaving)

	for attempt := 1; ; attempt++ {
		saved, err := s.gw.Save(ctx, next)
		if err == nil {
			s.mu.Lock()
			if s.state == next || (s.state != nil && s.state.Version < saved.Version) {
				s.state = saved
			}
			s.status = SaveSaved
			s.mu.Unlock()
			s.notify(saved)
			return saved.Clone(), nil
		}

		if !errors.Is(err, ErrVersionConflict) || attempt > maxRebase {
			s.mu.Lock()
			s.status = SaveFailed
			s.mu.Unlock()
			s.logger.Warn("save failed", "player", next.Key, "action", a.Kind(), "attempt", attempt, "err", err)
			if errors.Is(err, ErrSyncFailure) || errors.Is(err, ErrNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", ErrSyncFailure, err)
		}

		latest, lerr := s.gw.Latest(ctx, email)
		if lerr != nil {
			s.mu.Lock()
			s.status = SaveFailed
			s.mu.Unlock()
			return nil, lerr
		}
		rebased, aerr := game.Apply(latest, a, s.now())
		if aerr != nil {
			// The action no longer holds on the newer record: adopt it and report
			s.setLocal(latest, SaveIdle)
			return nil, aerr
		}
		s.logger.Debug("rebased action", "player", latest.Key, "action", a.Kind(), "version", latest.Version)
		next = rebased
		s.setLocal(next, SaveSaving)
	}
}

// Close releases the subscription and returns the session to Unbound
func (s *Session) Close() error {
	s.mu.Lock()
	sub := s.sub
	s.sub = nil
	s.state = nil
	s.email = ""
	s.status = SaveIdle
	s.mu.Unlock()

	if sub == nil {
		return nil
	}
	return sub.Close()
}

// receive handles a remote snapshot. Only strictly newer versions replace the
// local state, so an old push cannot undo a save that already landed.
func (s *Session) receive(p *model.PlayerState) {
	s.mu.Lock()
	if s.sub == nil || s.state == nil || p.Version <= s.state.Version {
		s.mu.Unlock()
		return
	}
	s.state = p
	s.mu.Unlock()
	s.notify(p)
}

func (s *Session) setLocal(p *model.PlayerState, status SaveStatus) {
	s.mu.Lock()
	s.state = p
	s.status = status
	s.mu.Unlock()
	s.notify(p)
}

func (s *Session) notify(p *model.PlayerState) {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn(p.Clone())
	}
}
