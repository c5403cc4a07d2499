package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"herovault/internal/cache"
	"herovault/internal/model"
	"herovault/internal/repository"

	"github.com/google/uuid"
)

// Gateway is the sync gateway: durable storage plus change notification
// for one PlayerState per identity.
type Gateway struct {
	repo        repository.PlayerRepo
	feed        cache.PlayerFeed
	cache       cache.PlayerCache
	leaderboard cache.LeaderboardCache
	logger      *slog.Logger
	now         func() time.Time
}

// NewGateway creates a gateway over a document store and a change feed
func NewGateway(repo repository.PlayerRepo, feed cache.PlayerFeed, logger *slog.Logger) *Gateway {
	return &Gateway{
		repo:   repo,
		feed:   feed,
		logger: logger,
		now:    time.Now,
	}
}

// SetCache enables the snapshot read cache
func (g *Gateway) SetCache(c cache.PlayerCache) {
	g.cache = c
}

// SetLeaderboard enables leaderboard updates on every save
func (g *Gateway) SetLeaderboard(lb cache.LeaderboardCache) {
	g.leaderboard = lb
}

// Load fetches the stored record for email
func (g *Gateway) Load(ctx context.Context, email string) (*model.PlayerState, error) {
	key := model.NormalizeEmail(email)

	if g.cache != nil {
		p, err := g.cache.Get(ctx, key)
		if err != nil {
			g.logger.Warn("player cache read failed", "player", key, "err", err)
		} else if p != nil {
			if err := checkIdentity(p, email); err != nil {
				return nil, err
			}
			return p, nil
		}
	}

	p, err := g.fetch(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := checkIdentity(p, email); err != nil {
		return nil, err
	}
	g.cacheSet(ctx, p)
	return p, nil
}

// Latest reads the authoritative record from the store, bypassing the cache
func (g *Gateway) Latest(ctx context.Context, email string) (*model.PlayerState, error) {
	p, err := g.fetch(ctx, model.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if err := checkIdentity(p, email); err != nil {
		return nil, err
	}
	return p, nil
}

// CreateIfAbsent returns the stored record for id, creating the default one first
// if none exists. created reports whether this call inserted it.
func (g *Gateway) CreateIfAbsent(ctx context.Context, id model.Identity) (p *model.PlayerState, created bool, err error) {
	if err := id.Validate(); err != nil {
		return nil, false, err
	}

	p, err = g.Load(ctx, id.Email)
	if err == nil {
		return p, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	p = model.NewPlayerState(id.Name, id.Email, g.now())
	if err := g.repo.Insert(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Another writer created it between our read and insert
			p, err := g.Latest(ctx, id.Email)
			return p, false, err
		}
		return nil, false, fmt.Errorf("%w: create player: %v", ErrSyncFailure, err)
	}

	g.logger.Info("player created", "player", p.Key)
	g.afterWrite(ctx, p)
	return p, true, nil
}

// Save persists state, which must be derived from stored version state.Version.
// It returns the stored record with the bumped version.
func (g *Gateway) Save(ctx context.Context, state *model.PlayerState) (*model.PlayerState, error) {
	if state == nil || state.Email == "" {
		return nil, fmt.Errorf("%w: save without identity", ErrSyncFailure)
	}

	expected := state.Version
	next := state.Clone()
	next.Key = model.NormalizeEmail(state.Email)
	next.SchemaVersion = model.SchemaVersion
	next.Version = expected + 1
	next.UpdatedAt = g.now().UTC().Truncate(time.Millisecond)

	if err := g.repo.Replace(ctx, next, expected); err != nil {
		switch {
		case errors.Is(err, repository.ErrVersionConflict):
			return nil, fmt.Errorf("%w: %s at version %d", ErrVersionConflict, next.Key, expected)
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrNotFound
		default:
			return nil, fmt.Errorf("%w: save player: %v", ErrSyncFailure, err)
		}
	}

	g.afterWrite(ctx, next)
	return next, nil
}

// Subscribe calls onChange with every snapshot saved for email, including
// those caused by the subscriber's own writes. Snapshots published before
// Subscribe returns are not replayed.
func (g *Gateway) Subscribe(ctx context.Context, email string, onChange func(*model.PlayerState)) (*Subscription, error) {
	key := model.NormalizeEmail(email)
	feedSub, err := g.feed.Subscribe(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: subscribe: %v", ErrSyncFailure, err)
	}

	sub := &Subscription{ID: uuid.NewString(), Key: key, feed: feedSub}
	go func() {
		for p := range feedSub.C() {
			onChange(p)
		}
	}()
	g.logger.Debug("subscribed", "player", key, "subscription", sub.ID)
	return sub, nil
}

// Delete removes the player record and its derived cache entries
func (g *Gateway) Delete(ctx context.Context, email string) error {
	key := model.NormalizeEmail(email)
	if err := g.repo.Delete(ctx, key); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: delete player: %v", ErrSyncFailure, err)
	}
	if g.cache != nil {
		if err := g.cache.Delete(ctx, key); err != nil {
			g.logger.Warn("player cache delete failed", "player", key, "err", err)
		}
	}
	if g.leaderboard != nil {
		if err := g.leaderboard.Remove(ctx, key); err != nil {
			g.logger.Warn("leaderboard remove failed", "player", key, "err", err)
		}
	}
	g.logger.Info("player deleted", "player", key)
	return nil
}

// Leaderboard returns the top players by total progress
func (g *Gateway) Leaderboard(ctx context.Context, limit int) ([]cache.LeaderboardEntry, error) {
	if g.leaderboard == nil {
		return []cache.LeaderboardEntry{}, nil
	}
	entries, err := g.leaderboard.GetTop(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: leaderboard: %v", ErrSyncFailure, err)
	}
	return entries, nil
}

// Rank returns the 1-based leaderboard position for email, or -1 when unranked
func (g *Gateway) Rank(ctx context.Context, email string) (int64, error) {
	if g.leaderboard == nil {
		return -1, nil
	}
	rank, err := g.leaderboard.GetRank(ctx, model.NormalizeEmail(email))
	if err != nil {
		return -1, fmt.Errorf("%w: rank: %v", ErrSyncFailure, err)
	}
	return rank, nil
}

func (g *Gateway) fetch(ctx context.Context, key string) (*model.PlayerState, error) {
	p, err := g.repo.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: load player: %v", ErrSyncFailure, err)
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

// afterWrite refreshes derived state. Failures here are logged, not returned:
// the document store already holds the write.
func (g *Gateway) afterWrite(ctx context.Context, p *model.PlayerState) {
	g.cacheSet(ctx, p)
	if g.leaderboard != nil {
		if err := g.leaderboard.UpdateScore(ctx, p.Key, p.Name, p.TotalProgressPoints); err != nil {
			g.logger.Warn("leaderboard update failed", "player", p.Key, "err", err)
		}
	}
	if err := g.feed.Publish(ctx, p); err != nil {
		g.logger.Warn("snapshot publish failed", "player", p.Key, "version", p.Version, "err", err)
	}
}

func (g *Gateway) cacheSet(ctx context.Context, p *model.PlayerState) {
	if g.cache == nil {
		return
	}
	if _, err := g.cache.Set(ctx, p); err != nil {
		g.logger.Warn("player cache write failed", "player", p.Key, "err", err)
	}
}

// checkIdentity rejects records that share a normalized key with a different email
func checkIdentity(p *model.PlayerState, email string) error {
	if p.Email != email {
		return fmt.Errorf("%w: %q", ErrIdentityCollision, email)
	}
	return nil
}

// Subscription is a live registration for one player's snapshots
type Subscription struct {
	ID   string
	Key  string
	feed cache.FeedSubscription
}

// Close stops delivery. Snapshots already handed to the callback still run.
func (s *Subscription) Close() error {
	return s.feed.Close()
}
