package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"herovault/internal/model"

	"github.com/redis/go-redis/v9"
)

// subscriptionBuffer is how many snapshots a slow subscriber may lag behind
const subscriptionBuffer = 16

// PlayerFeed fans out full player snapshots after each successful save
type PlayerFeed interface {
	Publish(ctx context.Context, player *model.PlayerState) error
	Subscribe(ctx context.Context, key string) (FeedSubscription, error)
}

// FeedSubscription delivers snapshots for one player until closed
type FeedSubscription interface {
	C() <-chan *model.PlayerState
	Close() error
}

type redisFeed struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisFeed creates a feed over Redis pub/sub, shared by every server instance
func NewRedisFeed(client *redis.Client, logger *slog.Logger) PlayerFeed {
	return &redisFeed{client: client, logger: logger}
}

func feedChannel(key string) string {
	return fmt.Sprintf("player:%s:changes", key)
}

func (f *redisFeed) Publish(ctx context.Context, player *model.PlayerState) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}
	return f.client.Publish(ctx, feedChannel(player.Key), data).Err()
}

func (f *redisFeed) Subscribe(ctx context.Context, key string) (FeedSubscription, error) {
	ps := f.client.Subscribe(ctx, feedChannel(key))
	// Wait for the subscription confirmation so no publish after this call is missed
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe %s: %w", key, err)
	}

	sub := &redisSubscription{
		ps:     ps,
		out:    make(chan *model.PlayerState, subscriptionBuffer),
		done:   make(chan struct{}),
		logger: f.logger,
	}
	go sub.run()
	return sub, nil
}

type redisSubscription struct {
	ps     *redis.PubSub
	out    chan *model.PlayerState
	done   chan struct{}
	once   sync.Once
	logger *slog.Logger
}

func (s *redisSubscription) run() {
	defer close(s.out)
	for msg := range s.ps.Channel() {
		var player model.PlayerState
		if err := json.Unmarshal([]byte(msg.Payload), &player); err != nil {
			s.logger.Warn("dropping undecodable snapshot", "channel", msg.Channel, "err", err)
			continue
		}
		select {
		case s.out <- &player:
		case <-s.done:
			return
		}
	}
}

func (s *redisSubscription) C() <-chan *model.PlayerState { return s.out }

func (s *redisSubscription) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.ps.Close()
	})
	return err
}

// LocalFeed is an in-process PlayerFeed for single-node deployments and the CLI
type LocalFeed struct {
	mu   sync.Mutex
	subs map[string]map[*localSubscription]struct{}
}

// NewLocalFeed creates an empty in-process feed
func NewLocalFeed() *LocalFeed {
	return &LocalFeed{subs: make(map[string]map[*localSubscription]struct{})}
}

func (f *LocalFeed) Publish(_ context.Context, player *model.PlayerState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for sub := range f.subs[player.Key] {
		select {
		case sub.out <- player.Clone():
		default:
			// Drop if the subscriber is not keeping up
		}
	}
	return nil
}

func (f *LocalFeed) Subscribe(_ context.Context, key string) (FeedSubscription, error) {
	sub := &localSubscription{feed: f, key: key, out: make(chan *model.PlayerState, subscriptionBuffer)}
	f.mu.Lock()
	if f.subs[key] == nil {
		f.subs[key] = make(map[*localSubscription]struct{})
	}
	f.subs[key][sub] = struct{}{}
	f.mu.Unlock()
	return sub, nil
}

type localSubscription struct {
	feed *LocalFeed
	key  string
	out  chan *model.PlayerState
	once sync.Once
}

func (s *localSubscription) C() <-chan *model.PlayerState { return s.out }

func (s *localSubscription) Close() error {
	s.once.Do(func() {
		s.feed.mu.Lock()
		delete(s.feed.subs[s.key], s)
		if len(s.feed.subs[s.key]) == 0 {
			delete(s.feed.subs, s.key)
		}
		close(s.out)
		s.feed.mu.Unlock()
	})
	return nil
}
