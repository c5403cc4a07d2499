package cache

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const (
	leaderboardKey      = "leaderboard:progress"
	leaderboardNamesKey = "leaderboard:names"
)

// LeaderboardCache handles Redis ZSET operations for the global progress leaderboard
type LeaderboardCache interface {
	UpdateScore(ctx context.Context, playerKey, name string, score int64) error
	GetTop(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	GetRank(ctx context.Context, playerKey string) (int64, error)
	Remove(ctx context.Context, playerKey string) error
}

// LeaderboardEntry represents a single leaderboard entry
type LeaderboardEntry struct {
	PlayerKey string `json:"playerKey"`
	Name      string `json:"name"`
	Score     int64  `json:"score"`
	Rank      int    `json:"rank"`
}

type leaderboardCache struct {
	client *redis.Client
}

// NewLeaderboardCache creates a new leaderboard cache
func NewLeaderboardCache(client *redis.Client) LeaderboardCache {
	return &leaderboardCache{
		client: client,
	}
}

func (c *leaderboardCache) UpdateScore(ctx context.Context, playerKey, name string, score int64) error {
	pipe := c.client.TxPipeline()
	pipe.ZAdd(ctx, leaderboardKey, redis.Z{
		Score:  float64(score),
		Member: playerKey,
	})
	pipe.HSet(ctx, leaderboardNamesKey, playerKey, name)
	_, err := pipe.Exec(ctx)
	return err
}

func (c *leaderboardCache) GetTop(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	results, err := c.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return []LeaderboardEntry{}, nil
	}

	keys := make([]string, len(results))
	for i, z := range results {
		keys[i] = z.Member.(string)
	}
	names, err := c.client.HMGet(ctx, leaderboardNamesKey, keys...).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(results))
	for i, z := range results {
		name, _ := names[i].(string)
		entries[i] = LeaderboardEntry{
			PlayerKey: keys[i],
			Name:      name,
			Score:     int64(z.Score),
			Rank:      i + 1,
		}
	}
	return entries, nil
}

func (c *leaderboardCache) GetRank(ctx context.Context, playerKey string) (int64, error) {
	rank, err := c.client.ZRevRank(ctx, leaderboardKey, playerKey).Result()
	if errors.Is(err, redis.Nil) {
		return -1, nil
	}
	if err != nil {
		return -1, err
	}
	return rank + 1, nil // 1-indexed
}

func (c *leaderboardCache) Remove(ctx context.Context, playerKey string) error {
	pipe := c.client.TxPipeline()
	pipe.ZRem(ctx, leaderboardKey, playerKey)
	pipe.HDel(ctx, leaderboardNamesKey, playerKey)
	_, err := pipe.Exec(ctx)
	return err
}
