package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"herovault/internal/model"

	"github.com/redis/go-redis/v9"
)

// PlayerCache holds the latest saved snapshot of each player
type PlayerCache interface {
	Get(ctx context.Context, key string) (*model.PlayerState, error)
	// Set stores player unless the cache already holds the same or a newer version
	Set(ctx context.Context, player *model.PlayerState) (bool, error)
	Delete(ctx context.Context, key string) error
}

type playerCache struct {
	client *redis.Client
	ttl    time.Duration
}

// setIfNewer keeps concurrent writers from regressing the cached version.
// KEYS[1] = hash key, ARGV = version, doc, ttl in ms
var setIfNewer = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], 'version')
if cur and tonumber(cur) >= tonumber(ARGV[1]) then
	return 0
end
redis.call('HSET', KEYS[1], 'version', ARGV[1], 'doc', ARGV[2])
redis.call('PEXPIRE', KEYS[1], ARGV[3])
return 1
`)

// NewPlayerCache creates a new player cache
func NewPlayerCache(client *redis.Client, ttl time.Duration) PlayerCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &playerCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *playerCache) key(playerKey string) string {
	return fmt.Sprintf("player:%s", playerKey)
}

func (c *playerCache) Get(ctx context.Context, key string) (*model.PlayerState, error) {
	data, err := c.client.HGet(ctx, c.key(key), "doc").Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var player model.PlayerState
	if err := json.Unmarshal([]byte(data), &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (c *playerCache) Set(ctx context.Context, player *model.PlayerState) (bool, error) {
	data, err := json.Marshal(player)
	if err != nil {
		return false, err
	}
	stored, err := setIfNewer.Run(ctx, c.client, []string{c.key(player.Key)},
		player.Version, data, c.ttl.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return stored == 1, nil
}

func (c *playerCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.key(key)).Err()
}
