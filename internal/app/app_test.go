package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"herovault/internal/config"
	"herovault/internal/logging"
	"herovault/internal/model"
	"herovault/internal/service"

	"github.com/alicebob/miniredis/v2"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Store:      config.StoreSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "app.db"),
		CacheTTL:   time.Hour,
	}
}

func TestNewWithoutRedis(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, sqliteConfig(t), logging.Discard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close(ctx)

	if a.Redis != nil {
		t.Fatalf("redis client must be nil when disabled")
	}
	id := model.Identity{Name: "Ayla", Email: "ayla@example.com"}
	if _, created, err := a.Gateway.CreateIfAbsent(ctx, id); err != nil || !created {
		t.Fatalf("CreateIfAbsent created=%v err=%v", created, err)
	}
	top, err := a.Gateway.Leaderboard(ctx, 10)
	if err != nil || len(top) != 0 {
		t.Fatalf("leaderboard without redis=%v, %v", top, err)
	}
}

func TestNewWithRedis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	cfg := sqliteConfig(t)
	cfg.RedisAddr = mr.Addr()

	a, err := New(ctx, cfg, logging.Discard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close(ctx)

	p, _, err := a.Gateway.CreateIfAbsent(ctx, model.Identity{Name: "Ayla", Email: "ayla@example.com"})
	if err != nil {
		t.Fatalf("CreateIfAbsent: %v", err)
	}
	if !mr.Exists("player:" + p.Key) {
		t.Fatalf("snapshot not cached in redis")
	}
	if rank, err := a.Gateway.Rank(ctx, p.Email); err != nil || rank != 1 {
		t.Fatalf("rank=%d err=%v", rank, err)
	}
}

func TestNewFailsOnUnreachableRedis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	cfg := sqliteConfig(t)
	cfg.RedisAddr = mr.Addr()
	mr.Close()

	if _, err := New(ctx, cfg, logging.Discard()); err == nil {
		t.Fatalf("expected ping error")
	}
}

func TestNewRejectsUnknownStore(t *testing.T) {
	_, err := New(context.Background(), &config.Config{Store: "etcd"}, logging.Discard())
	if err == nil || errors.Is(err, service.ErrSyncFailure) {
		t.Fatalf("err=%v", err)
	}
}
