package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"herovault/internal/app"
	"herovault/internal/config"
	"herovault/internal/game"
	"herovault/internal/logging"
	"herovault/internal/model"
	"herovault/internal/service"
)

type demoPlayer struct {
	id      model.Identity
	actions []game.Action
}

var demoPlayers = []demoPlayer{
	{
		id: model.Identity{Name: "Ayla Stormhold", Email: "ayla@herovault.dev"},
		actions: []game.Action{
			game.Deposit{VaultID: "v2", Amount: 2_500_000, Note: "salary"},
			game.Spend{VaultID: "v2", Amount: 120_000, Category: "housing", Note: "rent"},
			game.AddVault{ID: "v3", Name: "Emergency fund"},
			game.Deposit{VaultID: "v3", Amount: 500_000},
			game.SkillUpgrade{Skill: "frugality"},
			game.AddQuest{ID: "q1", Title: "Save for a bike", Target: 300_000},
			game.QuestProgress{QuestID: "q1", Amount: 100_000},
			game.MedalCheck{},
		},
	},
	{
		id: model.Identity{Name: "Bo Ironledger", Email: "bo@herovault.dev"},
		actions: []game.Action{
			game.Deposit{VaultID: "v1", Amount: 80_000},
			game.AddDebt{ID: "d1", Counterpart: "Mira", Amount: 30_000},
			game.Repay{DebtID: "d1", VaultID: "v1", Amount: 30_000},
			game.Spend{VaultID: "v1", Amount: 4_500, Category: "food", Note: "ramen"},
			game.MedalCheck{},
		},
	},
	{
		id: model.Identity{Name: "Cy Newcomer", Email: "cy@herovault.dev"},
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stdout, cfg.Logging)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer a.Close(context.Background())

	for _, demo := range demoPlayers {
		if err := seed(ctx, a.Gateway, demo); err != nil {
			logger.Error("seed failed", "email", demo.id.Email, "err", err)
			os.Exit(1)
		}
	}
	logger.Info("seed complete", "players", len(demoPlayers))
}

// seed binds a session for the demo identity and replays its actions.
// Players that already have history are left alone.
func seed(ctx context.Context, gw *service.Gateway, demo demoPlayer) error {
	s := service.NewSession(gw, logging.Discard())
	p, err := s.Bind(ctx, demo.id)
	if err != nil {
		return err
	}
	defer s.Close()

	if p.Version > 0 {
		return nil
	}
	for _, a := range demo.actions {
		if _, err := s.Dispatch(ctx, a); err != nil && !errors.Is(err, game.ErrInvalidAction) {
			return err
		}
	}
	return nil
}
