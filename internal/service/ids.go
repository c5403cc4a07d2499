package service

import (
	"herovault/internal/game"

	"github.com/google/uuid"
)

// WithGeneratedID fills in the id of creation actions that arrive without one
func WithGeneratedID(a game.Action) game.Action {
	switch v := a.(type) {
	case game.AddVault:
		if v.ID == "" {
			v.ID = "v_" + shortID()
		}
		return v
	case game.AddDebt:
		if v.ID == "" {
			v.ID = "d_" + shortID()
		}
		return v
	case game.AddQuest:
		if v.ID == "" {
			v.ID = "q_" + shortID()
		}
		return v
	}
	return a
}

func shortID() string {
	return uuid.New().String()[:8]
}
