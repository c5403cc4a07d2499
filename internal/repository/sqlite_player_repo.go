package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"herovault/internal/model"
)

type sqlitePlayerRepo struct {
	db *sql.DB
}

// NewSQLitePlayerRepo creates a player repository on an embedded SQLite database.
// Documents are stored as JSON next to their key and version.
func NewSQLitePlayerRepo(db *sql.DB) PlayerRepo {
	return &sqlitePlayerRepo{db: db}
}

func (r *sqlitePlayerRepo) Get(ctx context.Context, key string) (*model.PlayerState, error) {
	var doc string
	err := r.db.QueryRowContext(ctx, `SELECT doc FROM players WHERE key = ?`, key).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("player get: %w", err)
	}

	var player model.PlayerState
	if err := json.Unmarshal([]byte(doc), &player); err != nil {
		return nil, fmt.Errorf("player decode: %w", err)
	}
	return &player, nil
}

func (r *sqlitePlayerRepo) Insert(ctx context.Context, player *model.PlayerState) error {
	doc, err := json.Marshal(player)
	if err != nil {
		return fmt.Errorf("player encode: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO players (key, email, version, doc, updated_at) VALUES (?, ?, ?, ?, ?)`,
		player.Key, player.Email, player.Version, string(doc), player.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicate
		}
		return fmt.Errorf("player insert: %w", err)
	}
	return nil
}

func (r *sqlitePlayerRepo) Replace(ctx context.Context, player *model.PlayerState, expected int64) error {
	doc, err := json.Marshal(player)
	if err != nil {
		return fmt.Errorf("player encode: %w", err)
	}

	return WithTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE players
			SET email = ?, version = ?, doc = ?, updated_at = ?
			WHERE key = ? AND version = ?
		`, player.Email, player.Version, string(doc), player.UpdatedAt, player.Key, expected)
		if err != nil {
			return fmt.Errorf("player replace: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("player replace: %w", err)
		}
		if n == 1 {
			return nil
		}

		var exists int
		err = tx.QueryRowContext(ctx, `SELECT 1 FROM players WHERE key = ?`, player.Key).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("player replace: %w", err)
		}
		return ErrVersionConflict
	})
}

func (r *sqlitePlayerRepo) Delete(ctx context.Context, key string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM players WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("player delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("player delete: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
