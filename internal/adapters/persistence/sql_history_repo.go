package persistence

import (
	"context"
	"database/sql"

	"quizsalon/internal/domain/apperr"
	"quizsalon/internal/domain/history"
	"quizsalon/internal/ports"
)

// SQLHistoryRepository grava e lista o histórico de partidas.
type SQLHistoryRepository struct {
	sqlBase
}

func NewSQLHistoryRepository(db *sql.DB, driver string) ports.HistoryRepository {
	return &SQLHistoryRepository{sqlBase: newSQLBase(db, driver)}
}

// Append insere uma linha de histórico.
func (r *SQLHistoryRepository) Append(ctx context.Context, h *history.Record) error {
	query := `
		INSERT INTO game_history (profile_id, score, played_at)
		VALUES (?, ?, ?)
		RETURNING id
	`
	if err := r.db.QueryRowContext(ctx, r.q(query), h.ProfileID, h.Score, h.PlayedAt).Scan(&h.ID); err != nil {
		return apperr.Store("gravar histórico", err)
	}
	return nil
}

// ListByProfile lista o histórico de um jogador (mais recente primeiro), com paginação.
func (r *SQLHistoryRepository) ListByProfile(ctx context.Context, profileID int64, limit, offset int) ([]*history.Record, error) {
	query := `
		SELECT id, profile_id, score, played_at
		FROM game_history
		WHERE profile_id = ?
		ORDER BY played_at DESC, id DESC
		LIMIT ? OFFSET ?
	`
	rows, err := r.db.QueryContext(ctx, r.q(query), profileID, limit, offset)
	if err != nil {
		return nil, apperr.Store("listar histórico", err)
	}
	defer rows.Close()

	records := []*history.Record{}
	for rows.Next() {
		var h history.Record
		if err := rows.Scan(&h.ID, &h.ProfileID, &h.Score, &h.PlayedAt); err != nil {
			return nil, apperr.Store("listar histórico", err)
		}
		records = append(records, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("listar histórico", err)
	}
	return records, nil
}
