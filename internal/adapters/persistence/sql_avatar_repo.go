package persistence

import (
	"context"
	"database/sql"
	"errors"

	"quizsalon/internal/domain/apperr"
	"quizsalon/internal/domain/player"
	"quizsalon/internal/ports"
)

// SQLAvatarRepository lê o catálogo de avatares (semeado nas migrações).
type SQLAvatarRepository struct {
	sqlBase
}

func NewSQLAvatarRepository(db *sql.DB, driver string) ports.AvatarRepository {
	return &SQLAvatarRepository{sqlBase: newSQLBase(db, driver)}
}

func (r *SQLAvatarRepository) List(ctx context.Context) ([]player.Avatar, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, url FROM avatars ORDER BY id ASC`)
	if err != nil {
		return nil, apperr.Store("listar avatares", err)
	}
	defer rows.Close()

	avatars := []player.Avatar{}
	for rows.Next() {
		var a player.Avatar
		if err := rows.Scan(&a.ID, &a.URL); err != nil {
			return nil, apperr.Store("listar avatares", err)
		}
		avatars = append(avatars, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("listar avatares", err)
	}
	return avatars, nil
}

func (r *SQLAvatarRepository) FindByID(ctx context.Context, id int64) (*player.Avatar, error) {
	var a player.Avatar
	err := r.db.QueryRowContext(ctx, r.q(`SELECT id, url FROM avatars WHERE id = ?`), id).Scan(&a.ID, &a.URL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Store("buscar avatar", err)
	}
	return &a, nil
}
