package persistence

import (
	"context"
	"database/sql"
	"errors"

	"quizsalon/internal/domain/apperr"
	"quizsalon/internal/domain/player"
	"quizsalon/internal/ports"
)

// SQLProfileRepository implementa ProfileRepository.
type SQLProfileRepository struct {
	sqlBase
}

func NewSQLProfileRepository(db *sql.DB, driver string) ports.ProfileRepository {
	return &SQLProfileRepository{sqlBase: newSQLBase(db, driver)}
}

// Create insere o perfil e preenche o ID gerado.
func (r *SQLProfileRepository) Create(ctx context.Context, p *player.Profile) error {
	query := `
		INSERT INTO profiles (user_id, pseudo, avatar, elo)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`
	if err := r.db.QueryRowContext(ctx, r.q(query), p.UserID, p.Pseudo, p.Avatar, p.Elo).Scan(&p.ID); err != nil {
		return apperr.Store("criar perfil", err)
	}
	return nil
}

func (r *SQLProfileRepository) FindByID(ctx context.Context, id int64) (*player.Profile, error) {
	return r.findOne(ctx, `SELECT id, user_id, pseudo, avatar, elo FROM profiles WHERE id = ?`, id)
}

func (r *SQLProfileRepository) FindByUserID(ctx context.Context, userID string) (*player.Profile, error) {
	return r.findOne(ctx, `SELECT id, user_id, pseudo, avatar, elo FROM profiles WHERE user_id = ?`, userID)
}

func (r *SQLProfileRepository) FindByPseudo(ctx context.Context, pseudo string) (*player.Profile, error) {
	return r.findOne(ctx, `SELECT id, user_id, pseudo, avatar, elo FROM profiles WHERE pseudo = ? ORDER BY id ASC LIMIT 1`, pseudo)
}

// UpdateProfile grava pseudo e avatar. O elo não muda aqui.
func (r *SQLProfileRepository) UpdateProfile(ctx context.Context, id int64, pseudo, avatar string) error {
	if _, err := r.db.ExecContext(ctx, r.q(`UPDATE profiles SET pseudo = ?, avatar = ? WHERE id = ?`), pseudo, avatar, id); err != nil {
		return apperr.Store("atualizar perfil", err)
	}
	return nil
}

// UpdateRating grava o novo elo.
func (r *SQLProfileRepository) UpdateRating(ctx context.Context, id int64, elo int) error {
	if _, err := r.db.ExecContext(ctx, r.q(`UPDATE profiles SET elo = ? WHERE id = ?`), elo, id); err != nil {
		return apperr.Store("atualizar elo", err)
	}
	return nil
}

func (r *SQLProfileRepository) findOne(ctx context.Context, query string, arg any) (*player.Profile, error) {
	var p player.Profile
	err := r.db.QueryRowContext(ctx, r.q(query), arg).Scan(&p.ID, &p.UserID, &p.Pseudo, &p.Avatar, &p.Elo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Não encontrado
		}
		return nil, apperr.Store("buscar perfil", err)
	}
	return &p, nil
}
