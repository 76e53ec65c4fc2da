package persistence

import (
	"context"
	"database/sql"
	"errors"

	"quizsalon/internal/domain/apperr"
	"quizsalon/internal/domain/friendship"
	"quizsalon/internal/domain/player"
	"quizsalon/internal/ports"
)

// SQLFriendshipRepository implementa FriendshipRepository. O índice único
// sobre o par ordenado impede duas relações para os mesmos perfis.
type SQLFriendshipRepository struct {
	sqlBase
}

func NewSQLFriendshipRepository(db *sql.DB, driver string) ports.FriendshipRepository {
	return &SQLFriendshipRepository{sqlBase: newSQLBase(db, driver)}
}

func (r *SQLFriendshipRepository) FindBetween(ctx context.Context, a, b int64) (*friendship.Friendship, error) {
	query := `
		SELECT requester_id, receiver_id, status, created_at
		FROM friendships
		WHERE (requester_id = ? AND receiver_id = ?) OR (requester_id = ? AND receiver_id = ?)
	`
	var (
		f      friendship.Friendship
		status string
	)
	err := r.db.QueryRowContext(ctx, r.q(query), a, b, b, a).Scan(&f.RequesterID, &f.ReceiverID, &status, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Store("buscar amizade", err)
	}
	f.Status = friendship.Status(status)
	return &f, nil
}

func (r *SQLFriendshipRepository) Create(ctx context.Context, f *friendship.Friendship) error {
	query := `
		INSERT INTO friendships (requester_id, receiver_id, status, created_at)
		VALUES (?, ?, ?, ?)
	`
	if _, err := r.db.ExecContext(ctx, r.q(query), f.RequesterID, f.ReceiverID, string(f.Status), f.CreatedAt); err != nil {
		return apperr.Store("criar pedido de amizade", err)
	}
	return nil
}

func (r *SQLFriendshipRepository) Accept(ctx context.Context, requesterID, receiverID int64) (bool, error) {
	query := `
		UPDATE friendships SET status = ?
		WHERE requester_id = ? AND receiver_id = ? AND status = ?
	`
	res, err := r.db.ExecContext(ctx, r.q(query),
		string(friendship.StatusAccepted), requesterID, receiverID, string(friendship.StatusPending))
	if err != nil {
		return false, apperr.Store("aceitar amizade", err)
	}
	return affected(res, "aceitar amizade")
}

func (r *SQLFriendshipRepository) DeletePending(ctx context.Context, requesterID, receiverID int64) (bool, error) {
	query := `DELETE FROM friendships WHERE requester_id = ? AND receiver_id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, r.q(query), requesterID, receiverID, string(friendship.StatusPending))
	if err != nil {
		return false, apperr.Store("recusar amizade", err)
	}
	return affected(res, "recusar amizade")
}

func (r *SQLFriendshipRepository) DeleteBetween(ctx context.Context, a, b int64) error {
	query := `
		DELETE FROM friendships
		WHERE (requester_id = ? AND receiver_id = ?) OR (requester_id = ? AND receiver_id = ?)
	`
	if _, err := r.db.ExecContext(ctx, r.q(query), a, b, b, a); err != nil {
		return apperr.Store("remover amizade", err)
	}
	return nil
}

func (r *SQLFriendshipRepository) ListFriends(ctx context.Context, profileID int64) ([]player.Profile, error) {
	query := `
		SELECT p.id, p.user_id, p.pseudo, p.avatar, p.elo
		FROM friendships f
		JOIN profiles p ON p.id = CASE WHEN f.requester_id = ? THEN f.receiver_id ELSE f.requester_id END
		WHERE (f.requester_id = ? OR f.receiver_id = ?) AND f.status = ?
		ORDER BY p.pseudo ASC, p.id ASC
	`
	return r.listProfiles(ctx, "listar amigos", query,
		profileID, profileID, profileID, string(friendship.StatusAccepted))
}

func (r *SQLFriendshipRepository) ListPendingFor(ctx context.Context, receiverID int64) ([]player.Profile, error) {
	query := `
		SELECT p.id, p.user_id, p.pseudo, p.avatar, p.elo
		FROM friendships f
		JOIN profiles p ON p.id = f.requester_id
		WHERE f.receiver_id = ? AND f.status = ?
		ORDER BY f.created_at ASC, p.id ASC
	`
	return r.listProfiles(ctx, "listar pedidos de amizade", query, receiverID, string(friendship.StatusPending))
}

func (r *SQLFriendshipRepository) listProfiles(ctx context.Context, op, query string, args ...any) ([]player.Profile, error) {
	rows, err := r.db.QueryContext(ctx, r.q(query), args...)
	if err != nil {
		return nil, apperr.Store(op, err)
	}
	defer rows.Close()

	profiles := []player.Profile{}
	for rows.Next() {
		var p player.Profile
		if err := rows.Scan(&p.ID, &p.UserID, &p.Pseudo, &p.Avatar, &p.Elo); err != nil {
			return nil, apperr.Store(op, err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store(op, err)
	}
	return profiles, nil
}

func affected(res sql.Result, op string) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperr.Store(op, err)
	}
	return n > 0, nil
}
