package persistence

import (
	"context"
	"database/sql"
	"errors"

	"quizsalon/internal/domain/apperr"
	"quizsalon/internal/domain/salon"
	"quizsalon/internal/ports"
)

// SQLRoomRepository implementa RoomRepository para SQLite e Postgres.
type SQLRoomRepository struct {
	sqlBase
}

// NewSQLRoomRepository cria uma nova instância do repositório.
func NewSQLRoomRepository(db *sql.DB, driver string) ports.RoomRepository {
	return &SQLRoomRepository{sqlBase: newSQLBase(db, driver)}
}

const roomColumns = `id, label, difficulty, kind, max_players, current_players, started, created_at`

// Create insere um novo salão e preenche o ID gerado.
func (r *SQLRoomRepository) Create(ctx context.Context, room *salon.Room) error {
	query := `
		INSERT INTO salons (label, difficulty, kind, max_players, current_players, started, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, r.q(query),
		room.Label,
		room.Difficulty,
		string(room.Kind),
		room.MaxPlayers,
		room.CurrentPlayers,
		room.Started,
		room.CreatedAt,
	).Scan(&room.ID)
	if err != nil {
		return apperr.Store("criar salão", err)
	}
	return nil
}

// FindByID busca um salão pelo ID.
func (r *SQLRoomRepository) FindByID(ctx context.Context, id int64) (*salon.Room, error) {
	row := r.db.QueryRowContext(ctx, r.q(`SELECT `+roomColumns+` FROM salons WHERE id = ?`), id)
	room, err := scanRoom(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Não encontrado
		}
		return nil, apperr.Store("buscar salão", err)
	}
	return room, nil
}

// FindOpenQuick devolve o salão rápido aberto mais antigo.
func (r *SQLRoomRepository) FindOpenQuick(ctx context.Context) (*salon.Room, error) {
	query := `
		SELECT ` + roomColumns + `
		FROM salons
		WHERE kind = ? AND started = FALSE AND current_players < max_players
		ORDER BY id ASC
		LIMIT 1
	`
	room, err := scanRoom(r.db.QueryRowContext(ctx, r.q(query), string(salon.KindQuick)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Store("buscar salão rápido", err)
	}
	return room, nil
}

// ListOpen lista os salões de um tipo que ainda não começaram.
func (r *SQLRoomRepository) ListOpen(ctx context.Context, kind salon.Kind) ([]*salon.Room, error) {
	query := `
		SELECT ` + roomColumns + `
		FROM salons
		WHERE kind = ? AND started = FALSE
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, r.q(query), string(kind))
	if err != nil {
		return nil, apperr.Store("listar salões", err)
	}
	defer rows.Close()

	rooms := []*salon.Room{}
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, apperr.Store("listar salões", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("listar salões", err)
	}
	return rooms, nil
}

// IncrementPlayers reserva uma vaga de forma atômica.
func (r *SQLRoomRepository) IncrementPlayers(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE salons
		SET current_players = current_players + 1
		WHERE id = ? AND current_players < max_players AND started = FALSE
	`
	res, err := r.db.ExecContext(ctx, r.q(query), id)
	if err != nil {
		return false, apperr.Store("reservar vaga", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperr.Store("reservar vaga", err)
	}
	return n == 1, nil
}

// DecrementPlayers libera uma vaga sem passar de zero.
func (r *SQLRoomRepository) DecrementPlayers(ctx context.Context, id int64) error {
	query := `
		UPDATE salons
		SET current_players = CASE WHEN current_players > 0 THEN current_players - 1 ELSE 0 END
		WHERE id = ?
	`
	if _, err := r.db.ExecContext(ctx, r.q(query), id); err != nil {
		return apperr.Store("liberar vaga", err)
	}
	return nil
}

// MarkStarted marca o salão como iniciado. Nunca volta para false.
func (r *SQLRoomRepository) MarkStarted(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, r.q(`UPDATE salons SET started = TRUE WHERE id = ?`), id); err != nil {
		return apperr.Store("iniciar salão", err)
	}
	return nil
}

// Delete remove o salão; apagar um salão inexistente não é erro.
func (r *SQLRoomRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, r.q(`DELETE FROM salons WHERE id = ?`), id); err != nil {
		return apperr.Store("apagar salão", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(row rowScanner) (*salon.Room, error) {
	var room salon.Room
	var kind string
	if err := row.Scan(
		&room.ID,
		&room.Label,
		&room.Difficulty,
		&kind,
		&room.MaxPlayers,
		&room.CurrentPlayers,
		&room.Started,
		&room.CreatedAt,
	); err != nil {
		return nil, err
	}
	room.Kind = salon.Kind(kind)
	return &room, nil
}
