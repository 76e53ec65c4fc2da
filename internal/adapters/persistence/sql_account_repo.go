package persistence

import (
	"context"
	"database/sql"
	"errors"

	"quizsalon/internal/domain/account"
	"quizsalon/internal/domain/apperr"
	"quizsalon/internal/ports"
)

// SQLAccountRepository implementa AccountRepository.
type SQLAccountRepository struct {
	sqlBase
}

// NewSQLAccountRepository cria uma nova instância do repositório.
func NewSQLAccountRepository(db *sql.DB, driver string) ports.AccountRepository {
	return &SQLAccountRepository{sqlBase: newSQLBase(db, driver)}
}

// Create insere uma nova conta no banco.
func (r *SQLAccountRepository) Create(ctx context.Context, a *account.Account) error {
	query := `
		INSERT INTO accounts (id, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)
	`
	if _, err := r.db.ExecContext(ctx, r.q(query), a.ID, a.Email, a.PasswordHash, a.CreatedAt); err != nil {
		return apperr.Store("criar conta", err)
	}
	return nil
}

// FindByEmail busca uma conta pelo email.
func (r *SQLAccountRepository) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	return r.findOne(ctx, `SELECT id, email, password_hash, created_at FROM accounts WHERE email = ?`, email)
}

// FindByID busca uma conta pelo ID.
func (r *SQLAccountRepository) FindByID(ctx context.Context, id string) (*account.Account, error) {
	return r.findOne(ctx, `SELECT id, email, password_hash, created_at FROM accounts WHERE id = ?`, id)
}

func (r *SQLAccountRepository) findOne(ctx context.Context, query string, arg any) (*account.Account, error) {
	var a account.Account
	err := r.db.QueryRowContext(ctx, r.q(query), arg).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Não encontrado
		}
		return nil, apperr.Store("buscar conta", err)
	}
	return &a, nil
}
