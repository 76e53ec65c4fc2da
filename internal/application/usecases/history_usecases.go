package usecases

import (
	"context"

	"quizsalon/internal/domain/history"
	"quizsalon/internal/ports"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type HistoryUseCases struct {
	historyRepo ports.HistoryRepository
	profiles    ports.ProfileRepository
}

func NewHistoryUseCases(historyRepo ports.HistoryRepository, profiles ports.ProfileRepository) *HistoryUseCases {
	return &HistoryUseCases{historyRepo: historyRepo, profiles: profiles}
}

// ListForUser lista o histórico de partidas do jogador logado, paginado.
func (uc *HistoryUseCases) ListForUser(ctx context.Context, userID string, page, limit int) ([]*history.Record, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	limit = min(limit, maxHistoryLimit)

	p, err := profileOf(ctx, uc.profiles, userID)
	if err != nil {
		return nil, err
	}

	offset := (page - 1) * limit
	return uc.historyRepo.ListByProfile(ctx, p.ID, limit, offset)
}
