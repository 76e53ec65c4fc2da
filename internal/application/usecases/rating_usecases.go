package usecases

import (
	"context"
	"time"

	"quizsalon/internal/domain/history"
	"quizsalon/internal/domain/ranking"
	"quizsalon/internal/infra/logger"
	"quizsalon/internal/ports"
)

// RatingUseCases aplica o classement de uma partida encerrada: atualiza o elo
// e grava uma linha de histórico por jogador.
type RatingUseCases struct {
	profiles  ports.ProfileRepository
	histories ports.HistoryRepository
	now       ports.Clock
}

func NewRatingUseCases(profiles ports.ProfileRepository, histories ports.HistoryRepository) *RatingUseCases {
	return &RatingUseCases{profiles: profiles, histories: histories, now: time.Now}
}

// WithClock troca o relógio usado nas linhas de histórico.
func (uc *RatingUseCases) WithClock(now ports.Clock) *RatingUseCases {
	uc.now = now
	return uc
}

// Apply calcula e grava o classement. Jogadores sem perfil legível aparecem
// no classement sem variação de elo e sem histórico. Falhas de escrita de um
// jogador são registradas e não impedem os demais.
func (uc *RatingUseCases) Apply(ctx context.Context, entries []ranking.Entry) []ranking.Placement {
	ratings := make(map[int64]int, len(entries))
	for _, e := range entries {
		p, err := uc.profiles.FindByID(ctx, e.PlayerID)
		if err != nil {
			logger.Error("Falha ao buscar perfil para o classement", "perfil", e.PlayerID, "erro", err)
			continue
		}
		if p == nil {
			logger.Warn("Perfil inexistente, classement sem elo", "perfil", e.PlayerID)
			continue
		}
		ratings[e.PlayerID] = p.Elo
	}

	placements := ranking.Compute(entries, func(id int64) (int, bool) {
		r, ok := ratings[id]
		return r, ok
	})

	playedAt := uc.now().UTC()
	for _, pl := range placements {
		if _, known := ratings[pl.PlayerID]; !known {
			continue
		}
		if err := uc.profiles.UpdateRating(ctx, pl.PlayerID, pl.NewRating); err != nil {
			logger.Error("Falha ao atualizar elo", "perfil", pl.PlayerID, "erro", err)
		}
		rec := &history.Record{ProfileID: pl.PlayerID, Score: pl.TotalPoints, PlayedAt: playedAt}
		if err := uc.histories.Append(ctx, rec); err != nil {
			logger.Error("Falha ao gravar histórico", "perfil", pl.PlayerID, "erro", err)
		}
	}
	return placements
}
