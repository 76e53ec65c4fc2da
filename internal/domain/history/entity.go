package history

import "time"

// Record é uma linha do histórico de partidas de um jogador.
type Record struct {
	ID        int64     `json:"id"`
	ProfileID int64     `json:"idProfile"`
	Score     int       `json:"score"`
	PlayedAt  time.Time `json:"datePartie"`
}
