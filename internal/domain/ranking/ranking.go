package ranking

import "sort"

// Variação de elo ao fim de uma partida
const (
	WinnerGain   = 30
	LoserPenalty = 10
)

// Entry é a pontuação final de um jogador numa partida.
type Entry struct {
	PlayerID    int64  `json:"idJoueur"`
	Pseudo      string `json:"pseudo"`
	TotalPoints int    `json:"totalPoints"`
}

// Placement é a linha do classement devolvida aos clientes.
type Placement struct {
	PlayerID    int64  `json:"idJoueur"`
	Pseudo      string `json:"pseudo"`
	Rank        int    `json:"classement"`
	TotalPoints int    `json:"totalPoints"`
	OldRating   int    `json:"ancienElo"`
	NewRating   int    `json:"nouveauElo"`
	Delta       int    `json:"gain"`
}

// Order ordena por pontos (decrescente). Empates mantêm a ordem de entrada.
func Order(entries []Entry) []Entry {
	ordered := make([]Entry, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].TotalPoints > ordered[j].TotalPoints
	})
	return ordered
}

// Gain devolve a variação nominal para a posição (1 = primeiro).
func Gain(rank int) int {
	if rank == 1 {
		return WinnerGain
	}
	return -LoserPenalty
}

// NewRating aplica a variação ao elo, nunca abaixo de zero.
func NewRating(old, rank int) int {
	return max(0, old+Gain(rank))
}

// Compute monta o classement. ratingOf devolve o elo atual do jogador;
// jogadores sem elo conhecido continuam listados, com elo 0 e gain 0.
func Compute(entries []Entry, ratingOf func(playerID int64) (int, bool)) []Placement {
	ordered := Order(entries)
	placements := make([]Placement, 0, len(ordered))
	for i, e := range ordered {
		rank := i + 1
		old, ok := ratingOf(e.PlayerID)
		next := old
		if ok {
			next = NewRating(old, rank)
		}
		placements = append(placements, Placement{
			PlayerID:    e.PlayerID,
			Pseudo:      e.Pseudo,
			Rank:        rank,
			TotalPoints: e.TotalPoints,
			OldRating:   old,
			NewRating:   next,
			Delta:       next - old,
		})
	}
	return placements
}
