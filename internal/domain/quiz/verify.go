package quiz

import (
	"math"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Pontuação
const (
	MaxPoints        = 1000
	MinCorrectPoints = 100
	MalusPerEdit     = 50
	MaxMalus         = 150
	defaultDecayRate = 15
)

// Result é o resultado da verificação de uma resposta.
type Result struct {
	Correct         bool    `json:"correct"`
	Misspelled      bool    `json:"misspelled"`
	Distance        int     `json:"distance"`
	Malus           int     `json:"malus"`
	ElapsedSeconds  float64 `json:"elapsedSeconds"`
	PointsAwarded   int     `json:"pointsGagnes"`
	CanonicalAnswer string  `json:"bonneReponse,omitempty"`
}

// Normalize remove espaços nas pontas, passa para minúsculas e retira os acentos
// (decomposição NFD seguida da remoção das marcas combinantes).
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Distance é a distância de Levenshtein entre duas strings (por runa).
func Distance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// Tolerance devolve quantas edições são aceitas para o nível de dificuldade.
func Tolerance(difficulty int) int {
	switch difficulty {
	case 1:
		return 3
	case 2:
		return 2
	default:
		return 0
	}
}

// DecayRate devolve os pontos perdidos por segundo de resposta.
func DecayRate(difficulty int) int {
	switch difficulty {
	case 1:
		return 10
	case 2:
		return 15
	case 3:
		return 20
	default:
		return defaultDecayRate
	}
}

// Points calcula os pontos de uma resposta. Resposta errada vale 0.
func Points(correct bool, difficulty int, elapsedSeconds float64, malus int) int {
	if !correct {
		return 0
	}
	decay := math.Floor(elapsedSeconds * float64(DecayRate(difficulty)))
	raw := MinCorrectPoints
	if decay < float64(MaxPoints-MinCorrectPoints) {
		raw = max(MinCorrectPoints, MaxPoints-int(decay))
	}
	return max(0, raw-malus)
}

// CheckFreeText compara a resposta digitada com a resposta canônica.
func CheckFreeText(canonical, submitted string, difficulty int, elapsedSeconds float64) Result {
	distance := Distance(Normalize(canonical), Normalize(submitted))
	correct := distance <= Tolerance(difficulty)

	res := Result{
		Correct:         correct,
		Distance:        distance,
		ElapsedSeconds:  elapsedSeconds,
		CanonicalAnswer: canonical,
	}
	if correct && distance > 0 {
		res.Misspelled = true
		res.Malus = min(MaxMalus, distance*MalusPerEdit)
	}
	res.PointsAwarded = Points(correct, difficulty, elapsedSeconds, res.Malus)
	return res
}

// CheckChoice pontua uma resposta de QCM cuja correção já veio do banco.
// canonical é o texto da alternativa correta, devolvido ao jogador.
func CheckChoice(correct bool, canonical string, difficulty int, elapsedSeconds float64) Result {
	return Result{
		Correct:         correct,
		ElapsedSeconds:  elapsedSeconds,
		CanonicalAnswer: canonical,
		PointsAwarded:   Points(correct, difficulty, elapsedSeconds, 0),
	}
}
