package usecases

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"quizsalon/internal/domain/quiz"
	"quizsalon/internal/ports"
)

// DefaultQuestionsPerGame é o tamanho de uma partida.
const DefaultQuestionsPerGame = 20

// QuestionPicker sorteia o conjunto de perguntas de uma partida.
type QuestionPicker struct {
	repo    ports.QuestionRepository
	perGame int

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewQuestionPicker(repo ports.QuestionRepository, perGame int) *QuestionPicker {
	seed := uint64(time.Now().UnixNano())
	return NewQuestionPickerWithRand(repo, perGame, rand.New(rand.NewPCG(seed, seed>>1)))
}

// NewQuestionPickerWithRand permite um sorteio determinístico nos testes.
func NewQuestionPickerWithRand(repo ports.QuestionRepository, perGame int, rnd *rand.Rand) *QuestionPicker {
	if perGame <= 0 {
		perGame = DefaultQuestionsPerGame
	}
	return &QuestionPicker{repo: repo, perGame: perGame, rnd: rnd}
}

// Pick embaralha as perguntas do nível, mantém no máximo perGame e sorteia o
// tipo de cada uma (qcm ou input, meio a meio). Perguntas "input" não levam as alternativas.
func (p *QuestionPicker) Pick(ctx context.Context, difficulty int) ([]quiz.Question, error) {
	pool, err := p.repo.FindByDifficulty(ctx, difficulty)
	if err != nil {
		return nil, err
	}

	picked := make([]quiz.Question, len(pool))
	copy(picked, pool)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.rnd.Shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })
	if len(picked) > p.perGame {
		picked = picked[:p.perGame]
	}
	for i := range picked {
		if p.rnd.IntN(2) == 0 {
			picked[i].Kind = quiz.KindQCM
		} else {
			picked[i].Kind = quiz.KindInput
			picked[i].AnswerOptions = []quiz.AnswerOption{}
		}
	}
	return picked, nil
}
