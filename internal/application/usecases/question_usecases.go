package usecases

import (
	"context"

	"quizsalon/internal/domain/quiz"
	"quizsalon/internal/infra/logger"
	"quizsalon/internal/ports"
)

// QuestionUseCases administra o banco de perguntas.
type QuestionUseCases struct {
	questionRepo ports.QuestionRepository
	cache        ports.QuestionCache // opcional
}

func NewQuestionUseCases(questionRepo ports.QuestionRepository, cache ports.QuestionCache) *QuestionUseCases {
	return &QuestionUseCases{questionRepo: questionRepo, cache: cache}
}

// AddQuestion cadastra uma pergunta e invalida o cache do nível.
func (uc *QuestionUseCases) AddQuestion(ctx context.Context, draft quiz.Draft) (int64, error) {
	if err := draft.Validate(); err != nil {
		return 0, err
	}

	id, err := uc.questionRepo.Create(ctx, draft)
	if err != nil {
		return 0, err
	}

	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx, draft.Difficulty); err != nil {
			logger.Warn("Falha ao invalidar cache de perguntas", "nivel", draft.Difficulty, "erro", err)
		}
	}
	logger.Info("Pergunta cadastrada", "pergunta", id, "nivel", draft.Difficulty)
	return id, nil
}

// ListByDifficulty lista as perguntas de um nível (sem as flags de correção).
func (uc *QuestionUseCases) ListByDifficulty(ctx context.Context, difficulty int) ([]quiz.Question, error) {
	return uc.questionRepo.FindByDifficulty(ctx, difficulty)
}
