package usecases

import (
	"context"

	"quizsalon/internal/domain/apperr"
	"quizsalon/internal/domain/quiz"
	"quizsalon/internal/ports"
)

// SoloUseCases serve o modo solo: perguntas sorteadas e correção sem salão.
// Nada é gravado; o cliente soma os pontos.
type SoloUseCases struct {
	questions ports.QuestionRepository
	source    QuestionSource
	verifier  Verifier
}

func NewSoloUseCases(questions ports.QuestionRepository, source QuestionSource, verifier Verifier) *SoloUseCases {
	return &SoloUseCases{questions: questions, source: source, verifier: verifier}
}

// SoloAnswerInput é uma submissão com o tipo em que a pergunta foi exibida.
type SoloAnswerInput struct {
	quiz.Submission
	Kind string `json:"type"`
}

// RandomQuestions sorteia uma série de perguntas do nível, como no início de uma partida.
func (uc *SoloUseCases) RandomQuestions(ctx context.Context, difficulty int) ([]quiz.Question, error) {
	if difficulty < 1 || difficulty > 3 {
		return nil, apperr.Validation("Niveau de difficulté invalide")
	}
	return uc.source.Pick(ctx, difficulty)
}

// CheckAnswer corrige uma resposta avulsa com as mesmas regras da partida.
func (uc *SoloUseCases) CheckAnswer(ctx context.Context, input SoloAnswerInput) (quiz.Result, error) {
	if err := input.Submission.Validate(); err != nil {
		return quiz.Result{}, err
	}
	if input.Kind != quiz.KindQCM && input.Kind != quiz.KindInput {
		return quiz.Result{}, apperr.Validation("Type de question invalide")
	}

	q, err := uc.questions.FindByID(ctx, input.QuestionID)
	if err != nil {
		return quiz.Result{}, err
	}
	if q == nil {
		return quiz.Result{}, apperr.NotFound("Question introuvable")
	}
	q.Kind = input.Kind
	return uc.verifier.Verify(ctx, *q, input.Submission)
}
