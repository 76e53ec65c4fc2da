package usecases

import (
	"context"

	"quizsalon/internal/domain/apperr"
	"quizsalon/internal/domain/quiz"
	"quizsalon/internal/ports"
)

// AnswerVerifier resolve a resposta correta no banco e aplica a pontuação.
type AnswerVerifier struct {
	questions ports.QuestionRepository
}

func NewAnswerVerifier(questions ports.QuestionRepository) *AnswerVerifier {
	return &AnswerVerifier{questions: questions}
}

// Verify corrige uma submissão. Se a resposta correta não puder ser obtida,
// devolve DataUnavailable: nunca pontua como errada por falta de dados.
func (v *AnswerVerifier) Verify(ctx context.Context, q quiz.Question, sub quiz.Submission) (quiz.Result, error) {
	if q.Kind == quiz.KindQCM {
		return v.verifyChoice(ctx, q, sub)
	}
	return v.verifyFreeText(ctx, q, sub)
}

func (v *AnswerVerifier) verifyChoice(ctx context.Context, q quiz.Question, sub quiz.Submission) (quiz.Result, error) {
	if sub.AnswerID == nil {
		return quiz.Result{}, apperr.Validation("answerId requis pour une question à choix")
	}

	correct, label, found, err := v.questions.AnswerCorrectness(ctx, q.ID, *sub.AnswerID)
	if err != nil {
		return quiz.Result{}, apperr.Wrap(apperr.KindDataUnavailable, "correction indisponible", err)
	}
	if !found {
		return quiz.Result{}, apperr.NotFound("Réponse introuvable pour cette question")
	}

	canonical := label
	if !correct {
		text, ok, err := v.questions.CanonicalAnswer(ctx, q.ID)
		if err != nil {
			return quiz.Result{}, apperr.Wrap(apperr.KindDataUnavailable, "correction indisponible", err)
		}
		if !ok {
			return quiz.Result{}, apperr.New(apperr.KindDataUnavailable, "bonne réponse introuvable")
		}
		canonical = text
	}
	return quiz.CheckChoice(correct, canonical, q.Difficulty, sub.ElapsedSeconds), nil
}

func (v *AnswerVerifier) verifyFreeText(ctx context.Context, q quiz.Question, sub quiz.Submission) (quiz.Result, error) {
	if sub.AnswerText == nil {
		return quiz.Result{}, apperr.Validation("answerText requis pour une question libre")
	}

	canonical, found, err := v.questions.CanonicalAnswer(ctx, q.ID)
	if err != nil {
		return quiz.Result{}, apperr.Wrap(apperr.KindDataUnavailable, "correction indisponible", err)
	}
	if !found {
		return quiz.Result{}, apperr.New(apperr.KindDataUnavailable, "bonne réponse introuvable")
	}
	return quiz.CheckFreeText(canonical, *sub.AnswerText, q.Difficulty, sub.ElapsedSeconds), nil
}
