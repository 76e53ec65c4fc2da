package quiz

import (
	"math"

	"quizsalon/internal/domain/apperr"
)

// Tipos de pergunta
const (
	KindQCM   = "qcm"
	KindInput = "input"
)

// AnswerOption é uma alternativa exibida ao jogador (sem a flag de correção).
type AnswerOption struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// Question representa uma pergunta sorteada para um salão.
// Imutável durante toda a vida do salão.
type Question struct {
	ID            int64          `json:"id"`
	Label         string         `json:"label"`
	Difficulty    int            `json:"niveauDifficulte"`
	Kind          string         `json:"type"`
	AnswerOptions []AnswerOption `json:"reponses"`
}

// Submission é a resposta enviada por um jogador. Não é persistida.
type Submission struct {
	QuestionID     int64   `json:"questionId"`
	AnswerID       *int64  `json:"answerId,omitempty"`
	AnswerText     *string `json:"answerText,omitempty"`
	ElapsedSeconds float64 `json:"elapsedSeconds"`
}

// Validate verifica os campos obrigatórios da submissão.
func (s Submission) Validate() error {
	if s.QuestionID <= 0 {
		return apperr.Validation("questionId manquant ou invalide")
	}
	if math.IsNaN(s.ElapsedSeconds) || math.IsInf(s.ElapsedSeconds, 0) || s.ElapsedSeconds < 0 {
		return apperr.Validation("elapsedSeconds invalide")
	}
	return nil
}

// FindQuestion procura a pergunta pelo ID dentro do conjunto do salão.
func FindQuestion(questions []Question, id int64) (Question, bool) {
	for _, q := range questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
