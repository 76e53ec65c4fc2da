package quiz

import (
	"strings"

	"quizsalon/internal/domain/apperr"
)

// Limites de uma pergunta nova
const (
	MinOptions = 2
	MaxOptions = 6
)

// Draft é uma pergunta ainda não cadastrada no banco.
type Draft struct {
	Label        string   `json:"label"`
	Difficulty   int      `json:"niveauDifficulte"`
	Options      []string `json:"reponses"`
	CorrectIndex int      `json:"bonneReponse"`
}

// Validate normaliza e valida a pergunta.
func (d *Draft) Validate() error {
	d.Label = strings.TrimSpace(d.Label)
	if d.Label == "" {
		return apperr.Validation("l'intitulé de la question est requis")
	}
	if d.Difficulty < 1 || d.Difficulty > 3 {
		return apperr.Validation("niveau de difficulté invalide")
	}
	if len(d.Options) < MinOptions || len(d.Options) > MaxOptions {
		return apperr.Validation("une question doit avoir entre 2 et 6 réponses")
	}
	for i, o := range d.Options {
		d.Options[i] = strings.TrimSpace(o)
		if d.Options[i] == "" {
			return apperr.Validation("les réponses ne peuvent pas être vides")
		}
	}
	if d.CorrectIndex < 0 || d.CorrectIndex >= len(d.Options) {
		return apperr.Validation("index de la bonne réponse invalide")
	}
	return nil
}
