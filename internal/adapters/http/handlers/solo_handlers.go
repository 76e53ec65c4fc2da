package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"quizsalon/internal/application/usecases"
)

type SoloHandler struct {
	soloUC *usecases.SoloUseCases
}

func NewSoloHandler(soloUC *usecases.SoloUseCases) *SoloHandler {
	return &SoloHandler{soloUC: soloUC}
}

// RandomQuestions godoc
// @Summary Sorteia perguntas para o modo solo
// @Description Cada pergunta já vem com o tipo (qcm ou input) sorteado.
// @Tags Solo
// @Produce json
// @Security BearerAuth
// @Param niveauDifficulte query int true "Nível (1..3)"
// @Success 200 {array} quiz.Question
// @Failure 400 {object} map[string]string "Nível inválido"
// @Router /normal/aleatoire/question [get]
func (h *SoloHandler) RandomQuestions(w http.ResponseWriter, r *http.Request) {
	difficulty, err := strconv.Atoi(r.URL.Query().Get("niveauDifficulte"))
	if err != nil {
		badRequest(w, "niveau de difficulté invalide")
		return
	}

	questions, err := h.soloUC.RandomQuestions(r.Context(), difficulty)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

// CheckAnswer godoc
// @Summary Corrige uma resposta do modo solo
// @Description Mesmas regras da partida (tolerância de digitação, pontos por tempo). Nada é gravado.
// @Tags Solo
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body usecases.SoloAnswerInput true "Resposta"
// @Success 200 {object} quiz.Result
// @Failure 400 {object} map[string]string "Submissão inválida"
// @Failure 404 {object} map[string]string "Pergunta não encontrada"
// @Router /verifier-reponse [post]
func (h *SoloHandler) CheckAnswer(w http.ResponseWriter, r *http.Request) {
	var input usecases.SoloAnswerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		badRequest(w, "JSON invalide")
		return
	}

	result, err := h.soloUC.CheckAnswer(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
