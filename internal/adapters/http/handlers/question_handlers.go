package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"quizsalon/internal/application/usecases"
	"quizsalon/internal/domain/quiz"
)

type QuestionHandler struct {
	questionUC *usecases.QuestionUseCases
}

func NewQuestionHandler(questionUC *usecases.QuestionUseCases) *QuestionHandler {
	return &QuestionHandler{questionUC: questionUC}
}

// AddQuestion godoc
// @Summary Cadastra uma pergunta
// @Description Adiciona uma pergunta com as alternativas; bonneReponse é o índice da correta.
// @Tags Questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body quiz.Draft true "Dados da Pergunta"
// @Success 201 {object} map[string]int64
// @Failure 400 "Dados inválidos"
// @Router /questions [post]
func (h *QuestionHandler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	var draft quiz.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		badRequest(w, "JSON invalide")
		return
	}

	id, err := h.questionUC.AddQuestion(r.Context(), draft)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// ListQuestions godoc
// @Summary Lista as perguntas de um nível
// @Description As alternativas vêm sem a flag de correção.
// @Tags Questions
// @Produce json
// @Security BearerAuth
// @Param difficulte query int true "Nível (1..3)"
// @Success 200 {array} quiz.Question
// @Failure 400 "Nível inválido"
// @Router /questions [get]
func (h *QuestionHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	difficulty, err := strconv.Atoi(r.URL.Query().Get("difficulte"))
	if err != nil || difficulty < 1 || difficulty > 3 {
		badRequest(w, "niveau de difficulté invalide")
		return
	}

	questions, err := h.questionUC.ListByDifficulty(r.Context(), difficulty)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}
