package handlers

import (
	"encoding/json"
	"net/http"

	"quizsalon/internal/application/usecases"
	"quizsalon/internal/domain/apperr"
	"quizsalon/internal/infra/logger"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Erro ao serializar resposta", "erro", err)
	}
}

// writeError traduz o Kind do erro em status HTTP.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(apperr.KindOf(err))
	if status >= http.StatusInternalServerError {
		logger.Error("Erro interno na requisição", "erro", err)
	}
	writeJSON(w, status, map[string]string{"error": usecases.PublicMessage(err)})
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": message})
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindCapacity, apperr.KindAlreadyStarted, apperr.KindPhaseViolation,
		apperr.KindNotAllReady, apperr.KindNotAMember, apperr.KindNoQuestions:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
