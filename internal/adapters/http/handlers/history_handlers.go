package handlers

import (
	"net/http"
	"strconv"

	"quizsalon/internal/adapters/http/middlewares"
	"quizsalon/internal/application/usecases"
)

type HistoryHandler struct {
	historyUC *usecases.HistoryUseCases
}

func NewHistoryHandler(historyUC *usecases.HistoryUseCases) *HistoryHandler {
	return &HistoryHandler{historyUC: historyUC}
}

// ListMine godoc
// @Summary Histórico de partidas
// @Description Lista as partidas do jogador logado, da mais recente para a mais antiga.
// @Tags Profile
// @Produce json
// @Param page query int false "Página (default 1)"
// @Param limit query int false "Limite (default 20, máx. 100)"
// @Success 200 {array} history.Record
// @Security BearerAuth
// @Router /profile/historique [get]
func (h *HistoryHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, _ := middlewares.UserID(r)

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	records, err := h.historyUC.ListForUser(r.Context(), userID, page, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, records)
}
