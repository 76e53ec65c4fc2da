package handlers

import (
	"encoding/json"
	"net/http"

	"quizsalon/internal/adapters/http/middlewares"
	"quizsalon/internal/application/usecases"
)

type ProfileHandler struct {
	profileUC *usecases.ProfileUseCases
}

func NewProfileHandler(profileUC *usecases.ProfileUseCases) *ProfileHandler {
	return &ProfileHandler{profileUC: profileUC}
}

// UpdateProfile godoc
// @Summary Edita o perfil
// @Description Troca o pseudo e, se idAvatar vier, o avatar.
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body usecases.UpdateProfileInput true "Novos dados"
// @Success 200 {object} player.Profile
// @Failure 400 {object} map[string]string "Pseudo ausente"
// @Failure 404 {object} map[string]string "Avatar não encontrado"
// @Router /profile [post]
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var input usecases.UpdateProfileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		badRequest(w, "JSON invalide")
		return
	}
	userID, _ := middlewares.UserID(r)

	profile, err := h.profileUC.UpdateProfile(r.Context(), userID, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// ListAvatars godoc
// @Summary Catálogo de avatares
// @Tags Profile
// @Produce json
// @Success 200 {array} player.Avatar
// @Router /avatar [get]
func (h *ProfileHandler) ListAvatars(w http.ResponseWriter, r *http.Request) {
	avatars, err := h.profileUC.ListAvatars(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, avatars)
}
