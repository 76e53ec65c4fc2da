package handlers

import (
	"encoding/json"
	"net/http"

	"quizsalon/internal/adapters/http/middlewares"
	"quizsalon/internal/application/usecases"
)

type FriendHandler struct {
	friendUC *usecases.FriendUseCases
}

func NewFriendHandler(friendUC *usecases.FriendUseCases) *FriendHandler {
	return &FriendHandler{friendUC: friendUC}
}

// ListFriends godoc
// @Summary Lista os amigos
// @Tags Friends
// @Produce json
// @Security BearerAuth
// @Success 200 {array} player.Profile
// @Failure 401 {object} map[string]string "Não autenticado"
// @Router /amis [get]
func (h *FriendHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	userID, _ := middlewares.UserID(r)

	friends, err := h.friendUC.ListFriends(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, friends)
}

// SendRequest godoc
// @Summary Envia um pedido de amizade
// @Description O destinatário é identificado pelo pseudo.
// @Tags Friends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body usecases.FriendRequestInput true "Destinatário"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string "Pedido inválido"
// @Failure 404 {object} map[string]string "Perfil não encontrado"
// @Failure 409 {object} map[string]string "Pedido ou amizade já existe"
// @Router /amis [post]
func (h *FriendHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	var input usecases.FriendRequestInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		badRequest(w, "JSON invalide")
		return
	}
	userID, _ := middlewares.UserID(r)

	if err := h.friendUC.SendRequest(r.Context(), userID, input); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Demande d'ami envoyée"})
}

// Remove godoc
// @Summary Remove um amigo
// @Description Desfaz a relação nos dois sentidos. Remover quem não é amigo não é erro.
// @Tags Friends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body usecases.RemoveFriendInput true "Amigo"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "idAmi ausente"
// @Router /amis [delete]
func (h *FriendHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var input usecases.RemoveFriendInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		badRequest(w, "JSON invalide")
		return
	}
	userID, _ := middlewares.UserID(r)

	if err := h.friendUC.Remove(r.Context(), userID, input); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Ami supprimé"})
}

// ListPending godoc
// @Summary Pedidos recebidos pendentes
// @Tags Friends
// @Produce json
// @Security BearerAuth
// @Success 200 {array} player.Profile
// @Router /amis/demande [get]
func (h *FriendHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	userID, _ := middlewares.UserID(r)

	pending, err := h.friendUC.ListPending(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pending)
}

// Respond godoc
// @Summary Responde a um pedido de amizade
// @Description action = accepter ou refuser. Recusar apaga o pedido.
// @Tags Friends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body usecases.FriendResponseInput true "Resposta"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Ação inválida"
// @Failure 404 {object} map[string]string "Pedido não encontrado"
// @Router /amis/demande [post]
func (h *FriendHandler) Respond(w http.ResponseWriter, r *http.Request) {
	var input usecases.FriendResponseInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		badRequest(w, "JSON invalide")
		return
	}
	userID, _ := middlewares.UserID(r)

	if err := h.friendUC.Respond(r.Context(), userID, input); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Réponse enregistrée"})
}
