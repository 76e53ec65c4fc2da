package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"quizsalon/internal/adapters/http/middlewares"
	"quizsalon/internal/application/usecases"
)

// AuthHandler agrupa os handlers de autenticação.
type AuthHandler struct {
	registerUC *usecases.RegisterUseCase
	loginUC    *usecases.LoginUseCase
	getMeUC    *usecases.GetMeUseCase
	refreshUC  *usecases.RefreshUseCase
}

// NewAuthHandler cria um novo handler de autenticação.
func NewAuthHandler(
	registerUC *usecases.RegisterUseCase,
	loginUC *usecases.LoginUseCase,
	getMeUC *usecases.GetMeUseCase,
	refreshUC *usecases.RefreshUseCase,
) *AuthHandler {
	return &AuthHandler{
		registerUC: registerUC,
		loginUC:    loginUC,
		getMeUC:    getMeUC,
		refreshUC:  refreshUC,
	}
}

// Register godoc
// @Summary Cadastra um novo jogador
// @Description Cria uma conta (email, senha) e o perfil de jogo (pseudo, elo inicial 0).
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body usecases.RegisterInput true "Dados de cadastro"
// @Success 201 {object} usecases.RegisterOutput
// @Failure 400 {object} map[string]string "Erro de validação"
// @Failure 409 {object} map[string]string "Email já cadastrado"
// @Failure 500 {object} map[string]string "Erro interno"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input usecases.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		badRequest(w, "JSON invalide")
		return
	}

	output, err := h.registerUC.Execute(r.Context(), input)
	if err != nil {
		if errors.Is(err, usecases.ErrEmailDuplicado) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, output)
}

// Login godoc
// @Summary Autentica um jogador
// @Description Realiza login com email e senha e retorna um token JWT.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body usecases.LoginInput true "Credenciais"
// @Success 200 {object} usecases.LoginOutput
// @Failure 401 {object} map[string]string "Credenciais inválidas"
// @Failure 500 {object} map[string]string "Erro interno"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input usecases.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		badRequest(w, "JSON invalide")
		return
	}

	output, err := h.loginUC.Execute(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

// GetMe godoc
// @Summary Retorna o perfil do jogador logado
// @Description Obtém pseudo, avatar e elo do usuário autenticado via token JWT.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} player.Profile
// @Failure 401 {object} map[string]string "Não autenticado"
// @Failure 404 {object} map[string]string "Perfil não encontrado"
// @Router /auth/me [get]
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, _ := middlewares.UserID(r)

	output, err := h.getMeUC.Execute(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

// Refresh godoc
// @Summary Renova o token
// @Description Troca um token ainda válido por outro com validade renovada.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} usecases.LoginOutput
// @Failure 401 {object} map[string]string "Não autenticado"
// @Failure 404 {object} map[string]string "Perfil não encontrado"
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	userID, _ := middlewares.UserID(r)

	output, err := h.refreshUC.Execute(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, output)
}
