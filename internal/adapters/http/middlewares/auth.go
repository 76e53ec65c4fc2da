package middlewares

import (
	"context"
	"encoding/json"
	"net/http"

	"quizsalon/internal/adapters/security"
	"quizsalon/internal/ports"
)

type contextKey string

const UserIDKey contextKey = "userID"

// AuthMiddleware cria um middleware para validação de JWT.
func AuthMiddleware(tokenService ports.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := security.BearerToken(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w, "Authentification requise (Bearer <token>)")
				return
			}

			userID, err := tokenService.ValidateToken(tokenString)
			if err != nil {
				unauthorized(w, "Token invalide ou expiré")
				return
			}

			// Injeta ID no contexto
			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}

// UserID devolve o ID da conta autenticada.
func UserID(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(UserIDKey).(string)
	return id, ok && id != ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
