package httpadapter

import (
	"net/http"
	"strings"

	"quizsalon/internal/adapters/http/handlers"
	"quizsalon/internal/adapters/http/middlewares"
	"quizsalon/internal/adapters/websocket"
	"quizsalon/internal/ports"

	_ "quizsalon/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Handlers agrupa os handlers montados no router.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Salons   *handlers.SalonHandler
	History  *handlers.HistoryHandler
	Question *handlers.QuestionHandler
	Friends  *handlers.FriendHandler
	Profile  *handlers.ProfileHandler
	Solo     *handlers.SoloHandler
	Gateway  *websocket.Gateway
}

// NewRouter configura as rotas e middlewares.
func NewRouter(h Handlers, tokenService ports.TokenService, publicURL string) http.Handler {
	r := chi.NewRouter()

	// Middlewares globais
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Rota de Health Check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Swagger
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(strings.TrimRight(publicURL, "/")+"/swagger/doc.json"),
	))

	// WebSocket (autenticação feita no próprio upgrade)
	r.Get("/ws", h.Gateway.HandleWS)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(middlewares.AuthMiddleware(tokenService))
			r.Get("/me", h.Auth.GetMe)
			r.Post("/refresh", h.Auth.Refresh)
		})
	})

	// Catálogo público, usado já na tela de cadastro
	r.Get("/avatar", h.Profile.ListAvatars)

	// Salões (públicos, para o convite por QR code)
	r.Route("/salons", func(r chi.Router) {
		r.Get("/", h.Salons.ListOpen)
		r.Get("/{id}", h.Salons.GetSalon)
		r.Get("/{id}/qrcode", h.Salons.QRCode)
	})

	r.Group(func(r chi.Router) {
		r.Use(middlewares.AuthMiddleware(tokenService))

		r.Post("/profile", h.Profile.UpdateProfile)
		r.Get("/profile/historique", h.History.ListMine)

		r.Get("/questions", h.Question.ListQuestions)
		r.Post("/questions", h.Question.AddQuestion)

		// Modo solo
		r.Get("/normal/aleatoire/question", h.Solo.RandomQuestions)
		r.Post("/verifier-reponse", h.Solo.CheckAnswer)

		r.Route("/amis", func(r chi.Router) {
			r.Get("/", h.Friends.ListFriends)
			r.Post("/", h.Friends.SendRequest)
			r.Delete("/", h.Friends.Remove)
			r.Get("/demande", h.Friends.ListPending)
			r.Post("/demande", h.Friends.Respond)
		})
	})

	return r
}
