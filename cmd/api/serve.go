package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"quizsalon/internal/adapters/events"
	httpadapter "quizsalon/internal/adapters/http"
	"quizsalon/internal/adapters/http/handlers"
	"quizsalon/internal/adapters/persistence"
	"quizsalon/internal/adapters/security"
	"quizsalon/internal/adapters/websocket"
	"quizsalon/internal/application/usecases"
	"quizsalon/internal/infra/config"
	infraDB "quizsalon/internal/infra/db"
	"quizsalon/internal/infra/logger"
	"quizsalon/internal/ports"

	"github.com/redis/go-redis/v9"
)

// openDatabase conecta e aplica as migrações embutidas.
func openDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := infraDB.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("não foi possível conectar ao banco: %w", err)
	}
	if err := infraDB.Migrate(ctx, db, cfg.Database.Driver); err != nil {
		db.Close()
		return nil, fmt.Errorf("falha na migração: %w", err)
	}
	return db, nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	// 1. Banco de Dados
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	// 2. Adapters (Driven - Persistence)
	driver := cfg.Database.Driver
	roomRepo := persistence.NewSQLRoomRepository(db, driver)
	profileRepo := persistence.NewSQLProfileRepository(db, driver)
	historyRepo := persistence.NewSQLHistoryRepository(db, driver)
	accountRepo := persistence.NewSQLAccountRepository(db, driver)
	avatarRepo := persistence.NewSQLAvatarRepository(db, driver)
	friendshipRepo := persistence.NewSQLFriendshipRepository(db, driver)
	sessionStore := persistence.NewInMemorySessionStore()

	var questionRepo ports.QuestionRepository = persistence.NewSQLQuestionRepository(db, driver)
	var questionCache ports.QuestionCache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis indisponível em %s: %w", cfg.Redis.Addr, err)
		}
		cached := persistence.NewRedisQuestionCache(questionRepo, rdb, cfg.Redis.CacheTTL)
		questionRepo, questionCache = cached, cached
		logger.Info("Cache de perguntas ativo", "redis", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
	}

	hasher := security.NewBcryptHasher()
	tokenService := security.NewJWTService(cfg.JWTSecret)

	// 3. Tempo real
	// O banco fecha por último: gateway e scheduler param antes, em shutdown().
	wsHub := websocket.NewHub()
	sched := usecases.NewScheduler(sessionStore.Lock)
	defer sched.Stop()

	timings := usecases.Timings{
		CountdownTick:   cfg.Game.CountdownTick,
		QuickStartDelay: cfg.Game.QuickStartDelay,
		EmptyGrace:      cfg.Game.EmptyRoomGrace,
		ResultLinger:    cfg.Game.ResultLinger,
		StoreRetry:      cfg.Game.StoreRetry,
	}

	// 4. Application (Use Cases)
	picker := usecases.NewQuestionPicker(questionRepo, cfg.Game.QuestionsPerGame)
	verifier := usecases.NewAnswerVerifier(questionRepo)

	lifecycleUC := usecases.NewLifecycleUseCases(roomRepo, sessionStore, wsHub, sched, timings)
	gameUC := usecases.NewGameSessionUseCases(roomRepo, sessionStore, wsHub, sched, lifecycleUC,
		picker,
		verifier,
		usecases.NewRatingUseCases(profileRepo, historyRepo),
		timings,
	)
	matchUC := usecases.NewMatchmakingUseCases(roomRepo, lifecycleUC)

	registerUC := usecases.NewRegisterUseCase(accountRepo, profileRepo, hasher)
	loginUC := usecases.NewLoginUseCase(accountRepo, hasher, tokenService)
	getMeUC := usecases.NewGetMeUseCase(profileRepo)
	refreshUC := usecases.NewRefreshUseCase(tokenService, profileRepo)
	identityUC := usecases.NewIdentityUseCase(tokenService, profileRepo)
	historyUC := usecases.NewHistoryUseCases(historyRepo, profileRepo)
	questionUC := usecases.NewQuestionUseCases(questionRepo, questionCache)
	profileUC := usecases.NewProfileUseCases(profileRepo, avatarRepo)
	friendUC := usecases.NewFriendUseCases(profileRepo, friendshipRepo)
	soloUC := usecases.NewSoloUseCases(questionRepo, picker, verifier)

	// 5. Fonte externa de eventos (opcional)
	if cfg.NATS.URL != "" {
		nc, err := events.Connect(cfg.NATS.URL)
		if err != nil {
			return err
		}
		source := events.NewNATSSource(nc, cfg.NATS.Subject, lifecycleUC)
		if err := source.Start(); err != nil {
			nc.Close()
			return err
		}
		defer source.Close()
	}

	// 6. Adapters (Driving - Handlers)
	gateway := websocket.NewGateway(wsHub, identityUC, lifecycleUC, gameUC, matchUC)
	router := httpadapter.NewRouter(httpadapter.Handlers{
		Auth:     handlers.NewAuthHandler(registerUC, loginUC, getMeUC, refreshUC),
		Salons:   handlers.NewSalonHandler(lifecycleUC, cfg.PublicURL),
		History:  handlers.NewHistoryHandler(historyUC),
		Question: handlers.NewQuestionHandler(questionUC),
		Friends:  handlers.NewFriendHandler(friendUC),
		Profile:  handlers.NewProfileHandler(profileUC),
		Solo:     handlers.NewSoloHandler(soloUC),
		Gateway:  gateway,
	}, tokenService, cfg.PublicURL)

	// 7. Servidor
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("Iniciando servidor", "porta", cfg.Port, "driver", driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	var serveErr error
	select {
	case err, ok := <-errs:
		if ok {
			serveErr = fmt.Errorf("falha no servidor HTTP: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("Encerrando servidor")
	if err := shutdown(srv, gateway, sched); err != nil && serveErr == nil {
		return err
	}
	return serveErr
}

// shutdown para o HTTP, fecha os websockets e espera cada desconexão liberar
// o seu salão, e só então para o scheduler.
func shutdown(srv *http.Server, gateway *websocket.Gateway, sched *usecases.Scheduler) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	httpErr := srv.Shutdown(ctx)
	if err := gateway.Shutdown(ctx); err != nil {
		logger.Warn("Conexões websocket não encerraram a tempo", "erro", err)
	}
	sched.Stop()
	return httpErr
}
