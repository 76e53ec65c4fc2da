package usecases

import (
	"context"

	"quizsalon/internal/domain/apperr"
	"quizsalon/internal/domain/player"
	"quizsalon/internal/domain/quiz"
	"quizsalon/internal/domain/ranking"
	"quizsalon/internal/domain/salon"
	"quizsalon/internal/infra/logger"
	"quizsalon/internal/ports"
)

// QuestionSource fornece o conjunto de perguntas de uma partida.
type QuestionSource interface {
	Pick(ctx context.Context, difficulty int) ([]quiz.Question, error)
}

// Verifier corrige uma submissão.
type Verifier interface {
	Verify(ctx context.Context, q quiz.Question, sub quiz.Submission) (quiz.Result, error)
}

// RatingApplier grava o classement de uma partida encerrada.
type RatingApplier interface {
	Apply(ctx context.Context, entries []ranking.Entry) []ranking.Placement
}

// GameSessionUseCases conduz a partida de um salão:
//
//	Lobby → Countdown → Active → Finished
//
// Todas as transições acontecem com o lock do salão, inclusive as agendadas.
type GameSessionUseCases struct {
	rooms     ports.RoomRepository
	store     ports.SessionStore
	hub       ports.RealTimeHub
	sched     *Scheduler
	lifecycle *LifecycleUseCases
	questions QuestionSource
	verifier  Verifier
	ratings   RatingApplier
	timings   Timings
}

func NewGameSessionUseCases(
	rooms ports.RoomRepository,
	store ports.SessionStore,
	hub ports.RealTimeHub,
	sched *Scheduler,
	lifecycle *LifecycleUseCases,
	questions QuestionSource,
	verifier Verifier,
	ratings RatingApplier,
	timings Timings,
) *GameSessionUseCases {
	uc := &GameSessionUseCases{
		rooms:     rooms,
		store:     store,
		hub:       hub,
		sched:     sched,
		lifecycle: lifecycle,
		questions: questions,
		verifier:  verifier,
		ratings:   ratings,
		timings:   timings,
	}
	lifecycle.SetDepartureHook(uc.afterDeparture)
	lifecycle.SetJoinHook(uc.afterJoin)
	return uc
}

// member devolve o estado do salão e a sessão do jogador, ou NotAMember.
func (uc *GameSessionUseCases) member(conn *player.Connection, roomID int64) (*salon.GameState, *salon.PlayerSession, error) {
	st := uc.store.Get(roomID)
	if st == nil {
		return nil, nil, apperr.New(apperr.KindNotAMember, "Vous n'êtes pas dans ce salon")
	}
	ps, ok := st.Player(conn.ID)
	if !ok {
		return nil, nil, apperr.New(apperr.KindNotAMember, "Vous n'êtes pas dans ce salon")
	}
	return st, ps, nil
}

// ToggleReady inverte o "prêt" do jogador. Fora do Lobby não faz nada.
func (uc *GameSessionUseCases) ToggleReady(ctx context.Context, conn *player.Connection, roomID int64) error {
	unlock := uc.store.Lock(roomID)
	defer unlock()

	st, ps, err := uc.member(conn, roomID)
	if err != nil {
		return err
	}
	if st.Phase != salon.PhaseLobby {
		return nil
	}

	ps.Ready = !ps.Ready
	uc.hub.Publish(salon.Topic(roomID), readyEvent(roomID, ps, st.Roster()))
	return nil
}

// Start lança a partida. Salões personalizados exigem que todos estejam prontos.
func (uc *GameSessionUseCases) Start(ctx context.Context, conn *player.Connection, roomID int64) error {
	unlock := uc.store.Lock(roomID)
	err := uc.startChecked(ctx, conn, roomID)
	unlock()
	if err != nil {
		return err
	}
	uc.lifecycle.BroadcastLobby(ctx)
	return nil
}

func (uc *GameSessionUseCases) startChecked(ctx context.Context, conn *player.Connection, roomID int64) error {
	room, err := uc.rooms.FindByID(ctx, roomID)
	if err != nil {
		return err
	}
	if room == nil {
		return apperr.NotFound("Salon introuvable")
	}

	st, _, err := uc.member(conn, roomID)
	if err != nil {
		return err
	}
	if st.Phase != salon.PhaseLobby {
		return apperr.PhaseViolation("La partie a déjà été lancée")
	}
	if room.Kind == salon.KindCustom && !st.AllReady() {
		return apperr.New(apperr.KindNotAllReady, "Tous les joueurs ne sont pas prêts")
	}
	return uc.startLocked(ctx, room, st)
}

// startLocked busca as perguntas, marca o salão como iniciado e dispara o compte à rebours.
// Nada muda no estado em memória se o banco falhar.
func (uc *GameSessionUseCases) startLocked(ctx context.Context, room *salon.Room, st *salon.GameState) error {
	questions, err := uc.questions.Pick(ctx, room.Difficulty)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		return apperr.New(apperr.KindNoQuestions, "Aucune question disponible pour ce niveau de difficulté")
	}
	if err := uc.rooms.MarkStarted(ctx, room.ID); err != nil {
		return err
	}
	if err := st.BeginCountdown(questions); err != nil {
		return err
	}
	room.Started = true

	logger.Info("Partida iniciada", "salon", room.ID, "jogadores", st.PlayerCount(), "perguntas", len(questions))
	uc.countdown(room.ID, st, CountdownSeconds)
	return nil
}

// countdown publica um tick por intervalo e ativa a partida ao chegar a zero.
// Cada tick confere que o salão ainda é o mesmo e continua em Countdown.
func (uc *GameSessionUseCases) countdown(roomID int64, st *salon.GameState, remaining int) {
	if remaining == 0 {
		if err := st.Activate(); err != nil {
			return
		}
		uc.hub.Publish(salon.Topic(roomID), gameStartEvent(st.Snapshot()))
		return
	}

	uc.hub.Publish(salon.Topic(roomID), countdownEvent(roomID, remaining))
	uc.sched.After(roomID, uc.timings.CountdownTick, func() {
		if uc.store.Get(roomID) != st || st.Phase != salon.PhaseCountdown {
			return
		}
		uc.countdown(roomID, st, remaining-1)
	})
}

// ScheduleAutoStart agenda o início de um salão rápido que ficou cheio.
// Ao disparar, só inicia se o salão continuar cheio e em Lobby.
func (uc *GameSessionUseCases) ScheduleAutoStart(roomID int64) {
	uc.sched.After(roomID, uc.timings.QuickStartDelay, func() {
		ctx := context.Background()
		st := uc.store.Get(roomID)
		if st == nil || st.Phase != salon.PhaseLobby {
			return
		}
		room, err := uc.rooms.FindByID(ctx, roomID)
		if err != nil || room == nil {
			return
		}
		if st.PlayerCount() < room.MaxPlayers {
			logger.Debug("Início automático cancelado, salão não está cheio", "salon", roomID)
			return
		}
		if err := uc.startLocked(ctx, room, st); err != nil {
			logger.Error("Falha no início automático", "salon", roomID, "erro", err)
			uc.hub.Publish(room.Topic(), ErrorEvent(PublicMessage(err)))
			return
		}
		uc.lifecycle.BroadcastLobby(ctx)
	})
}

// Answer corrige a resposta do jogador e faz a partida avançar quando todos responderam.
func (uc *GameSessionUseCases) Answer(ctx context.Context, conn *player.Connection, roomID int64, sub quiz.Submission) error {
	if err := sub.Validate(); err != nil {
		return err
	}

	unlock := uc.store.Lock(roomID)
	defer unlock()

	st, ps, err := uc.member(conn, roomID)
	if err != nil {
		return err
	}
	if st.Phase != salon.PhaseActive {
		return apperr.PhaseViolation("La partie n'est pas en cours")
	}
	if ps.Finished || ps.AnsweredCount > st.CurrentQuestionIndex {
		return apperr.PhaseViolation("Attendez les autres joueurs")
	}

	q, ok := quiz.FindQuestion(st.Questions, sub.QuestionID)
	if !ok {
		return apperr.NotFound("Question introuvable")
	}

	res, err := uc.verifier.Verify(ctx, q, sub)
	if err != nil {
		return err
	}

	ps.Score += res.PointsAwarded
	ps.AnsweredCount++
	uc.hub.SendTo(conn.ID, answerResultEvent(roomID, q.ID, res))

	uc.progressLocked(ctx, roomID, st)
	return nil
}

// progressLocked avança para a próxima pergunta, ou encerra, quando todos responderam.
func (uc *GameSessionUseCases) progressLocked(ctx context.Context, roomID int64, st *salon.GameState) {
	if st.Phase != salon.PhaseActive || !st.AllAnswered() {
		return
	}
	if st.IsLastQuestion() {
		uc.finishLocked(ctx, roomID, st)
		return
	}
	if err := st.NextQuestion(); err != nil {
		return
	}
	uc.hub.Publish(salon.Topic(roomID), nextQuestionEvent(roomID, st.CurrentQuestionIndex))
}

// finishLocked encerra a partida, grava o classement e agenda a remoção do salão.
// A transição para Finished só acontece uma vez, logo o classement também.
func (uc *GameSessionUseCases) finishLocked(ctx context.Context, roomID int64, st *salon.GameState) {
	if err := st.Finish(); err != nil {
		return
	}

	placements := uc.ratings.Apply(ctx, st.RankingEntries())
	uc.hub.Publish(salon.Topic(roomID), gameEndEvent(roomID, placements))
	logger.Info("Partida encerrada", "salon", roomID, "jogadores", len(placements))

	uc.sched.After(roomID, uc.timings.ResultLinger, func() {
		if uc.store.Get(roomID) != st {
			return
		}
		bg := context.Background()
		if err := uc.lifecycle.deleteLocked(bg, roomID); err != nil {
			logger.Error("Falha ao apagar salão encerrado", "salon", roomID, "erro", err)
			return
		}
		uc.lifecycle.BroadcastLobby(bg)
	})
}

// afterJoin agenda o início automático quando um salão rápido ou solo enche,
// seja qual for o caminho de entrada (partie rapide ou connect-<id>).
func (uc *GameSessionUseCases) afterJoin(ctx context.Context, room *salon.Room, st *salon.GameState) {
	if room.AutoStarts() && st.PlayerCount() >= room.MaxPlayers {
		uc.ScheduleAutoStart(room.ID)
	}
}

// afterDeparture reavalia a progressão quando um jogador sai durante a partida.
func (uc *GameSessionUseCases) afterDeparture(ctx context.Context, room *salon.Room, st *salon.GameState) {
	if st.Phase == salon.PhaseActive {
		uc.progressLocked(ctx, room.ID, st)
	}
}
