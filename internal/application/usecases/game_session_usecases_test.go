package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"quizsalon/internal/application/usecases"
	"quizsalon/internal/domain/apperr"
	"quizsalon/internal/domain/player"
	"quizsalon/internal/domain/quiz"
	"quizsalon/internal/domain/ranking"
	"quizsalon/internal/domain/salon"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleReady(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	room := e.customRoom(t, 4)
	alice := e.conn("c1", 1)

	assert.ErrorIs(t, e.game.ToggleReady(ctx, alice, room.ID), apperr.ErrNotAMember)

	_, err := e.lifecycle.Join(ctx, alice, room.ID)
	require.NoError(t, err)

	require.NoError(t, e.game.ToggleReady(ctx, alice, room.ID))
	assert.True(t, e.player(room.ID, "c1").Ready)
	require.NoError(t, e.game.ToggleReady(ctx, alice, room.ID))
	assert.False(t, e.player(room.ID, "c1").Ready)

	readies := e.hub.ofType(usecases.EventReady)
	require.Len(t, readies, 2)
	assert.Equal(t, true, readies[0].Event["ready"])
	assert.Equal(t, int64(1), readies[0].Event["playerId"])
}

func TestStartRequiresAllReadyInCustomRooms(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	room := e.customRoom(t, 4)
	alice := e.conn("c1", 1)
	bob := e.conn("c2", 2)

	_, err := e.lifecycle.Join(ctx, alice, room.ID)
	require.NoError(t, err)
	_, err = e.lifecycle.Join(ctx, bob, room.ID)
	require.NoError(t, err)
	require.NoError(t, e.game.ToggleReady(ctx, alice, room.ID))

	err = e.game.Start(ctx, alice, room.ID)
	assert.ErrorIs(t, err, apperr.ErrNotAllReady)
	assert.Equal(t, salon.PhaseLobby, e.phase(room.ID))

	stored, _ := e.rooms.get(room.ID)
	assert.False(t, stored.Started)

	assert.ErrorIs(t, e.game.Start(ctx, e.conn("c3", 3), room.ID), apperr.ErrNotAMember)
	assert.ErrorIs(t, e.game.Start(ctx, alice, 999), apperr.ErrNotFound)
}

func TestStartFailuresLeaveLobbyIntact(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	room := e.customRoom(t, 4)
	alice := e.conn("c1", 1)
	_, err := e.lifecycle.Join(ctx, alice, room.ID)
	require.NoError(t, err)
	require.NoError(t, e.game.ToggleReady(ctx, alice, room.ID))

	e.rooms.failMarkStarted = apperr.Store("iniciar salão", errors.New("timeout"))
	err = e.game.Start(ctx, alice, room.ID)
	assert.ErrorIs(t, err, apperr.ErrStoreUnavailable)
	assert.Equal(t, salon.PhaseLobby, e.phase(room.ID))

	e.rooms.failMarkStarted = nil
	e.source.questions = nil
	err = e.game.Start(ctx, alice, room.ID)
	assert.ErrorIs(t, err, apperr.ErrNoQuestions)
	assert.Equal(t, salon.PhaseLobby, e.phase(room.ID))

	stored, _ := e.rooms.get(room.ID)
	assert.False(t, stored.Started)
}

// startedRoom cria um salão com alice e bob prontos e espera a fase Active.
func startedRoom(t *testing.T, e *env) (*salon.Room, *player.Connection, *player.Connection) {
	t.Helper()
	ctx := context.Background()
	room := e.customRoom(t, 4)
	alice := e.conn("c1", 1)
	bob := e.conn("c2", 2)

	_, err := e.lifecycle.Join(ctx, alice, room.ID)
	require.NoError(t, err)
	_, err = e.lifecycle.Join(ctx, bob, room.ID)
	require.NoError(t, err)
	require.NoError(t, e.game.ToggleReady(ctx, alice, room.ID))
	require.NoError(t, e.game.ToggleReady(ctx, bob, room.ID))

	require.NoError(t, e.game.Start(ctx, alice, room.ID))
	e.waitPhase(t, room.ID, salon.PhaseActive)
	return room, alice, bob
}

func TestFullGameRound(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	room, aliceConn, bobConn := startedRoom(t, e)

	stored, _ := e.rooms.get(room.ID)
	assert.True(t, stored.Started)

	countdowns := e.hub.ofType(usecases.EventCountdown)
	require.Len(t, countdowns, usecases.CountdownSeconds)
	assert.Equal(t, 3, countdowns[0].Event["seconds"])
	assert.Equal(t, 1, countdowns[2].Event["seconds"])

	starts := e.hub.ofType(usecases.EventGameStart)
	require.Len(t, starts, 1)
	snapshot := starts[0].Event["message"].(salon.Snapshot)
	assert.Len(t, snapshot.Questions, 2)
	assert.True(t, snapshot.Started)

	// Pergunta 1 (QCM): alice acerta, bob erra.
	require.NoError(t, e.game.Answer(ctx, aliceConn, room.ID, quiz.Submission{QuestionID: 1, AnswerID: answerID(10), ElapsedSeconds: 5}))

	err := e.game.Answer(ctx, aliceConn, room.ID, quiz.Submission{QuestionID: 2, AnswerText: answerText("Londres"), ElapsedSeconds: 1})
	assert.ErrorIs(t, err, apperr.ErrPhaseViolation, "must wait for the other players")

	require.NoError(t, e.game.Answer(ctx, bobConn, room.ID, quiz.Submission{QuestionID: 1, AnswerID: answerID(11), ElapsedSeconds: 2}))

	results := e.hub.ofType(usecases.EventAnswerResult)
	require.Len(t, results, 2)
	assert.Equal(t, "c1", results[0].ConnID)
	assert.Equal(t, true, results[0].Event["correct"])
	assert.Equal(t, 925, results[0].Event["pointsGagnes"])
	assert.Equal(t, false, results[1].Event["correct"])
	assert.Equal(t, "Paris", results[1].Event["bonneReponse"])

	next := e.hub.ofType(usecases.EventNextQuestion)
	require.Len(t, next, 1)
	assert.Equal(t, 1, next[0].Event["questionIndex"])

	// Pergunta 2 (texto livre): "londre" tem uma letra a menos.
	require.NoError(t, e.game.Answer(ctx, bobConn, room.ID, quiz.Submission{QuestionID: 2, AnswerText: answerText("londre"), ElapsedSeconds: 10}))
	require.NoError(t, e.game.Answer(ctx, aliceConn, room.ID, quiz.Submission{QuestionID: 2, AnswerText: answerText("Berlin"), ElapsedSeconds: 3}))

	assert.Equal(t, salon.PhaseFinished, e.phase(room.ID))
	assert.Equal(t, 925, e.player(room.ID, "c1").Score)
	assert.Equal(t, 800, e.player(room.ID, "c2").Score)
	assert.True(t, e.player(room.ID, "c1").Finished)

	ends := e.hub.ofType(usecases.EventGameEnd)
	require.Len(t, ends, 1)
	placements := ends[0].Event["classement"].([]ranking.Placement)
	require.Len(t, placements, 2)
	assert.Equal(t, int64(1), placements[0].PlayerID)
	assert.Equal(t, 130, placements[0].NewRating)
	assert.Equal(t, int64(2), placements[1].PlayerID)
	assert.Equal(t, 0, placements[1].NewRating)
	assert.Equal(t, -5, placements[1].Delta)

	assert.Equal(t, 130, e.profiles.elo(1))
	assert.Equal(t, 0, e.profiles.elo(2))
	assert.Len(t, e.histories.all(), 2)

	err = e.game.Answer(ctx, aliceConn, room.ID, quiz.Submission{QuestionID: 2, AnswerText: answerText("Londres"), ElapsedSeconds: 1})
	assert.ErrorIs(t, err, apperr.ErrPhaseViolation)
	assert.Equal(t, 925, e.player(room.ID, "c1").Score, "late answers do not change the score")

	wantOrder := []string{
		usecases.EventJoin, usecases.EventJoin, usecases.EventReady, usecases.EventReady,
		usecases.EventCountdown, usecases.EventCountdown, usecases.EventCountdown,
		usecases.EventGameStart, usecases.EventNextQuestion, usecases.EventGameEnd,
	}
	got := e.hub.typesOnTopic(room.Topic())
	require.GreaterOrEqual(t, len(got), len(wantOrder))
	assert.Equal(t, wantOrder, got[:len(wantOrder)])

	require.Eventually(t, func() bool {
		_, exists := e.rooms.get(room.ID)
		return !exists
	}, time.Second, 5*time.Millisecond, "room is deleted after the results linger")
}

func TestAnswerRejections(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	room := e.customRoom(t, 4)
	alice := e.conn("c1", 1)
	_, err := e.lifecycle.Join(ctx, alice, room.ID)
	require.NoError(t, err)

	err = e.game.Answer(ctx, alice, room.ID, quiz.Submission{QuestionID: 1, AnswerID: answerID(10)})
	assert.ErrorIs(t, err, apperr.ErrPhaseViolation, "answering in the lobby")

	err = e.game.Answer(ctx, alice, room.ID, quiz.Submission{QuestionID: 0})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	err = e.game.Answer(ctx, e.conn("c9", 3), room.ID, quiz.Submission{QuestionID: 1, AnswerID: answerID(10)})
	assert.ErrorIs(t, err, apperr.ErrNotAMember)
}

func TestAnswerValidationAndDataFailures(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	room, alice, _ := startedRoom(t, e)

	err := e.game.Answer(ctx, alice, room.ID, quiz.Submission{QuestionID: 42, AnswerID: answerID(10)})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	err = e.game.Answer(ctx, alice, room.ID, quiz.Submission{QuestionID: 1})
	assert.ErrorIs(t, err, apperr.ErrValidation, "qcm without answerId")

	e.questions.failCorrect = apperr.Store("verificar", errors.New("down"))
	err = e.game.Answer(ctx, alice, room.ID, quiz.Submission{QuestionID: 1, AnswerID: answerID(10)})
	assert.ErrorIs(t, err, apperr.ErrDataUnavailable)

	ps := e.player(room.ID, "c1")
	assert.Zero(t, ps.Score)
	assert.Zero(t, ps.AnsweredCount, "failed verification leaves the session untouched")
}

func TestLeaveDuringActiveAdvancesRemainingPlayers(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	room, alice, bob := startedRoom(t, e)

	require.NoError(t, e.game.Answer(ctx, alice, room.ID, quiz.Submission{QuestionID: 1, AnswerID: answerID(10), ElapsedSeconds: 1}))
	assert.Empty(t, e.hub.ofType(usecases.EventNextQuestion))

	require.NoError(t, e.lifecycle.Leave(ctx, bob, room.ID))

	next := e.hub.ofType(usecases.EventNextQuestion)
	require.Len(t, next, 1)
	assert.Equal(t, 1, next[0].Event["questionIndex"])
}

func TestDisconnectWithStoreDownStillAdvancesGame(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	room, alice, bob := startedRoom(t, e)

	e.rooms.setFailDecrement(apperr.Store("liberar vaga", errors.New("connection reset")))
	e.lifecycle.Disconnect(ctx, bob)

	assert.Zero(t, bob.CurrentRoom())
	assert.False(t, e.hub.subscribed("c2", room.Topic()))
	unlock := e.store.Lock(room.ID)
	assert.False(t, e.store.Get(room.ID).HasPlayer("c2"), "the session leaves memory even when the seat is not released")
	unlock()

	require.NoError(t, e.game.Answer(ctx, alice, room.ID, quiz.Submission{QuestionID: 1, AnswerID: answerID(10), ElapsedSeconds: 1}))
	next := e.hub.ofType(usecases.EventNextQuestion)
	require.Len(t, next, 1)
	assert.Equal(t, 1, next[0].Event["questionIndex"])

	stored, _ := e.rooms.get(room.ID)
	assert.Equal(t, 2, stored.CurrentPlayers)

	e.rooms.setFailDecrement(nil)
	require.Eventually(t, func() bool {
		stored, _ := e.rooms.get(room.ID)
		return stored.CurrentPlayers == 1
	}, time.Second, 2*time.Millisecond, "the seat is released by a later retry")
}

func TestCountdownSurvivesRoomDeletion(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	room := e.customRoom(t, 4)
	alice := e.conn("c1", 1)
	_, err := e.lifecycle.Join(ctx, alice, room.ID)
	require.NoError(t, err)
	require.NoError(t, e.game.ToggleReady(ctx, alice, room.ID))
	require.NoError(t, e.game.Start(ctx, alice, room.ID))

	require.NoError(t, e.lifecycle.Delete(ctx, room.ID))
	time.Sleep(10 * testTimings().CountdownTick)

	assert.Empty(t, e.hub.ofType(usecases.EventGameStart), "stale countdown does not start a deleted room")
	assert.Equal(t, salon.Phase(""), e.phase(room.ID))
}
