package usecases_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"quizsalon/internal/application/usecases"
	"quizsalon/internal/domain/apperr"
	"quizsalon/internal/domain/player"
	"quizsalon/internal/domain/salon"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuickMatchFillsOneRoomThenStarts(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	var conns []*player.Connection
	var roomID int64
	for i := 1; i <= salon.QuickMaxPlayers; i++ {
		c := e.conn(fmt.Sprintf("c%d", i), int64(i))
		conns = append(conns, c)

		room, err := e.match.JoinOrCreateQuickRoom(ctx, c)
		require.NoError(t, err)
		if roomID == 0 {
			roomID = room.ID
			assert.True(t, strings.HasPrefix(room.Label, "Rapide-"))
			assert.Equal(t, salon.KindQuick, room.Kind)
			assert.Equal(t, salon.QuickDifficulty, room.Difficulty)
		}
		assert.Equal(t, roomID, room.ID, "every player lands in the same quick room")
	}

	for _, c := range conns {
		assert.True(t, e.player(roomID, c.ID).Ready, "quick rooms mark players ready")
	}

	e.waitPhase(t, roomID, salon.PhaseActive)
	stored, _ := e.rooms.get(roomID)
	assert.True(t, stored.Started)
	assert.Equal(t, salon.QuickMaxPlayers, stored.CurrentPlayers)

	late := e.conn("c9", 1)
	next, err := e.match.JoinOrCreateQuickRoom(ctx, late)
	require.NoError(t, err)
	assert.NotEqual(t, roomID, next.ID)
	assert.Equal(t, 1, next.CurrentPlayers)
}

func TestQuickRoomFilledThroughDirectJoinStarts(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	var roomID int64
	for i := 1; i < salon.QuickMaxPlayers; i++ {
		room, err := e.match.JoinOrCreateQuickRoom(ctx, e.conn(fmt.Sprintf("c%d", i), int64(i)))
		require.NoError(t, err)
		roomID = room.ID
	}
	assert.Never(t, func() bool { return e.phase(roomID) != salon.PhaseLobby },
		5*testTimings().QuickStartDelay, testTimings().QuickStartDelay)

	last, err := e.lifecycle.Join(ctx, e.conn("c9", 4), roomID)
	require.NoError(t, err)
	assert.True(t, last.IsFull())

	e.waitPhase(t, roomID, salon.PhaseActive)
	stored, _ := e.rooms.get(roomID)
	assert.True(t, stored.Started)
}

func TestSoloRoomStartsOnJoin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	room, err := salon.NewRoom("Entraînement", 2, salon.KindSolo, 1)
	require.NoError(t, err)
	require.NoError(t, e.rooms.Create(ctx, room))

	_, err = e.lifecycle.Join(ctx, e.conn("c1", 1), room.ID)
	require.NoError(t, err)
	assert.True(t, e.player(room.ID, "c1").Ready)

	e.waitPhase(t, room.ID, salon.PhaseActive)

	_, err = e.lifecycle.Join(ctx, e.conn("c2", 2), room.ID)
	assert.ErrorIs(t, err, apperr.ErrAlreadyStarted)
}

func TestQuickRoomDoesNotAutoStartWhenSomeoneLeaves(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	var conns []*player.Connection
	var roomID int64
	for i := 1; i <= salon.QuickMaxPlayers-1; i++ {
		c := e.conn(fmt.Sprintf("c%d", i), int64(i))
		conns = append(conns, c)
		room, err := e.match.JoinOrCreateQuickRoom(ctx, c)
		require.NoError(t, err)
		roomID = room.ID
	}

	require.NoError(t, e.lifecycle.Leave(ctx, conns[0], roomID))
	e.game.ScheduleAutoStart(roomID)

	assert.Never(t, func() bool { return e.phase(roomID) != salon.PhaseLobby },
		10*testTimings().QuickStartDelay, testTimings().QuickStartDelay)
}

func TestCreateCustomRoom(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.conn("c1", 1)

	room, err := e.match.CreateCustomRoom(ctx, alice, usecases.CreateRoomInput{Label: "  Histoire  ", Difficulty: 3})
	require.NoError(t, err)
	assert.Equal(t, "Histoire", room.Label)
	assert.Equal(t, salon.KindCustom, room.Kind)
	assert.Equal(t, salon.DefaultMaxPlayers, room.MaxPlayers)
	assert.Equal(t, 1, room.CurrentPlayers)
	assert.Equal(t, room.ID, alice.CurrentRoom())
	assert.False(t, e.player(room.ID, "c1").Ready)

	_, err = e.match.CreateCustomRoom(ctx, alice, usecases.CreateRoomInput{Label: "", Difficulty: 2})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = e.match.CreateCustomRoom(ctx, alice, usecases.CreateRoomInput{Label: "x", Difficulty: 4})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = e.match.CreateCustomRoom(ctx, alice, usecases.CreateRoomInput{Label: "x", Difficulty: 1, MaxPlayers: 11})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreateCustomRoomRemovesOrphanWhenJoinFails(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.rooms.failIncrement = apperr.Store("reservar vaga", errors.New("down"))

	_, err := e.match.CreateCustomRoom(ctx, e.conn("c1", 1), usecases.CreateRoomInput{Label: "Sciences", Difficulty: 1})
	assert.ErrorIs(t, err, apperr.ErrStoreUnavailable)

	_, exists := e.rooms.get(1)
	assert.False(t, exists)
}
