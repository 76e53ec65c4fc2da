package usecases

import (
	"strconv"

	"quizsalon/internal/domain/quiz"
	"quizsalon/internal/domain/ranking"
	"quizsalon/internal/domain/salon"
)

// Tipos dos eventos enviados aos clientes
const (
	EventSalonsInit    = "salons_init"
	EventSuccess       = "success"
	EventJoin          = "join"
	EventLeave         = "leave"
	EventReady         = "ready"
	EventCountdown     = "game_countdown"
	EventGameStart     = "game-start"
	EventNextQuestion  = "next_question"
	EventAnswerResult  = "answer_result"
	EventGameEnd       = "game_end"
	EventError         = "error"
	EventSalonDeleted  = "salon_deleted"
	EventSalonsChanged = "salons_changed"
)

// Event é a mensagem JSON enviada pelo hub; "type" é o discriminador.
type Event map[string]any

func salonsInitEvent(rooms []*salon.Room) Event {
	return Event{"type": EventSalonsInit, "salons": rooms}
}

func successEvent(message string) Event {
	return Event{"type": EventSuccess, "message": message}
}

// ErrorEvent é o evento de erro enviado apenas à conexão que originou o comando.
func ErrorEvent(message string) Event {
	return Event{"type": EventError, "message": message}
}

func rosterEvent(typ string, roomID int64, players []salon.PlayerSession, message string) Event {
	return Event{
		"type":    typ,
		"salonId": roomID,
		"players": players,
		"message": message,
	}
}

func readyEvent(roomID int64, ps *salon.PlayerSession, players []salon.PlayerSession) Event {
	message := ps.Profile.Pseudo + " n'est plus prêt"
	if ps.Ready {
		message = ps.Profile.Pseudo + " est prêt"
	}
	return Event{
		"type":     EventReady,
		"salonId":  roomID,
		"playerId": ps.Profile.ID,
		"ready":    ps.Ready,
		"players":  players,
		"message":  message,
	}
}

func countdownEvent(roomID int64, seconds int) Event {
	return Event{
		"type":    EventCountdown,
		"salonId": roomID,
		"seconds": seconds,
		"message": "La partie commence dans " + strconv.Itoa(seconds),
	}
}

func gameStartEvent(snapshot salon.Snapshot) Event {
	return Event{"type": EventGameStart, "salonId": snapshot.SalonID, "message": snapshot}
}

func nextQuestionEvent(roomID int64, index int) Event {
	return Event{"type": EventNextQuestion, "salonId": roomID, "questionIndex": index}
}

func answerResultEvent(roomID, questionID int64, res quiz.Result) Event {
	return Event{
		"type":           EventAnswerResult,
		"salonId":        roomID,
		"questionId":     questionID,
		"correct":        res.Correct,
		"misspelled":     res.Misspelled,
		"distance":       res.Distance,
		"malus":          res.Malus,
		"elapsedSeconds": res.ElapsedSeconds,
		"pointsGagnes":   res.PointsAwarded,
		"bonneReponse":   res.CanonicalAnswer,
	}
}

func gameEndEvent(roomID int64, placements []ranking.Placement) Event {
	return Event{"type": EventGameEnd, "salonId": roomID, "classement": placements}
}

func salonDeletedEvent(roomID int64) Event {
	return Event{"type": EventSalonDeleted, "salonId": roomID, "message": "Le salon a été fermé"}
}
