package websocket

import (
	"encoding/json"
	"strconv"
	"strings"

	"quizsalon/internal/application/usecases"
	"quizsalon/internal/domain/apperr"
	"quizsalon/internal/domain/quiz"
)

// CommandType identifica um comando recebido do cliente.
type CommandType string

const (
	CmdPing    CommandType = "ping"
	CmdFetch   CommandType = "fetch"
	CmdQuick   CommandType = "rapide"
	CmdCreate  CommandType = "create"
	CmdConnect CommandType = "connect"
	CmdLeave   CommandType = "leave"
	CmdReady   CommandType = "ready"
	CmdStart   CommandType = "start"
	CmdAnswer  CommandType = "answer"
)

// Command é um frame de texto já interpretado.
type Command struct {
	Type   CommandType
	RoomID int64 // connect/leave/ready/start e, opcionalmente, answer

	Create usecases.CreateRoomInput
	Answer quiz.Submission
}

// answerPayload aceita um salonId opcional junto com a submissão.
type answerPayload struct {
	SalonID int64 `json:"salonId,omitempty"`
	quiz.Submission
}

var roomCommands = []CommandType{CmdConnect, CmdLeave, CmdReady, CmdStart}

// ParseCommand interpreta um frame:
//
//	ping | fetch | rapide
//	create:{"label":..,"difficulty":..,"maxPlayers":..}
//	connect-<id> | leave-<id> | ready-<id> | start-<id>
//	answer:{"questionId":..,"answerId":..,"answerText":..,"elapsedSeconds":..}
func ParseCommand(raw []byte) (Command, error) {
	text := strings.TrimSpace(string(raw))

	switch CommandType(text) {
	case CmdPing, CmdFetch, CmdQuick:
		return Command{Type: CommandType(text)}, nil
	}

	if body, ok := strings.CutPrefix(text, string(CmdCreate)+":"); ok {
		var input usecases.CreateRoomInput
		if err := json.Unmarshal([]byte(body), &input); err != nil {
			return Command{}, apperr.Validation("JSON invalide pour la création de salon")
		}
		return Command{Type: CmdCreate, Create: input}, nil
	}

	if body, ok := strings.CutPrefix(text, string(CmdAnswer)+":"); ok {
		var payload answerPayload
		if err := json.Unmarshal([]byte(body), &payload); err != nil {
			return Command{}, apperr.Validation("JSON invalide pour la réponse")
		}
		if err := payload.Submission.Validate(); err != nil {
			return Command{}, err
		}
		return Command{Type: CmdAnswer, RoomID: payload.SalonID, Answer: payload.Submission}, nil
	}

	for _, typ := range roomCommands {
		if idText, ok := strings.CutPrefix(text, string(typ)+"-"); ok {
			id, err := strconv.ParseInt(idText, 10, 64)
			if err != nil || id <= 0 {
				return Command{}, apperr.Validation("identifiant de salon invalide")
			}
			return Command{Type: typ, RoomID: id}, nil
		}
	}

	return Command{}, apperr.Validation("Commande inconnue")
}
