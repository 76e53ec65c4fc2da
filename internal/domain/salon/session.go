package salon

import (
	"quizsalon/internal/domain/apperr"
	"quizsalon/internal/domain/player"
	"quizsalon/internal/domain/quiz"
	"quizsalon/internal/domain/ranking"
)

// Phase é o estado da partida (State Machine)
//
//	Lobby → Countdown → Active → Finished
type Phase string

const (
	PhaseLobby     Phase = "lobby"
	PhaseCountdown Phase = "countdown"
	PhaseActive    Phase = "active"
	PhaseFinished  Phase = "finished"
)

// PlayerSession é o estado de um jogador dentro de um salão.
type PlayerSession struct {
	ConnectionID  string         `json:"connectionId"`
	UserID        string         `json:"-"`
	Profile       player.Profile `json:"profile"`
	Score         int            `json:"score"`
	Ready         bool           `json:"isReady"`
	Finished      bool           `json:"finished"`
	AnsweredCount int            `json:"answeredCount"`
}

// GameState é o estado em memória de um salão. Só deve ser lido ou
// alterado por quem detém o lock do salão no SessionStore.
type GameState struct {
	RoomID               int64
	Questions            []quiz.Question
	CurrentQuestionIndex int
	Phase                Phase

	players map[string]*PlayerSession
	order   []string // ordem de entrada
}

// NewGameState cria um estado vazio em Lobby.
func NewGameState(roomID int64) *GameState {
	return &GameState{
		RoomID:  roomID,
		Phase:   PhaseLobby,
		players: make(map[string]*PlayerSession),
	}
}

// AddPlayer adiciona a sessão de um jogador. Uma conexão só entra uma vez.
func (g *GameState) AddPlayer(ps PlayerSession) error {
	if _, exists := g.players[ps.ConnectionID]; exists {
		return apperr.Validation("Vous êtes déjà dans ce salon")
	}
	p := ps
	g.players[ps.ConnectionID] = &p
	g.order = append(g.order, ps.ConnectionID)
	return nil
}

// RemovePlayer remove a sessão do jogador. Retorna false se não existia.
func (g *GameState) RemovePlayer(connID string) bool {
	if _, exists := g.players[connID]; !exists {
		return false
	}
	delete(g.players, connID)
	for i, id := range g.order {
		if id == connID {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	return true
}

func (g *GameState) Player(connID string) (*PlayerSession, bool) {
	p, ok := g.players[connID]
	return p, ok
}

func (g *GameState) HasPlayer(connID string) bool {
	_, ok := g.players[connID]
	return ok
}

func (g *GameState) PlayerCount() int { return len(g.players) }

func (g *GameState) IsEmpty() bool { return len(g.players) == 0 }

// Roster devolve cópias das sessões na ordem de entrada.
func (g *GameState) Roster() []PlayerSession {
	out := make([]PlayerSession, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, *g.players[id])
	}
	return out
}

// AllReady indica se todos os jogadores (pelo menos um) estão prontos.
func (g *GameState) AllReady() bool {
	if len(g.players) == 0 {
		return false
	}
	for _, p := range g.players {
		if !p.Ready {
			return false
		}
	}
	return true
}

// AllAnswered indica se todos responderam à pergunta atual.
func (g *GameState) AllAnswered() bool {
	if len(g.players) == 0 {
		return false
	}
	for _, p := range g.players {
		if p.AnsweredCount != g.CurrentQuestionIndex+1 {
			return false
		}
	}
	return true
}

// IsLastQuestion indica se a pergunta atual é a última do conjunto.
func (g *GameState) IsLastQuestion() bool {
	return g.CurrentQuestionIndex >= len(g.Questions)-1
}

// BeginCountdown guarda as perguntas e passa de Lobby para Countdown.
func (g *GameState) BeginCountdown(questions []quiz.Question) error {
	if g.Phase != PhaseLobby {
		return apperr.PhaseViolation("La partie a déjà été lancée")
	}
	if len(questions) == 0 {
		return apperr.New(apperr.KindNoQuestions, "Aucune question disponible pour ce niveau de difficulté")
	}
	g.Questions = questions
	g.CurrentQuestionIndex = 0
	g.Phase = PhaseCountdown
	return nil
}

// Activate passa de Countdown para Active.
func (g *GameState) Activate() error {
	if g.Phase != PhaseCountdown {
		return apperr.PhaseViolation("Le compte à rebours n'est pas en cours")
	}
	g.Phase = PhaseActive
	return nil
}

// NextQuestion avança para a próxima pergunta.
func (g *GameState) NextQuestion() error {
	if g.Phase != PhaseActive {
		return apperr.PhaseViolation("La partie n'a pas commencé")
	}
	if g.IsLastQuestion() {
		return apperr.PhaseViolation("Il n'y a plus de question")
	}
	g.CurrentQuestionIndex++
	return nil
}

// Finish encerra a partida e marca todos os jogadores como finalizados.
// Só pode acontecer uma vez.
func (g *GameState) Finish() error {
	if g.Phase != PhaseActive {
		return apperr.PhaseViolation("La partie n'est pas en cours")
	}
	g.Phase = PhaseFinished
	for _, p := range g.players {
		p.Finished = true
	}
	return nil
}

// RankingEntries monta a entrada do ranking na ordem de entrada dos jogadores.
func (g *GameState) RankingEntries() []ranking.Entry {
	entries := make([]ranking.Entry, 0, len(g.order))
	for _, id := range g.order {
		p := g.players[id]
		entries = append(entries, ranking.Entry{
			PlayerID:    p.Profile.ID,
			Pseudo:      p.Profile.Pseudo,
			TotalPoints: p.Score,
		})
	}
	return entries
}

// Snapshot é o estado enviado aos clientes no início da partida.
type Snapshot struct {
	SalonID              int64           `json:"salonId"`
	Phase                Phase           `json:"phase"`
	Started              bool            `json:"partieCommencee"`
	CurrentQuestionIndex int             `json:"currentQuestionIndex"`
	Questions            []quiz.Question `json:"questions"`
	Players              []PlayerSession `json:"joueurs"`
}

func (g *GameState) Snapshot() Snapshot {
	return Snapshot{
		SalonID:              g.RoomID,
		Phase:                g.Phase,
		Started:              g.Phase != PhaseLobby,
		CurrentQuestionIndex: g.CurrentQuestionIndex,
		Questions:            g.Questions,
		Players:              g.Roster(),
	}
}
