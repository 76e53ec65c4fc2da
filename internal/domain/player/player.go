package player

import "sync"

// Profile é o perfil público de um jogador.
type Profile struct {
	ID     int64  `json:"id"`
	UserID string `json:"-"`
	Pseudo string `json:"pseudo"`
	Avatar string `json:"avatar,omitempty"`
	Elo    int    `json:"elo"`
}

// Avatar é uma imagem do catálogo; o perfil guarda a URL escolhida.
type Avatar struct {
	ID  int64  `json:"idAvatar"`
	URL string `json:"urlAvatar"`
}

// Identity é o resultado da autenticação de uma conexão.
type Identity struct {
	UserID  string
	Profile Profile
}

// Connection é a sessão de uma conexão websocket, criada na autenticação
// e passada por referência a todos os handlers de comando.
type Connection struct {
	ID       string
	Identity Identity

	mu          sync.Mutex
	currentRoom int64
}

// NewConnection cria a sessão de uma conexão autenticada.
func NewConnection(id string, identity Identity) *Connection {
	return &Connection{ID: id, Identity: identity}
}

// CurrentRoom devolve o salão atual, ou 0.
func (c *Connection) CurrentRoom() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentRoom
}

// EnterRoom registra o salão atual e devolve o anterior (0 se nenhum).
func (c *Connection) EnterRoom(roomID int64) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.currentRoom
	c.currentRoom = roomID
	return prev
}

// LeaveRoom limpa o salão atual apenas se ainda for roomID.
func (c *Connection) LeaveRoom(roomID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.currentRoom == roomID {
		c.currentRoom = 0
	}
}
