package persistence

import (
	"sync"

	"quizsalon/internal/domain/salon"
)

// roomLock é um mutex por salão com contagem de referências,
// removido do mapa quando ninguém mais o usa.
type roomLock struct {
	mu   sync.Mutex
	refs int
}

// InMemorySessionStore guarda o GameState de cada salão em memória.
// Salões diferentes nunca bloqueiam uns aos outros.
type InMemorySessionStore struct {
	mu     sync.Mutex
	states map[int64]*salon.GameState
	locks  map[int64]*roomLock
}

func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		states: make(map[int64]*salon.GameState),
		locks:  make(map[int64]*roomLock),
	}
}

// Lock serializa as mutações de um salão. Retorna a função de unlock.
func (s *InMemorySessionStore) Lock(roomID int64) func() {
	s.mu.Lock()
	l, ok := s.locks[roomID]
	if !ok {
		l = &roomLock{}
		s.locks[roomID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Unlock()
			s.mu.Lock()
			l.refs--
			if l.refs == 0 {
				delete(s.locks, roomID)
			}
			s.mu.Unlock()
		})
	}
}

// GetOrCreate devolve o estado do salão, criando um vazio em Lobby se não existir.
func (s *InMemorySessionStore) GetOrCreate(roomID int64) *salon.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.states[roomID]; ok {
		return st
	}
	st := salon.NewGameState(roomID)
	s.states[roomID] = st
	return st
}

// Get devolve o estado do salão, ou nil se ausente.
func (s *InMemorySessionStore) Get(roomID int64) *salon.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[roomID]
}

// Save substitui o estado do salão.
func (s *InMemorySessionStore) Save(roomID int64, st *salon.GameState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[roomID] = st
}

// Remove apaga o estado do salão.
func (s *InMemorySessionStore) Remove(roomID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, roomID)
}

// Len devolve o número de salões em memória.
func (s *InMemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}
