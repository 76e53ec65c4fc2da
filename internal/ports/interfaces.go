package ports

import (
	"context"
	"time"

	"quizsalon/internal/domain/account"
	"quizsalon/internal/domain/friendship"
	"quizsalon/internal/domain/history"
	"quizsalon/internal/domain/player"
	"quizsalon/internal/domain/quiz"
	"quizsalon/internal/domain/salon"
)

// RoomRepository define a persistência dos salões (fonte de verdade da contagem e das flags).
type RoomRepository interface {
	// Create insere o salão e preenche room.ID.
	Create(ctx context.Context, room *salon.Room) error

	// FindByID busca um salão. Retorna (nil, nil) se não existir.
	FindByID(ctx context.Context, id int64) (*salon.Room, error)

	// FindOpenQuick devolve o primeiro salão rápido ainda não iniciado, ou (nil, nil).
	FindOpenQuick(ctx context.Context) (*salon.Room, error)

	// ListOpen lista os salões do tipo informado que ainda não começaram.
	ListOpen(ctx context.Context, kind salon.Kind) ([]*salon.Room, error)

	// IncrementPlayers incrementa current_players apenas se houver vaga e o salão
	// não tiver começado. Retorna false se a condição falhou.
	IncrementPlayers(ctx context.Context, id int64) (bool, error)

	// DecrementPlayers decrementa current_players sem passar de zero.
	DecrementPlayers(ctx context.Context, id int64) error

	// MarkStarted marca o salão como iniciado (false → true apenas).
	MarkStarted(ctx context.Context, id int64) error

	// Delete remove o salão. Idempotente.
	Delete(ctx context.Context, id int64) error
}

// QuestionRepository define o acesso ao banco de perguntas.
type QuestionRepository interface {
	// FindByDifficulty lista as perguntas (com as opções de resposta) de um nível.
	FindByDifficulty(ctx context.Context, difficulty int) ([]quiz.Question, error)

	// AnswerCorrectness devolve a flag de correção do par (pergunta, resposta).
	// found=false se o par não existir.
	AnswerCorrectness(ctx context.Context, questionID, answerID int64) (correct bool, label string, found bool, err error)

	// CanonicalAnswer devolve o texto da resposta correta. found=false se não houver.
	CanonicalAnswer(ctx context.Context, questionID int64) (text string, found bool, err error)

	// Create cadastra uma pergunta com as alternativas numa transação e devolve o ID.
	Create(ctx context.Context, d quiz.Draft) (int64, error)

	// FindByID busca uma pergunta com as alternativas. Retorna (nil, nil) se não existir.
	FindByID(ctx context.Context, id int64) (*quiz.Question, error)
}

// QuestionCache é o cache do conjunto de perguntas por nível.
type QuestionCache interface {
	Invalidate(ctx context.Context, difficulty int) error
}

// ProfileRepository define a persistência dos perfis de jogador.
type ProfileRepository interface {
	Create(ctx context.Context, p *player.Profile) error
	FindByID(ctx context.Context, id int64) (*player.Profile, error)
	FindByUserID(ctx context.Context, userID string) (*player.Profile, error)
	// FindByPseudo devolve o perfil mais antigo com esse pseudo, ou (nil, nil).
	FindByPseudo(ctx context.Context, pseudo string) (*player.Profile, error)
	UpdateRating(ctx context.Context, id int64, elo int) error
	// UpdateProfile grava pseudo e avatar.
	UpdateProfile(ctx context.Context, id int64, pseudo, avatar string) error
}

// AvatarRepository lê o catálogo de avatares.
type AvatarRepository interface {
	List(ctx context.Context) ([]player.Avatar, error)
	// FindByID retorna (nil, nil) se o avatar não existir.
	FindByID(ctx context.Context, id int64) (*player.Avatar, error)
}

// FriendshipRepository define a persistência das amizades.
// Um par de perfis tem no máximo uma relação, em qualquer sentido.
type FriendshipRepository interface {
	// FindBetween devolve a relação entre a e b (qualquer sentido), ou (nil, nil).
	FindBetween(ctx context.Context, a, b int64) (*friendship.Friendship, error)

	Create(ctx context.Context, f *friendship.Friendship) error

	// Accept passa um pedido pendente para amizade. false se o pedido não existir.
	Accept(ctx context.Context, requesterID, receiverID int64) (bool, error)

	// DeletePending apaga um pedido pendente. false se o pedido não existir.
	DeletePending(ctx context.Context, requesterID, receiverID int64) (bool, error)

	// DeleteBetween apaga a relação entre a e b, qualquer que seja o estado.
	DeleteBetween(ctx context.Context, a, b int64) error

	// ListFriends lista os perfis com amizade aceita, por pseudo.
	ListFriends(ctx context.Context, profileID int64) ([]player.Profile, error)

	// ListPendingFor lista quem enviou um pedido ainda pendente a receiverID.
	ListPendingFor(ctx context.Context, receiverID int64) ([]player.Profile, error)
}

// HistoryRepository define a persistência do histórico de partidas.
type HistoryRepository interface {
	Append(ctx context.Context, r *history.Record) error
	ListByProfile(ctx context.Context, profileID int64, limit, offset int) ([]*history.Record, error)
}

// AccountRepository define as operações de persistência para contas.
type AccountRepository interface {
	// Create salva uma nova conta no banco de dados.
	Create(ctx context.Context, acc *account.Account) error

	// FindByEmail busca uma conta pelo email. Retorna (nil, nil) se não encontrar.
	FindByEmail(ctx context.Context, email string) (*account.Account, error)

	// FindByID busca uma conta pelo ID.
	FindByID(ctx context.Context, id string) (*account.Account, error)
}

// PasswordHasher define o contrato para hash e verificação de senhas.
type PasswordHasher interface {
	// HashPassword gera um hash seguro da senha.
	HashPassword(password string) (string, error)

	// ComparePassword compara uma senha em texto plano com um hash.
	// Retorna nil se forem iguais, ou erro se forem diferentes.
	ComparePassword(hash, password string) error
}

// TokenService define o contrato para geração e validação de tokens JWT.
type TokenService interface {
	// GenerateToken gera um token de acesso para o ID do usuário fornecido.
	GenerateToken(userID string) (string, int64, error)

	// ValidateToken valida o token e retorna o ID do usuário se válido.
	ValidateToken(tokenString string) (string, error)
}

// IdentityResolver transforma um bearer token em identidade de jogador.
// Qualquer falha é apperr.KindUnauthenticated.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, bearerToken string) (player.Identity, error)
}

// RealTimeHub define o contrato de envio de mensagens em tempo real.
// Publish e SendTo só enfileiram: a ordem das chamadas é a ordem de entrega.
type RealTimeHub interface {
	Subscribe(connID, topic string)
	Unsubscribe(connID, topic string)
	Publish(topic string, message any)
	SendTo(connID string, message any)
	// Subscribers lista as conexões inscritas num tópico.
	Subscribers(topic string) []string
}

// SessionStore guarda o estado em memória de cada salão.
// Toda leitura ou escrita de um GameState acontece com o lock do salão.
type SessionStore interface {
	// Lock serializa as operações de um salão e devolve o unlock.
	Lock(roomID int64) func()
	GetOrCreate(roomID int64) *salon.GameState
	// Get devolve nil se o salão não está em memória.
	Get(roomID int64) *salon.GameState
	Save(roomID int64, st *salon.GameState)
	Remove(roomID int64)
}

// Clock permite controlar o tempo nos testes.
type Clock func() time.Time
