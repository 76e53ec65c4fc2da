// Package events recebe avisos externos de mudança nos salões (por exemplo,
// outra instância ou um painel de administração) e atualiza o lobby.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"quizsalon/internal/infra/logger"

	"github.com/nats-io/nats.go"
)

// LobbyRefresher reenvia a lista de salões abertos ao lobby.
type LobbyRefresher interface {
	BroadcastLobby(ctx context.Context)
}

// Notification é o corpo opcional de uma mensagem. Corpo vazio também é aceito.
type Notification struct {
	Source  string `json:"source,omitempty"`
	SalonID int64  `json:"salonId,omitempty"`
}

// NATSSource assina um subject e dispara um salons_init a cada mensagem.
type NATSSource struct {
	conn    *nats.Conn
	subject string
	lobby   LobbyRefresher
	timeout time.Duration

	sub *nats.Subscription
}

// Connect abre a conexão com reconexão infinita.
func Connect(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(
		url,
		nats.Name("quizsalon"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.PingInterval(20*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS desconectado", "erro", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconectado", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("erro ao conectar no NATS: %w", err)
	}
	return conn, nil
}

func NewNATSSource(conn *nats.Conn, subject string, lobby LobbyRefresher) *NATSSource {
	return &NATSSource{
		conn:    conn,
		subject: subject,
		lobby:   lobby,
		timeout: 5 * time.Second,
	}
}

// Start assina o subject. As mensagens são tratadas em ordem, numa goroutine do cliente NATS.
func (s *NATSSource) Start() error {
	sub, err := s.conn.Subscribe(s.subject, s.handle)
	if err != nil {
		return fmt.Errorf("erro ao assinar %q: %w", s.subject, err)
	}
	s.sub = sub
	logger.Info("Fonte de eventos NATS ativa", "subject", s.subject)
	return nil
}

func (s *NATSSource) handle(msg *nats.Msg) {
	var n Notification
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &n); err != nil {
			logger.Warn("Mensagem NATS ignorada", "subject", msg.Subject, "erro", err)
			return
		}
	}
	logger.Debug("Aviso de mudança nos salões", "subject", msg.Subject, "origem", n.Source, "salon", n.SalonID)

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.lobby.BroadcastLobby(ctx)
}

// Close cancela a assinatura e esvazia a conexão.
func (s *NATSSource) Close() error {
	if s.sub != nil {
		if err := s.sub.Unsubscribe(); err != nil {
			logger.Warn("Erro ao cancelar assinatura NATS", "erro", err)
		}
	}
	return s.conn.Drain()
}
