package websocket

import (
	"encoding/json"
	"sort"
	"sync"

	"quizsalon/internal/infra/logger"
)

// Hub implementa ports.RealTimeHub: guarda os clientes conectados e as
// inscrições de cada um nos tópicos (lobby e salões).
type Hub struct {
	clients map[string]*Client
	topics  map[string]map[string]struct{}

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		topics:  make(map[string]map[string]struct{}),
	}
}

// Register passa a entregar mensagens ao cliente.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, ok := h.clients[client.ID]; ok && old != client {
		old.closeSend()
	}
	h.clients[client.ID] = client
}

// Unregister remove o cliente de todos os tópicos e fecha o canal de envio.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.clients[client.ID]; !ok || current != client {
		return
	}
	delete(h.clients, client.ID)
	for topic, subs := range h.topics {
		delete(subs, client.ID)
		if len(subs) == 0 {
			delete(h.topics, topic)
		}
	}
	client.closeSend()
}

func (h *Hub) Subscribe(connID, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[connID]; !ok {
		return
	}
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[string]struct{})
	}
	h.topics[topic][connID] = struct{}{}
}

func (h *Hub) Unsubscribe(connID, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subs, ok := h.topics[topic]; ok {
		delete(subs, connID)
		if len(subs) == 0 {
			delete(h.topics, topic)
		}
	}
}

// Subscribers lista as conexões inscritas num tópico, ordenadas.
func (h *Hub) Subscribers(topic string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]string, 0, len(h.topics[topic]))
	for id := range h.topics[topic] {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Publish serializa a mensagem uma vez e a enfileira para todos os inscritos.
// O enfileiramento é síncrono: a ordem das chamadas é a ordem de entrega.
func (h *Hub) Publish(topic string, message any) {
	bytes, err := json.Marshal(message)
	if err != nil {
		logger.Error("Erro ao serializar broadcast", "topico", topic, "erro", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for id := range h.topics[topic] {
		if client, ok := h.clients[id]; ok {
			h.deliver(client, bytes)
		}
	}
}

// SendTo envia uma mensagem JSON a uma única conexão.
func (h *Hub) SendTo(connID string, message any) {
	bytes, err := json.Marshal(message)
	if err != nil {
		logger.Error("Erro ao serializar mensagem direta", "conn", connID, "erro", err)
		return
	}
	h.SendRaw(connID, bytes)
}

// SendRaw envia um frame de texto sem serializar (ex.: "pong").
func (h *Hub) SendRaw(connID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if client, ok := h.clients[connID]; ok {
		h.deliver(client, payload)
	}
}

// deliver nunca bloqueia: cliente lento perde a mensagem.
func (h *Hub) deliver(client *Client, payload []byte) {
	select {
	case client.send <- payload:
	default:
		logger.Warn("Buffer do cliente cheio, mensagem descartada", "conn", client.ID)
	}
}

// ConnectionCount devolve o número de clientes registrados.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stop fecha todos os clientes.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, client := range h.clients {
		client.closeSend()
		delete(h.clients, id)
	}
	h.topics = make(map[string]map[string]struct{})
}
