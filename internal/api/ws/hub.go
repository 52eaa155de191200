package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"avatarshop/internal/domain"
	"avatarshop/internal/metrics"
)

const writeWait = 10 * time.Second

type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type BalanceUpdateData struct {
	Gold    uint `json:"gold"`
	Tickets uint `json:"tickets"`
}

// Hub holds at most one socket per user. A newer connection replaces the
// previous one.
type Hub struct {
	connections map[uuid.UUID]*websocket.Conn
	mu          sync.RWMutex
	writeMu     sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[uuid.UUID]*websocket.Conn),
	}
}

func (h *Hub) Register(userID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, exists := h.connections[userID]; exists && old != conn {
		old.Close()
	} else if !exists {
		metrics.WSConnections.Inc()
	}
	h.connections[userID] = conn
	zap.L().Debug("ws connected", zap.Stringer("user_id", userID), zap.Int("connections", len(h.connections)))
}

// Unregister drops conn if it is still the registered socket of userID.
func (h *Hub) Unregister(userID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	current, exists := h.connections[userID]
	if !exists || current != conn {
		return
	}
	current.Close()
	delete(h.connections, userID)
	metrics.WSConnections.Dec()
	zap.L().Debug("ws disconnected", zap.Stringer("user_id", userID), zap.Int("connections", len(h.connections)))
}

func (h *Hub) SendToUser(userID uuid.UUID, msg Message) error {
	h.mu.RLock()
	conn, exists := h.connections[userID]
	h.mu.RUnlock()

	if !exists {
		return nil
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.writeMu.Lock()
	defer h.writeMu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (h *Hub) NotifyBalance(userID uuid.UUID, wallet domain.Wallet) error {
	return h.SendToUser(userID, Message{
		Type: "balance_update",
		Data: BalanceUpdateData{Gold: wallet.Gold, Tickets: wallet.Tickets},
	})
}

func (h *Hub) IsConnected(userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, exists := h.connections[userID]
	return exists
}

func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

func (h *Hub) GetConnectedUserIDs() []uuid.UUID {
	h.mu.RLock()
	defer h.mu.RUnlock()

	userIDs := make([]uuid.UUID, 0, len(h.connections))
	for userID := range h.connections {
		userIDs = append(userIDs, userID)
	}
	return userIDs
}
