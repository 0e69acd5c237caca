package handlers

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/sponsorlink/backend/internal/events"
	"github.com/sponsorlink/backend/internal/middleware"
	"go.uber.org/zap"
)

const ctxWSUserID = "ws_user_id"

// WSHub forwards ad request events to the connected participants.
type WSHub struct {
	subscriber  events.Subscriber
	log         *zap.Logger
	mu          sync.RWMutex
	connections map[int64][]*websocket.Conn
}

func NewWSHub(subscriber events.Subscriber, log *zap.Logger) *WSHub {
	return &WSHub{
		subscriber:  subscriber,
		log:         log,
		connections: make(map[int64][]*websocket.Conn),
	}
}

func (h *WSHub) Start(ctx context.Context) error {
	return h.subscriber.Subscribe(ctx, events.StreamAdRequests, h.dispatch)
}

func (h *WSHub) dispatch(event events.Event) {
	if len(event.UserIDs) == 0 {
		h.broadcast(event)
		return
	}
	for _, id := range event.UserIDs {
		h.SendToUser(id, event)
	}
}

func (h *WSHub) broadcast(event events.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, conns := range h.connections {
		for _, conn := range conns {
			_ = conn.WriteMessage(websocket.TextMessage, data)
		}
	}
}

func (h *WSHub) SendToUser(userID int64, event events.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, conn := range h.connections[userID] {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Debug("ws write failed", zap.Int64("user_id", userID), zap.Error(err))
		}
	}
}

// WSUpgradeMiddleware accepts websocket upgrades from logged-in users only.
func WSUpgradeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		id, ok := middleware.CurrentUserID(c)
		if !ok {
			return fiber.ErrUnauthorized
		}
		c.Locals(ctxWSUserID, id)
		return c.Next()
	}
}

func (h *WSHub) HandleWS(conn *websocket.Conn) {
	userID, ok := conn.Locals(ctxWSUserID).(int64)
	if !ok {
		conn.Close()
		return
	}

	h.mu.Lock()
	h.connections[userID] = append(h.connections[userID], conn)
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		conns := h.connections[userID]
		for i, c := range conns {
			if c == conn {
				h.connections[userID] = append(conns[:i], conns[i+1:]...)
				break
			}
		}
		if len(h.connections[userID]) == 0 {
			delete(h.connections, userID)
		}
		h.mu.Unlock()
		conn.Close()
	}()

	// Read loop (keep alive / pings)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
