package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"avatarshop/internal/api/middleware"
	"avatarshop/internal/api/ws"
	"avatarshop/internal/config"
)

type WebSocketHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

func NewWebSocketHandler(hub *ws.Hub, cfg *config.Config) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if !cfg.IsProduction() {
					return true
				}
				origin := r.Header.Get("Origin")
				return origin == "" || strings.HasSuffix(origin, r.Host)
			},
		},
	}
}

// HandleConnection godoc
// @Summary Balance push socket
// @Description Upgrades to a websocket that receives balance_update messages
// @Tags ws
// @Param token query string true "JWT"
// @Success 101
// @Failure 401 {object} map[string]string
// @Router /api/ws [get]
func (h *WebSocketHandler) HandleConnection(c echo.Context) error {
	userID, err := middleware.GetUserIDFromContext(c.Request().Context())
	if err != nil {
		return ErrUnauthorized(c)
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		zap.L().Warn("websocket upgrade", zap.Stringer("user_id", userID), zap.Error(err))
		return nil
	}

	h.hub.Register(userID, conn)
	defer h.hub.Unregister(userID, conn)

	// the client never sends anything meaningful; reading detects the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}
