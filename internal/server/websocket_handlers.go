package server

import (
	"errors"

	"uniwiz/internal/middleware"
	"uniwiz/internal/models"
	"uniwiz/internal/notifications"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebsocketUpgrade rejects plain HTTP requests and requests made while push is disabled.
func (s *Server) WebsocketUpgrade(c *fiber.Ctx) error {
	if s.hub == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{
			Error: "push notifications are disabled",
		})
	}
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return c.Next()
}

// WebsocketHandler handles GET /api/ws
// @Summary Push notification stream
// @Description Delivers new_message, messages_read and (for admins) report_created events.
// @Description Polling endpoints stay authoritative; events may be dropped.
// @Tags push
// @Param token query string true "JWT"
// @Success 101
// @Failure 401 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /ws [get]
func (s *Server) WebsocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		uid, ok := conn.Locals("userID").(uint)
		if !ok {
			_ = conn.Close()
			return
		}
		role, _ := conn.Locals("userRole").(models.UserRole)

		client, err := s.hub.Register(uid, role == models.RoleAdmin, conn)
		if err != nil {
			middleware.Logger.Warn("websocket registration refused",
				"user_id", uid, "error", err)
			code := websocket.CloseTryAgainLater
			if errors.Is(err, notifications.ErrHubClosed) {
				code = websocket.CloseGoingAway
			}
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, err.Error()))
			_ = conn.Close()
			return
		}

		go client.WritePump()
		client.ReadPump()
	})
}
