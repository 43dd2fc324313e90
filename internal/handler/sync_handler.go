package handler

import (
	"context"
	"os"

	"notedeck-be/internal/pkg/logger"
	internalWS "notedeck-be/internal/websocket"
	"notedeck-be/pkg/events"
	pktNats "notedeck-be/pkg/nats"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SyncHandler owns the realtime surface: the websocket endpoint editors
// connect to, and the NATS worker that forwards domain events (finished
// transcriptions, share invites) to the owning user's sessions.
type SyncHandler struct {
	hub    *internalWS.Hub
	sub    *pktNats.Subscriber
	logger logger.ILogger
}

func NewSyncHandler(hub *internalWS.Hub, sub *pktNats.Subscriber, log logger.ILogger) *SyncHandler {
	return &SyncHandler{
		hub:    hub,
		sub:    sub,
		logger: log,
	}
}

// ServeWs authenticates the handshake and hands the connection to the hub.
// The token may arrive as a query param (browsers cannot set headers on
// websocket upgrades) or a bearer header.
func (h *SyncHandler) ServeWs(c *fiber.Ctx) error {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token"})
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		h.logger.Warn("SyncHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token missing user_id"})
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user id in token"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("SyncHandler", "WebSocket session started", map[string]interface{}{"user_id": userID})
			internalWS.ServeWs(h.hub, conn, userID)
			h.logger.Info("SyncHandler", "WebSocket session ended", map[string]interface{}{"user_id": userID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// Start subscribes to the domain event stream and relays user-addressed
// events over the hub. No-op when NATS is not connected.
func (h *SyncHandler) Start() {
	if h.sub == nil {
		return
	}
	err := h.sub.Subscribe("events.>", "sync-handler", func(ctx context.Context, event events.Event) error {
		payload := event.Payload()
		userIDStr, ok := payload["user_id"].(string)
		if !ok {
			if userIDStr, ok = payload["owner_id"].(string); !ok {
				return nil
			}
		}
		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			return nil
		}
		h.hub.Send(userID, event.EventType(), payload)
		return nil
	})
	if err != nil {
		h.logger.Error("SyncHandler", "Failed to subscribe to event stream", map[string]interface{}{"error": err.Error()})
	}
}

func (h *SyncHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs)
}
