package ws

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"signal-service/internal/middleware"
	"signal-service/internal/response"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Hub bridges the Redis event bus to WebSocket subscribers. Each
// connection names the bus channels it wants and receives every event
// published there; delivery is at-most-once with no backpressure beyond
// a bounded send buffer.
type Hub struct {
	validator middleware.TokenValidator
	redis     *redis.Client
	logger    *zap.Logger
}

func NewHub(validator middleware.TokenValidator, redisClient *redis.Client, logger *zap.Logger) *Hub {
	return &Hub{
		validator: validator,
		redis:     redisClient,
		logger:    logger,
	}
}

// HandleEvents godoc
// @Summary      Subscribe to signaling events over WebSocket
// @Tags         websocket
// @Param        channels query string true "Comma-separated bus channels"
// @Param        token query string true "JWT Access Token"
// @Success      101 {string} string "Switching Protocols"
// @Failure      401 {object} map[string]string
// @Router       /ws/events [get]
func (h *Hub) HandleEvents(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Token required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	userID, err := h.validator.ValidateToken(ctx, token)
	if err != nil || userID == uuid.Nil {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid token")
		return
	}

	channels := splitChannels(c.Query("channels"))
	if len(channels) == 0 {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeBadRequest, "No channels requested")
		return
	}

	if h.redis == nil {
		response.SendError(c, http.StatusServiceUnavailable, response.ErrCodeInternal, "Event bus unavailable")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("failed to upgrade connection", zap.Error(err))
		return
	}

	middleware.RecordWebSocketConnection()
	h.logger.Info("event subscriber connected",
		zap.String("user_id", userID.String()),
		zap.Strings("channels", channels))

	send := make(chan []byte, 256)
	pubsub := h.redis.Subscribe(context.Background(), channels...)

	go h.forward(pubsub, send)
	go h.writePump(conn, send)
	h.readPump(conn, pubsub, userID)
}

func splitChannels(raw string) []string {
	var channels []string
	for _, ch := range strings.Split(raw, ",") {
		ch = strings.TrimSpace(ch)
		if ch != "" {
			channels = append(channels, ch)
		}
	}
	return channels
}

// forward moves bus messages into the connection's send buffer. A full
// buffer drops the message; the poll fallback covers slow consumers.
func (h *Hub) forward(pubsub *redis.PubSub, send chan<- []byte) {
	for msg := range pubsub.Channel() {
		select {
		case send <- []byte(msg.Payload):
		default:
			h.logger.Warn("subscriber send buffer full, dropping event",
				zap.String("channel", msg.Channel))
		}
	}
	close(send)
}

func (h *Hub) readPump(conn *websocket.Conn, pubsub *redis.PubSub, userID uuid.UUID) {
	defer func() {
		pubsub.Close()
		conn.Close()
		middleware.RecordWebSocketDisconnection()
		h.logger.Info("event subscriber disconnected", zap.String("user_id", userID.String()))
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("websocket read error", zap.Error(err))
			}
			return
		}
	}
}

func (h *Hub) writePump(conn *websocket.Conn, send <-chan []byte) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
