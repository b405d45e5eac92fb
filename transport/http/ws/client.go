package ws

import (
	"net/http"
	"strings"
	"time"

	"hotel/infras/jwt"
	"hotel/shared/constant"
	"hotel/shared/failure"
	"hotel/transport/http/response"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 256

	requestParamTopics = "topics"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(*http.Request) bool {
		return true
	},
}

// Client is one dashboard socket. An empty topic set receives every entity.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	topics map[string]struct{}
	send   chan []byte
}

func (c *Client) subscribed(entity string) bool {
	if len(c.topics) == 0 {
		return true
	}

	_, ok := c.topics[entity]

	return ok
}

// readPump only watches for disconnects; dashboards do not send messages.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("user_id", c.userID).Msg("websocket closed unexpectedly")
			}

			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})

				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Handler upgrades authenticated requests. Browsers cannot set headers on a
// websocket handshake so the access token travels in the token query param.
func Handler(hub *Hub, jwtService jwt.JWT) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		token := request.URL.Query().Get(constant.RequestParamToken)
		if token == constant.Empty {
			response.WithError(writer, failure.Unauthorized("missing token"))

			return
		}

		claims, err := jwtService.ValidateToken(request.Context(), token, jwt.AccessToken)
		if err != nil {
			response.WithError(writer, failure.Unauthorized("invalid token"))

			return
		}

		conn, err := upgrader.Upgrade(writer, request, nil)
		if err != nil {
			log.Error().Err(err).Msg("websocket upgrade failed")

			return
		}

		client := &Client{
			hub:    hub,
			conn:   conn,
			userID: claims.UserID,
			topics: parseTopics(request.URL.Query().Get(requestParamTopics)),
			send:   make(chan []byte, sendBuffer),
		}
		hub.register <- client

		go client.writePump()
		go client.readPump()
	}
}

func parseTopics(raw string) map[string]struct{} {
	topics := map[string]struct{}{}

	for topic := range strings.SplitSeq(raw, ",") {
		if topic = strings.TrimSpace(topic); topic != constant.Empty {
			topics[topic] = struct{}{}
		}
	}

	return topics
}
