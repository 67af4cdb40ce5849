package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/hemant101104/MovieStream/internal/auth"
	"github.com/hemant101104/MovieStream/internal/config"
	"github.com/hemant101104/MovieStream/internal/registry"
	"github.com/hemant101104/MovieStream/internal/store"
	"github.com/rs/zerolog/log"
)

// Client 绑定一条 WebSocket 连接和已验证的用户身份。
// room 只在 readPump goroutine 里读写，不需要额外同步。
type Client struct {
	id       string
	userID   string
	username string
	hub      *Hub
	room     *RoomHub
	conn     *websocket.Conn
	send     chan []byte

	sendMu   sync.Mutex
	closed   bool
	discOnce sync.Once
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Serve 验证凭证后升级连接并进入事件循环。未认证的连接到不了任何
// 房间操作。
func Serve(h *Hub, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.BearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		ident, err := auth.Verify(token, cfg.JWTSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		client := &Client{
			id:       uuid.NewString(),
			userID:   ident.UserID,
			username: ident.Username,
			hub:      h,
			conn:     conn,
			send:     make(chan []byte, 256),
		}
		h.AddClient(client)

		go client.writePump()
		client.readPump()
	}
}

// trySend 非阻塞入队；连接已关闭或缓冲已满时返回 false。
func (c *Client) trySend(b []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- b:
		return true
	default:
		return false
	}
}

func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) sendError(msg string) {
	c.trySend(marshal(errorEvent{Type: EvError, Message: msg}))
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Disconnect(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(1 << 20) // 1MB
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		var in Inbound
		if err := json.Unmarshal(data, &in); err != nil {
			continue
		}
		c.dispatch(in)
	}
}

// dispatch 按事件类型路由。除 join/leave/signal 外的事件都要求连接
// 已绑定房间。
func (c *Client) dispatch(in Inbound) {
	switch in.Type {
	case EvJoinRoom:
		if in.RoomCode == "" {
			c.sendError("missing room code")
			return
		}
		if err := c.hub.Join(c, in.RoomCode); err != nil {
			if errors.Is(err, registry.ErrRoomNotFound) {
				c.sendError("room not found")
				return
			}
			log.Error().Err(err).Str("room", in.RoomCode).Str("conn", c.id).Msg("join room")
			c.sendError("failed to join room")
		}
	case EvLeaveRoom:
		c.hub.Leave(c)
	case EvPlaybackAction:
		if c.room == nil {
			c.sendError("not in a room")
			return
		}
		if err := c.room.ApplyAction(c, in.Action, in.CurrentTime, in.URL); err != nil {
			if errors.Is(err, store.ErrUnavailable) {
				log.Error().Err(err).Str("room", c.room.code).Msg("persist playback")
				c.sendError("failed to apply action")
				return
			}
			c.sendError(err.Error())
		}
	case EvChatSend:
		if c.room == nil {
			c.sendError("not in a room")
			return
		}
		if in.Message == "" {
			return
		}
		c.room.Chat(c, in.Message)
	case EvSignalSend:
		if in.To == "" {
			return
		}
		c.hub.RelaySignal(c, in.To, in.Signal)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			_, _ = w.Write(message)
			_ = w.Close()
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
