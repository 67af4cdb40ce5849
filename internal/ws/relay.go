package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hemant101104/MovieStream/internal/metrics"
)

// Chat 把聊天消息包装后广播给房间内所有连接，包括发送者本人。
// 发送者从广播里渲染自己的回显，保证所有成员看到一致的顺序。
func (rh *RoomHub) Chat(c *Client, message string) {
	rh.mu.Lock()
	defer rh.mu.Unlock()

	evt := marshal(chatMessageEvent{
		Type:      EvChatMessage,
		ID:        uuid.NewString(),
		Message:   message,
		User:      UserRef{ID: c.userID, Username: c.username},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	metrics.ChatMessagesTotal.Inc()
	rh.fanout(evt, nil)
}

// RelaySignal 把不透明的信令负载原样转发给指定连接，附上发送方连接 id。
// 目标连接已不存在时静默丢弃：信令本就是尽力而为。
func (h *Hub) RelaySignal(from *Client, to string, signal json.RawMessage) {
	target := h.Client(to)
	if target == nil {
		return
	}
	target.trySend(marshal(signalRelayEvent{Type: EvSignalRelay, From: from.id, Signal: signal}))
	metrics.SignalsRelayedTotal.Inc()
}
