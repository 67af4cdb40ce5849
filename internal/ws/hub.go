package ws

import (
	"sync"
	"time"

	"github.com/hemant101104/MovieStream/internal/metrics"
	"github.com/hemant101104/MovieStream/internal/registry"
)

// Hub 持有全部活跃连接与房间级别的子 Hub。conns 是连接表，
// 点对点信令转发按连接 id 在这里查找目标。
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]*RoomHub
	conns map[string]*Client
	reg   *registry.Registry

	// now 返回 epoch 毫秒，测试中可替换。
	now func() int64
}

func NewHub(reg *registry.Registry) *Hub {
	return &Hub{
		rooms: make(map[string]*RoomHub),
		conns: make(map[string]*Client),
		reg:   reg,
		now:   func() int64 { return time.Now().UnixMilli() },
	}
}

// AddClient 把新连接登记进连接表并回发其连接 id。
func (h *Hub) AddClient(c *Client) {
	h.mu.Lock()
	h.conns[c.id] = c
	h.mu.Unlock()
	metrics.WsConnections.Inc()
	c.trySend(marshal(connectedEvent{Type: EvConnected, ConnectionID: c.id}))
}

// Disconnect 对每个连接恰好执行一次清理：摘除连接表项、移除房间内的
// 参与者并通知剩余成员，最后关闭发送通道。与在途动作竞争时，
// 参与者条目不会被重复移除也不会泄漏。
func (h *Hub) Disconnect(c *Client) {
	c.discOnce.Do(func() {
		h.mu.Lock()
		delete(h.conns, c.id)
		h.mu.Unlock()
		metrics.WsConnections.Dec()
		if c.room != nil {
			c.room.leave(c)
			c.room = nil
		}
		c.closeSend()
	})
}

// Join 把连接绑定到指定房间。房间不存在时返回 registry.ErrRoomNotFound。
// 已绑定其他房间的连接先离开旧房间。
func (h *Hub) Join(c *Client, code string) error {
	if c.room != nil {
		if c.room.code == code {
			// 同房间重复 join 按重连处理，走替换逻辑
		} else {
			c.room.leave(c)
			c.room = nil
		}
	}
	if _, err := h.reg.GetRoomByCode(code); err != nil {
		return err
	}
	rh := h.roomHub(code)
	return rh.join(c)
}

// Leave 解除连接与房间的绑定，未绑定时为 no-op。
func (h *Hub) Leave(c *Client) {
	if c.room == nil {
		return
	}
	c.room.leave(c)
	c.room = nil
}

// Client 按连接 id 查找活跃连接，不存在时返回 nil。
func (h *Hub) Client(id string) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.conns[id]
}

// Online 返回房间当前绑定的连接数。
func (h *Hub) Online(code string) int {
	h.mu.RLock()
	rh := h.rooms[code]
	h.mu.RUnlock()
	if rh == nil {
		return 0
	}
	rh.mu.Lock()
	defer rh.mu.Unlock()
	return len(rh.clients)
}

// roomHub 懒加载房间的 RoomHub，双重检查避免重复创建。
func (h *Hub) roomHub(code string) *RoomHub {
	h.mu.RLock()
	rh := h.rooms[code]
	h.mu.RUnlock()
	if rh != nil {
		return rh
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	rh = h.rooms[code]
	if rh != nil {
		return rh
	}
	rh = &RoomHub{code: code, hub: h, clients: make(map[*Client]bool)}
	h.rooms[code] = rh
	return rh
}
