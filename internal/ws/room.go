package ws

import (
	"sync"

	"github.com/hemant101104/MovieStream/internal/models"
	"github.com/rs/zerolog/log"
)

// RoomHub 是单个房间的串行化入口：join/leave/播放/聊天都在 mu 之下执行，
// 锁覆盖 读-校验-写-持久化-入队 全程。同一房间的事件对每个接收方保持
// FIFO，不同房间互不阻塞。
type RoomHub struct {
	code    string
	hub     *Hub
	mu      sync.Mutex
	clients map[*Client]bool
}

// join 把连接登记为房间参与者。同一用户重复 join 时丢弃旧的参与者
// 条目（带失效连接 id 的那条），实现免显式 leave 的重连。
// 向其余成员广播 participant-joined，向加入者单发 room-snapshot。
func (rh *RoomHub) join(c *Client) error {
	rh.mu.Lock()
	defer rh.mu.Unlock()

	room, err := rh.hub.reg.Update(rh.code, func(room *models.Room) error {
		kept := make([]models.Participant, 0, len(room.Participants)+1)
		for _, p := range room.Participants {
			if p.UserID != c.userID {
				kept = append(kept, p)
			}
		}
		kept = append(kept, models.Participant{UserID: c.userID, Username: c.username, ConnectionID: c.id})
		room.Participants = kept
		return nil
	})
	if err != nil {
		return err
	}

	rh.clients[c] = true
	c.room = rh

	joined := marshal(participantJoinedEvent{
		Type:         EvParticipantJoined,
		User:         UserRef{ID: c.userID, Username: c.username},
		Participants: room.Participants,
		HostID:       room.HostID,
		HostUsername: room.HostUsername,
	})
	rh.fanout(joined, c)

	c.trySend(marshal(roomSnapshotEvent{
		Type:         EvRoomSnapshot,
		Participants: room.Participants,
		VideoState:   room.VideoState,
		HostID:       room.HostID,
		HostUsername: room.HostUsername,
	}))
	return nil
}

// leave 移除按连接 id 定位的参与者条目并通知剩余成员。
// 持久化失败只记日志：清理路径上内存移除优先，参与者不能因存储故障
// 残留在房间里。
func (rh *RoomHub) leave(c *Client) {
	rh.mu.Lock()
	defer rh.mu.Unlock()

	delete(rh.clients, c)

	removed := false
	room, err := rh.hub.reg.UpdateBestEffort(rh.code, func(room *models.Room) error {
		for i, p := range room.Participants {
			if p.ConnectionID == c.id {
				room.Participants = append(room.Participants[:i], room.Participants[i+1:]...)
				removed = true
				return nil
			}
		}
		// 条目已被同用户的重连替换，无需持久化
		return errNotMember
	})
	if err != nil && err != errNotMember {
		log.Warn().Err(err).Str("room", rh.code).Str("conn", c.id).Msg("persist leave")
	}
	if !removed {
		return
	}

	left := marshal(participantLeftEvent{
		Type:         EvParticipantLeft,
		ConnectionID: c.id,
		Participants: room.Participants,
		HostID:       room.HostID,
		HostUsername: room.HostUsername,
	})
	rh.fanout(left, nil)
}

// fanout 在持有 rh.mu 的前提下向房间内所有连接入队，except 指定的
// 连接除外。发送缓冲已满的慢客户端直接摘除，由其自身的断连路径清理。
func (rh *RoomHub) fanout(b []byte, except *Client) {
	for cli := range rh.clients {
		if cli == except {
			continue
		}
		if !cli.trySend(b) {
			delete(rh.clients, cli)
			cli.closeSend()
		}
	}
}
