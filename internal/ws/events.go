package ws

import (
	"encoding/json"

	"github.com/hemant101104/MovieStream/internal/models"
)

// 入站事件统一信封，Type 决定哪些字段有效。
type Inbound struct {
	Type        string          `json:"type"`
	RoomCode    string          `json:"roomCode,omitempty"`
	Action      string          `json:"action,omitempty"`
	CurrentTime float64         `json:"currentTime,omitempty"`
	URL         string          `json:"url,omitempty"`
	Message     string          `json:"message,omitempty"`
	To          string          `json:"to,omitempty"`
	Signal      json.RawMessage `json:"signal,omitempty"`
}

// 入站事件类型。
const (
	EvJoinRoom       = "join-room"
	EvLeaveRoom      = "leave-room"
	EvPlaybackAction = "playback-action"
	EvChatSend       = "chat-send"
	EvSignalSend     = "signal-send"
)

// 出站事件类型。
const (
	EvConnected         = "connected"
	EvRoomSnapshot      = "room-snapshot"
	EvParticipantJoined = "participant-joined"
	EvParticipantLeft   = "participant-left"
	EvPlaybackSync      = "playback-sync"
	EvChatMessage       = "chat-message"
	EvSignalRelay       = "signal-relay"
	EvError             = "error"
)

// 播放动作。
const (
	ActionPlay     = "play"
	ActionPause    = "pause"
	ActionSeek     = "seek"
	ActionSetVideo = "set-video"
)

// UserRef 是事件里携带的用户展示信息快照。
type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type connectedEvent struct {
	Type         string `json:"type"`
	ConnectionID string `json:"connectionId"`
}

type roomSnapshotEvent struct {
	Type         string               `json:"type"`
	Participants []models.Participant `json:"participants"`
	VideoState   models.PlaybackState `json:"videoState"`
	HostID       string               `json:"hostId"`
	HostUsername string               `json:"hostUsername"`
}

type participantJoinedEvent struct {
	Type         string               `json:"type"`
	User         UserRef              `json:"user"`
	Participants []models.Participant `json:"participants"`
	HostID       string               `json:"hostId"`
	HostUsername string               `json:"hostUsername"`
}

type participantLeftEvent struct {
	Type         string               `json:"type"`
	ConnectionID string               `json:"connectionId"`
	Participants []models.Participant `json:"participants"`
	HostID       string               `json:"hostId"`
	HostUsername string               `json:"hostUsername"`
}

type playbackSyncEvent struct {
	Type        string  `json:"type"`
	Action      string  `json:"action"`
	CurrentTime float64 `json:"currentTime"`
	URL         string  `json:"url"`
	Timestamp   int64   `json:"timestamp"`
}

type chatMessageEvent struct {
	Type      string  `json:"type"`
	ID        string  `json:"id"`
	Message   string  `json:"message"`
	User      UserRef `json:"user"`
	Timestamp string  `json:"timestamp"`
}

type signalRelayEvent struct {
	Type   string          `json:"type"`
	From   string          `json:"from"`
	Signal json.RawMessage `json:"signal"`
}

type errorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func marshal(v interface{}) []byte {
	b, _ := json.Marshal(v)
	return b
}
