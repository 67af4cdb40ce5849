package models

import "time"

type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Username     string    `gorm:"size:64;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Participant 是 User 的临时投影，仅在连接绑定到房间期间存在。
// ConnectionID 是弱引用，连接断开后即失效。
type Participant struct {
	UserID       string `json:"id"`
	Username     string `json:"username"`
	ConnectionID string `json:"connectionId"`
}

// PlaybackState 是房间的共享播放状态，所有参与者的视图向其收敛。
// UpdatedAt 为 epoch 毫秒，单调不减；携带更旧时间戳的更新会被丢弃。
type PlaybackState struct {
	Playing     bool    `json:"playing"`
	CurrentTime float64 `json:"currentTime"`
	URL         string  `json:"url"`
	UpdatedAt   int64   `json:"updatedAt"`
}

type Room struct {
	ID           string        `gorm:"primaryKey;size:36" json:"id"`
	Name         string        `gorm:"size:128;not null" json:"name"`
	Code         string        `gorm:"uniqueIndex;size:6;not null" json:"code"`
	HostID       string        `gorm:"size:36;not null;index" json:"hostId"`
	HostUsername string        `gorm:"size:64;not null" json:"hostUsername"`
	IsPrivate    bool          `json:"isPrivate"`
	Participants []Participant `gorm:"serializer:json" json:"participants"`
	VideoState   PlaybackState `gorm:"serializer:json" json:"videoState"`
	CreatedAt    time.Time     `json:"createdAt"`
}
