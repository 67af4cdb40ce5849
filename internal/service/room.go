package service

import (
	"errors"

	"github.com/hemant101104/MovieStream/internal/models"
	"github.com/hemant101104/MovieStream/internal/registry"
)

// RoomService 封装房间相关的业务逻辑，所有房间读写都经过 Registry。
type RoomService struct {
	reg *registry.Registry
}

func NewRoomService(reg *registry.Registry) *RoomService {
	return &RoomService{reg: reg}
}

// Create 创建新房间，房间码由 Registry 生成并保证唯一。
func (s *RoomService) Create(name string, isPrivate bool, host models.User) (models.Room, error) {
	return s.reg.CreateRoom(name, isPrivate, host)
}

// ListPublic 返回公开房间列表，活跃房间附带实时参与者。
func (s *RoomService) ListPublic() ([]models.Room, error) {
	return s.reg.ListPublicRooms()
}

// JoinByCode 按房间码查找房间，供客户端在建立 WS 连接前取到房间数据。
func (s *RoomService) JoinByCode(code string) (models.Room, error) {
	room, err := s.reg.GetRoomByCode(code)
	if err != nil {
		if errors.Is(err, registry.ErrRoomNotFound) {
			return models.Room{}, ErrRoomNotFound
		}
		return models.Room{}, err
	}
	return room, nil
}
