package store

import (
	"errors"

	"github.com/hemant101104/MovieStream/internal/models"
)

// 存储层通用错误，调用方用 errors.Is 判断类型。
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrDuplicateCode  = errors.New("room code already exists")
	ErrUnavailable    = errors.New("store unavailable")
)

// Store 是唯一接触持久化介质的组件。各方法之间不保证原子性；
// 同一房间的并发 SaveRoom 由调用方（Registry）串行化，Store 本身不加锁。
type Store interface {
	CreateUser(user *models.User) error
	FindUserByEmail(email string) (*models.User, error)
	CreateRoom(room *models.Room) error
	FindRoomByCode(code string) (*models.Room, error)
	ListPublicRooms() ([]models.Room, error)
	SaveRoom(room *models.Room) error
}
