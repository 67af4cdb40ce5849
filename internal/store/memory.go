package store

import (
	"sync"

	"github.com/hemant101104/MovieStream/internal/models"
)

// Memory 是 Store 的内存实现，用于测试以及无数据库的本地运行。
// FailSaves 置为 true 后所有写操作返回 ErrUnavailable，便于测试回滚路径。
type Memory struct {
	mu        sync.Mutex
	users     map[string]models.User // email -> user
	rooms     map[string]models.Room // code -> room
	FailSaves bool
}

func NewMemory() *Memory {
	return &Memory{
		users: make(map[string]models.User),
		rooms: make(map[string]models.Room),
	}
}

func (m *Memory) CreateUser(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSaves {
		return ErrUnavailable
	}
	if _, ok := m.users[user.Email]; ok {
		return ErrDuplicateEmail
	}
	m.users[user.Email] = *user
	return nil
}

func (m *Memory) FindUserByEmail(email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[email]
	if !ok {
		return nil, ErrNotFound
	}
	u := user
	return &u, nil
}

func (m *Memory) CreateRoom(room *models.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSaves {
		return ErrUnavailable
	}
	if _, ok := m.rooms[room.Code]; ok {
		return ErrDuplicateCode
	}
	m.rooms[room.Code] = cloneRoom(*room)
	return nil
}

func (m *Memory) FindRoomByCode(code string) (*models.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[code]
	if !ok {
		return nil, ErrNotFound
	}
	r := cloneRoom(room)
	return &r, nil
}

func (m *Memory) ListPublicRooms() ([]models.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		if !r.IsPrivate {
			out = append(out, cloneRoom(r))
		}
	}
	return out, nil
}

func (m *Memory) SaveRoom(room *models.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSaves {
		return ErrUnavailable
	}
	m.rooms[room.Code] = cloneRoom(*room)
	return nil
}

// cloneRoom 深拷贝参与者切片，避免调用方持有内部切片。
func cloneRoom(r models.Room) models.Room {
	if r.Participants != nil {
		ps := make([]models.Participant, len(r.Participants))
		copy(ps, r.Participants)
		r.Participants = ps
	}
	return r
}
