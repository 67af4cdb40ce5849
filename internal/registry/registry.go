package registry

import (
	"crypto/rand"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hemant101104/MovieStream/internal/models"
	"github.com/hemant101104/MovieStream/internal/store"
)

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrCodeExhausted = errors.New("failed to generate unique room code")
)

const (
	codeLength   = 6
	codeCharset  = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	codeAttempts = 5
)

// Registry 是活跃房间的内存权威索引，房间存活期间它是唯一事实来源，
// Store 仅在重启后作为恢复来源。所有对同一房间的变更通过 entry 级互斥锁
// 串行化，锁覆盖整个 读-校验-写-持久化 区间；不同房间完全并行。
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*entry
	store store.Store
}

type entry struct {
	mu   sync.Mutex
	room models.Room
}

func New(st store.Store) *Registry {
	return &Registry{rooms: make(map[string]*entry), store: st}
}

// CreateRoom 生成 6 位 base-36 大写房间码并初始化播放状态。
// 房间码冲突时重新生成，超过 codeAttempts 次后返回 ErrCodeExhausted。
// 持久化成功后才对外可见。
func (r *Registry) CreateRoom(name string, isPrivate bool, host models.User) (models.Room, error) {
	for i := 0; i < codeAttempts; i++ {
		code, err := generateCode()
		if err != nil {
			return models.Room{}, err
		}
		room := models.Room{
			ID:           uuid.NewString(),
			Name:         name,
			Code:         code,
			HostID:       host.ID,
			HostUsername: host.Username,
			IsPrivate:    isPrivate,
			Participants: []models.Participant{},
			VideoState:   models.PlaybackState{},
			CreatedAt:    time.Now().UTC(),
		}
		if err := r.store.CreateRoom(&room); err != nil {
			if errors.Is(err, store.ErrDuplicateCode) {
				continue
			}
			return models.Room{}, err
		}
		r.mu.Lock()
		r.rooms[code] = &entry{room: room}
		r.mu.Unlock()
		return cloneRoom(room), nil
	}
	return models.Room{}, ErrCodeExhausted
}

// GetRoomByCode 优先命中内存索引，未命中时回源 Store 并缓存。
// 从 Store 恢复的房间清空参与者列表：重启后旧连接均已失效。
func (r *Registry) GetRoomByCode(code string) (models.Room, error) {
	e, err := r.get(code)
	if err != nil {
		return models.Room{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneRoom(e.room), nil
}

// ListPublicRooms 返回非私有房间，活跃房间以内存状态为准。
func (r *Registry) ListPublicRooms() ([]models.Room, error) {
	rooms, err := r.store.ListPublicRooms()
	if err != nil {
		return nil, err
	}
	out := make([]models.Room, 0, len(rooms))
	for _, room := range rooms {
		r.mu.Lock()
		e := r.rooms[room.Code]
		r.mu.Unlock()
		if e != nil {
			e.mu.Lock()
			out = append(out, cloneRoom(e.room))
			e.mu.Unlock()
			continue
		}
		room.Participants = []models.Participant{}
		out = append(out, cloneRoom(room))
	}
	return out, nil
}

// Update 在房间锁内执行 fn 并持久化快照，成功后返回更新后的副本。
// fn 返回错误或持久化失败时，内存状态回滚到变更前的快照（无部分可见）。
// 持久化失败前做一次有界重试。
func (r *Registry) Update(code string, fn func(room *models.Room) error) (models.Room, error) {
	e, err := r.get(code)
	if err != nil {
		return models.Room{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	prev := cloneRoom(e.room)
	if err := fn(&e.room); err != nil {
		e.room = prev
		return models.Room{}, err
	}
	if err := r.persist(&e.room); err != nil {
		e.room = prev
		return models.Room{}, err
	}
	return cloneRoom(e.room), nil
}

// UpdateBestEffort 与 Update 相同，但持久化失败时保留内存变更并连同
// 更新后的副本一起返回错误。仅用于断连清理：参与者绝不能因存储故障
// 残留在房间里。
func (r *Registry) UpdateBestEffort(code string, fn func(room *models.Room) error) (models.Room, error) {
	e, err := r.get(code)
	if err != nil {
		return models.Room{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	prev := cloneRoom(e.room)
	if err := fn(&e.room); err != nil {
		e.room = prev
		return models.Room{}, err
	}
	persistErr := r.persist(&e.room)
	return cloneRoom(e.room), persistErr
}

func (r *Registry) persist(room *models.Room) error {
	err := r.store.SaveRoom(room)
	if err != nil && errors.Is(err, store.ErrUnavailable) {
		err = r.store.SaveRoom(room)
	}
	return err
}

func (r *Registry) get(code string) (*entry, error) {
	r.mu.Lock()
	if e, ok := r.rooms[code]; ok {
		r.mu.Unlock()
		return e, nil
	}
	r.mu.Unlock()

	room, err := r.store.FindRoomByCode(code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	room.Participants = []models.Participant{}

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.rooms[code]; ok {
		return e, nil
	}
	e := &entry{room: *room}
	r.rooms[code] = e
	return e, nil
}

func generateCode() (string, error) {
	b := make([]byte, codeLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = codeCharset[int(b[i])%len(codeCharset)]
	}
	return string(b), nil
}

func cloneRoom(r models.Room) models.Room {
	ps := make([]models.Participant, len(r.Participants))
	copy(ps, r.Participants)
	r.Participants = ps
	return r
}
