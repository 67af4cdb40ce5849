package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hemant101104/MovieStream/internal/models"
	"gorm.io/gorm"
)

// GormStore 基于 gorm/Postgres 实现 Store。
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateUser(user *models.User) error {
	if err := s.db.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return wrapUnavailable(err)
	}
	return nil
}

func (s *GormStore) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, wrapUnavailable(err)
	}
	return &user, nil
}

func (s *GormStore) CreateRoom(room *models.Room) error {
	if err := s.db.Create(room).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateCode
		}
		return wrapUnavailable(err)
	}
	return nil
}

func (s *GormStore) FindRoomByCode(code string) (*models.Room, error) {
	var room models.Room
	if err := s.db.Where("code = ?", code).First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, wrapUnavailable(err)
	}
	return &room, nil
}

func (s *GormStore) ListPublicRooms() ([]models.Room, error) {
	var rooms []models.Room
	if err := s.db.Where("is_private = ?", false).Order("created_at desc").Limit(100).Find(&rooms).Error; err != nil {
		return nil, wrapUnavailable(err)
	}
	return rooms, nil
}

// SaveRoom 全量覆盖写回房间记录。
func (s *GormStore) SaveRoom(room *models.Room) error {
	if err := s.db.Save(room).Error; err != nil {
		return wrapUnavailable(err)
	}
	return nil
}

// isUniqueViolation 识别 Postgres 唯一索引冲突（SQLSTATE 23505）。
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "23505") || strings.Contains(err.Error(), "duplicate key")
}

func wrapUnavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
