package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hemant101104/MovieStream/internal/auth"
	"github.com/hemant101104/MovieStream/internal/config"
	"github.com/hemant101104/MovieStream/internal/models"
	"github.com/hemant101104/MovieStream/internal/store"
)

// UserService 封装注册与登录的业务逻辑。
type UserService struct {
	store store.Store
	cfg   config.Config
}

func NewUserService(st store.Store, cfg config.Config) *UserService {
	return &UserService{store: st, cfg: cfg}
}

// AuthResult 注册或登录成功后返回的凭证与用户数据。
type AuthResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Register 创建新用户并直接签发凭证（注册即登录）。
func (s *UserService) Register(username, email, password string) (*AuthResult, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.CreateUser(&user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	token, err := auth.GenerateToken(user, s.cfg.JWTSecret, s.cfg.AccessTokenTTLMinutes)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Login 校验邮箱密码并签发凭证。
func (s *UserService) Login(email, password string) (*AuthResult, error) {
	user, err := s.store.FindUserByEmail(email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	token, err := auth.GenerateToken(*user, s.cfg.JWTSecret, s.cfg.AccessTokenTTLMinutes)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: *user}, nil
}
