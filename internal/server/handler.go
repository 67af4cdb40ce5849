package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hemant101104/MovieStream/internal/auth"
	"github.com/hemant101104/MovieStream/internal/models"
	"github.com/hemant101104/MovieStream/internal/registry"
	"github.com/hemant101104/MovieStream/internal/service"
	"github.com/hemant101104/MovieStream/internal/store"
	"github.com/rs/zerolog/log"
)

// Handler 聚合所有 HTTP handler，依赖注入 service 层。
type Handler struct {
	userSvc *service.UserService
	roomSvc *service.RoomService
}

func NewHandler(userSvc *service.UserService, roomSvc *service.RoomService) *Handler {
	return &Handler{userSvc: userSvc, roomSvc: roomSvc}
}

// Register 处理用户注册请求，成功后直接返回凭证（注册即登录）。
func (h *Handler) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if len(req.Username) < 2 || len(req.Username) > 64 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid username"})
		return
	}
	if len(req.Password) < 4 || len(req.Password) > 128 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid password"})
		return
	}
	result, err := h.userSvc.Register(req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		log.Error().Err(err).Str("email", req.Email).Msg("register")
		c.JSON(statusFor(err), gin.H{"error": "failed to create user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": result.Token, "user": userJSON(result.User)})
}

// Login 处理用户登录请求。
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	result, err := h.userSvc.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		log.Error().Err(err).Str("email", req.Email).Msg("login")
		c.JSON(statusFor(err), gin.H{"error": "login failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": result.Token, "user": userJSON(result.User)})
}

// CreateRoom 处理创建房间请求。
func (h *Handler) CreateRoom(c *gin.Context) {
	var req struct {
		Name      string `json:"name"`
		IsPrivate bool   `json:"isPrivate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || len(req.Name) > 128 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room name"})
		return
	}
	ident := auth.GetIdentity(c)
	host := models.User{ID: ident.UserID, Username: ident.Username}
	room, err := h.roomSvc.Create(req.Name, req.IsPrivate, host)
	if err != nil {
		if errors.Is(err, registry.ErrCodeExhausted) {
			c.JSON(http.StatusConflict, gin.H{"error": "failed to allocate room code"})
			return
		}
		log.Error().Err(err).Str("host_id", ident.UserID).Str("name", req.Name).Msg("create room")
		c.JSON(statusFor(err), gin.H{"error": "failed to create room"})
		return
	}
	c.JSON(http.StatusOK, room)
}

// ListRooms 返回公开房间列表。
func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.roomSvc.ListPublic()
	if err != nil {
		log.Error().Err(err).Msg("list rooms")
		c.JSON(statusFor(err), gin.H{"error": "failed to list rooms"})
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// JoinRoom 按房间码返回房间数据，客户端随后通过 WS join-room 绑定。
func (h *Handler) JoinRoom(c *gin.Context) {
	var req struct {
		RoomCode string `json:"roomCode"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	req.RoomCode = strings.ToUpper(strings.TrimSpace(req.RoomCode))
	if req.RoomCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	room, err := h.roomSvc.JoinByCode(req.RoomCode)
	if err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		log.Error().Err(err).Str("code", req.RoomCode).Msg("join room")
		c.JSON(statusFor(err), gin.H{"error": "failed to join room"})
		return
	}
	c.JSON(http.StatusOK, room)
}

// statusFor 把存储不可用映射为 503，其余未识别错误映射为 500。
func statusFor(err error) int {
	if errors.Is(err, store.ErrUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func userJSON(u models.User) gin.H {
	return gin.H{"id": u.ID, "username": u.Username, "email": u.Email}
}
