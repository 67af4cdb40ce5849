package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hemant101104/MovieStream/internal/auth"
	"github.com/hemant101104/MovieStream/internal/config"
	"github.com/hemant101104/MovieStream/internal/metrics"
	"github.com/hemant101104/MovieStream/internal/mw"
	"github.com/hemant101104/MovieStream/internal/registry"
	"github.com/hemant101104/MovieStream/internal/service"
	"github.com/hemant101104/MovieStream/internal/store"
	"github.com/hemant101104/MovieStream/internal/ws"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// SetupRouter 统一初始化 Gin 中间件、REST API 以及 WebSocket 端点。
func SetupRouter(cfg config.Config, st store.Store, reg *registry.Registry, hub *ws.Hub) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(metrics.GinMiddleware())
	r.Use(mw.CORS(cfg.Env))
	// 控制单个 IP+路由的速率，避免匿名接口被刷爆。
	r.Use(mw.RateLimit(rate.Every(time.Second/20), 40))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	userSvc := service.NewUserService(st, cfg)
	roomSvc := service.NewRoomService(reg)
	h := NewHandler(userSvc, roomSvc)

	api := r.Group("/api/v1")
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)

	// 需要 Bearer Token 的业务接口。
	authed := api.Group("")
	authed.Use(auth.Middleware(cfg))
	authed.POST("/rooms", h.CreateRoom)
	authed.GET("/rooms", h.ListRooms)
	authed.POST("/rooms/join", h.JoinRoom)

	r.GET("/ws", ws.Serve(hub, cfg))

	return r
}
