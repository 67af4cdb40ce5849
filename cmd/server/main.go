package main

import (
	"github.com/hemant101104/MovieStream/internal/config"
	"github.com/hemant101104/MovieStream/internal/db"
	clog "github.com/hemant101104/MovieStream/internal/log"
	"github.com/hemant101104/MovieStream/internal/registry"
	"github.com/hemant101104/MovieStream/internal/server"
	"github.com/hemant101104/MovieStream/internal/store"
	"github.com/hemant101104/MovieStream/internal/ws"

	"github.com/rs/zerolog/log"
)

func main() {
	// main 函数负责加载配置、初始化日志、连接数据库并启动 Gin 服务。
	cfg := config.Load()
	clog.Init(cfg.Env)
	if err := config.Validate(cfg); err != nil {
		log.Fatal().Err(err).Msg("config validate")
	}

	gdb, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}

	st := store.NewGormStore(gdb)
	reg := registry.New(st)
	hub := ws.NewHub(reg)
	r := server.SetupRouter(cfg, st, reg, hub)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server run")
	}
}
