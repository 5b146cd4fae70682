package main

import (
	"blog/pkg/config"
	"blog/pkg/logger"
	app "blog/services/blog/internal/app"
)

// @title           Blog API
// @version         1.0
// @description     Posts API for a personal blog

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey AdminToken
// @in header
// @name x-admin-token

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New()

	if cfg.AdminTokenHash == "" {
		log.Warn("ADMIN_TOKEN_HASH is not set, anyone can create posts")
	}

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Error("Failed to start blog: %v", err)
		panic(err)
	}

	if err := application.Run(); err != nil {
		panic(err)
	}

	application.Wait()

	if err := application.Shutdown(); err != nil {
		panic(err)
	}
}
