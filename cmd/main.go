package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"eventchat/backend/internal/api/handler"
	"eventchat/backend/internal/chathub"
	"eventchat/backend/internal/config"
	"eventchat/backend/internal/models"
	"eventchat/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg *config.Config) (*gorm.DB, *redis.Client) {
	// TranslateError turns duplicate-key violations into gorm.ErrDuplicatedKey,
	// which the room find-or-create race resolution relies on.
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		slog.Error("failed to connect PostgreSQL", "err", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		slog.Error("failed to connect Redis", "err", err)
		os.Exit(1)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.EventParticipant{},
		&models.ChatRoom{},
		&models.RoomParticipant{},
		&models.Message{},
	)
	if err != nil {
		slog.Error("failed to run migrations", "err", err)
		os.Exit(1)
	}

	slog.Info("database and redis connections established, migrations complete")
	return db, rdb
}

func main() {
	slog.Info("starting eventchat backend")

	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file loaded", "err", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	if cfg.NodeID == "" {
		cfg.NodeID = uuid.New().String()
	}

	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db, rdb)

	hub := chathub.NewManager(s, cfg.NodeID)
	go hub.Run() // bridge listener

	tokens := handler.NewTokenService(cfg.JWTSecret)
	h := handler.NewHandler(hub, s, tokens)

	r := gin.Default()
	r.POST("/auth/token", h.IssueToken)
	r.GET("/ws", h.ServeWebSocket)

	api := r.Group("/api", h.AuthRequired())
	api.GET("/presence", h.Presence)
	api.GET("/rooms", h.ListRooms)
	api.POST("/rooms", h.OpenRoom)
	api.GET("/rooms/:id/messages", h.History)

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	slog.Info("listening", "addr", cfg.HTTPAddr, "node", cfg.NodeID)
	if err := server.ListenAndServe(); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
