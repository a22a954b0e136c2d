package main

import (
	"context"
	"log"

	"anoa.com/folio/internal/config"
	"anoa.com/folio/internal/entity"
	"anoa.com/folio/internal/server"
	"anoa.com/folio/pkg/cache"
	"anoa.com/folio/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect(database.Options{
		Host:     cfg.DBHost,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Name:     cfg.DBName,
		Port:     cfg.DBPort,
		SSLMode:  cfg.DBSSLMode,
	})
	if err := database.Migrate(db, entity.Models()...); err != nil {
		log.Fatalf("%v", err)
	}

	redisClient := cache.Connect(cfg.RedisURL)
	if redisClient == nil {
		log.Println("⚠️ Redis unavailable, caching and rate limiting are disabled")
	}

	srv := server.NewServer(cfg, db, redisClient)

	if cfg.IsDevelopment() {
		if err := srv.SeedDemo(context.Background()); err != nil {
			log.Fatalf("failed to seed demo profile: %v", err)
		}
	}

	log.Printf("🚀 Server listening on :%s", cfg.Port)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}
