package main

import (
	"context"
	"log"

	"ai-dategame-be/internal/bootstrap"
	"ai-dategame-be/internal/config"
	"ai-dategame-be/internal/model"
	"ai-dategame-be/internal/server"
	"ai-dategame-be/internal/tracer"
	"ai-dategame-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database. A missing store is survivable: the chat
	// pipeline degrades to context-free generation.
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Printf("[WARN] Unable to connect to GORM DB, running without persistence: %v", err)
		gormDB = nil
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Schema setup, best effort
	if gormDB != nil {
		if err := container.KnowledgeRepository.EnsureSchema(context.Background()); err != nil {
			log.Printf("[WARN] Failed to ensure vector schema: %v", err)
		}
		if err := gormDB.AutoMigrate(&model.Character{}, &model.ChatMessage{}); err != nil {
			log.Printf("[WARN] Failed to auto-migrate: %v", err)
		}
	}

	// 5. Start Background Services
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// 6. Run Server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
