package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"ai-dategame-be/internal/config"
	"ai-dategame-be/internal/dto"
	"ai-dategame-be/internal/pkg/logger"
	"ai-dategame-be/internal/repository/implementation"
	"ai-dategame-be/internal/service"
	"ai-dategame-be/pkg/database"
	"ai-dategame-be/pkg/embedding"

	"github.com/fatih/color"
)

// Bulk-loads character knowledge files into the vector store:
//
//	go run ./cmd/upload -character <uuid> file1.txt file2.txt
func main() {
	characterId := flag.String("character", "", "character id to scope the uploaded sources to")
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		color.Red("usage: upload [-character <id>] <file> [<file>...]")
		os.Exit(1)
	}

	cfg := config.Load()
	ctx := context.Background()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		color.Red("failed to connect to database: %v", err)
		os.Exit(1)
	}

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	defer sysLogger.Sync()

	knowledgeRepo := implementation.NewKnowledgeRepository(gormDB)
	if err := knowledgeRepo.EnsureSchema(ctx); err != nil {
		color.Red("failed to ensure vector schema: %v", err)
		os.Exit(1)
	}

	embeddingProvider := embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
	knowledgeService := service.NewKnowledgeService(
		knowledgeRepo,
		embeddingProvider,
		nil, // no event bus for the CLI
		cfg.Ai.ChunkMaxTokens,
		sysLogger,
	)

	color.Cyan("Uploading %d file(s)...", len(files))

	failed := 0
	for _, file := range files {
		res, err := knowledgeService.Upload(ctx, &dto.UploadKnowledgeRequest{
			FilePath:    file,
			CharacterId: *characterId,
		})
		if err != nil {
			color.Red("  ✗ %s: %v", file, err)
			failed++
			continue
		}
		if res.ChunksProcessed == 0 {
			color.Yellow("  - %s: no chunks ingested", file)
			failed++
			continue
		}
		color.Green("  ✓ %s: %d chunks", file, res.ChunksProcessed)
	}

	sources, err := knowledgeService.ListSources(ctx)
	if err != nil {
		color.Red("failed to list sources: %v", err)
		os.Exit(1)
	}

	fmt.Println()
	color.Cyan("Knowledge sources (%d):", len(sources.Sources))
	for _, source := range sources.Sources {
		fmt.Printf("  - %s\n", source)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
