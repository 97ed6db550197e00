package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"alfredoptarigan/candidate-ranker/internal/config"
	"alfredoptarigan/candidate-ranker/internal/logger"
	"alfredoptarigan/candidate-ranker/internal/services"
)

// Indexes every PDF résumé in a directory for one job. The file stem is the candidate ID.
//
//	go run ./scripts -job backend-2024 -dir ./resumes
func main() {
	jobID := flag.String("job", "", "job ID the résumés belong to")
	dir := flag.String("dir", "./resumes", "directory holding <candidate-id>.pdf files")
	flag.Parse()

	cfg := config.Load()
	log, err := logger.New(cfg.Server.LogJSON, cfg.Server.LogDebug)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if strings.TrimSpace(*jobID) == "" {
		log.Fatal("-job is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gemini, err := services.NewGeminiService(ctx, services.GeminiOptions{
		APIKey:      cfg.Gemini.APIKey,
		Model:       cfg.Gemini.Model,
		EmbedModel:  cfg.Gemini.EmbedModel,
		CallTimeout: cfg.Gemini.CallTimeout,
	}, log)
	if err != nil {
		log.Fatal("failed to initialize Gemini", zap.Error(err))
	}

	index, err := services.NewQdrantIndex(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, log)
	if err != nil {
		log.Fatal("failed to initialize Qdrant", zap.Error(err))
	}
	if err := index.InitCollection(ctx); err != nil {
		log.Fatal("failed to initialize collection", zap.Error(err))
	}

	parser := services.NewPDFParserService()
	search := services.NewCandidateSearchService(index, gemini, services.NewTextChunker(), log)

	paths, err := filepath.Glob(filepath.Join(*dir, "*.pdf"))
	if err != nil {
		log.Fatal("failed to list résumés", zap.Error(err))
	}
	if len(paths) == 0 {
		log.Warn("no PDF résumés found", zap.String("dir", *dir))
		return
	}

	successCount, failCount := 0, 0
	for _, path := range paths {
		if ctx.Err() != nil {
			break
		}

		candidateID := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		plog := log.With(zap.String("candidate_id", candidateID), zap.String("path", path))

		content, err := parser.ExtractTextFromFile(path)
		if err != nil {
			plog.Error("failed to extract text", zap.Error(err))
			failCount++
			continue
		}

		chunks, err := search.IndexResume(ctx, *jobID, candidateID, services.CleanText(content.Text))
		if err != nil {
			plog.Error("failed to index résumé", zap.Error(err))
			failCount++
			continue
		}

		plog.Info("résumé indexed", zap.Int("pages", content.PageCount), zap.Int("chunks", chunks))
		successCount++
	}

	log.Info("indexing finished",
		zap.String("job_id", *jobID),
		zap.Int("succeeded", successCount),
		zap.Int("failed", failCount),
	)

	if failCount > 0 {
		os.Exit(1)
	}
}
