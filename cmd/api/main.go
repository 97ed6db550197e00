package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"alfredoptarigan/candidate-ranker/internal/config"
	"alfredoptarigan/candidate-ranker/internal/handlers"
	"alfredoptarigan/candidate-ranker/internal/logger"
	"alfredoptarigan/candidate-ranker/internal/repositories"
	"alfredoptarigan/candidate-ranker/internal/services"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.LogJSON, cfg.Server.LogDebug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("config loaded", zap.String("env", cfg.Server.Env), zap.String("phase", cfg.Extraction.Phase))

	db, err := config.InitDatabase(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}

	docRepo := repositories.NewDocumentRepository(db)
	runRepo := repositories.NewRankingRunRepository(db)

	storageService := services.NewStorageService(cfg.Storage.UploadPath, cfg.Server.PublicBaseURL)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatal("failed to create upload directory", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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
		log.Fatal("failed to initialize Qdrant collection", zap.Error(err))
	}

	extractor := services.NewTextExtractor(
		services.NewDocumentFetcher(cfg.Extraction.FetchTimeout, cfg.Extraction.MaxDocumentBytes, log),
		services.NewPDFParserService(),
		services.ExtractorOptions{
			BuildPhase: cfg.Extraction.BuildPhase(),
			PDFEnabled: cfg.Extraction.PDFEnabled,
		},
		log,
	)
	search := services.NewCandidateSearchService(index, gemini, services.NewTextChunker(), log)

	deps := services.RankerDeps{
		Extractor: extractor,
		Insights:  services.NewInsightGenerator(gemini, log),
		Scorer:    services.NewRankingScorer(gemini, log),
		Search:    search,
	}
	if cfg.Ranking.SimilarityEnabled {
		deps.Similarity = services.NewSimilarityScorer(gemini)
	}
	ranker := services.NewCandidateRanker(deps, services.RankerOptions{
		Concurrency:      cfg.Ranking.Concurrency,
		CandidateTimeout: cfg.Ranking.CandidateTimeout,
	}, log)

	runService := services.NewRankingRunService(runRepo, ranker, log)
	worker := services.NewWorker(runRepo, runService, cfg.Worker.Concurrency, cfg.Worker.PollInterval, log)
	worker.Start(ctx)

	pathways := services.NewPathwayService(
		gemini,
		services.NewCertificationSearcher(cfg.Pathway.SerpAPIKey, cfg.Pathway.SerpAPIURL, log),
		cfg.Gemini.MaxRetries,
		log,
	)

	routes := handlers.Routes{
		Upload:  handlers.NewUploadHandler(docRepo, storageService, cfg.Storage.MaxFileSize, log),
		Profile: handlers.NewProfileHandler(services.NewProfileSynthesizer(gemini, log), extractor, docRepo),
		Ranking: handlers.NewRankingHandler(runService, runRepo, worker, ranker),
		Pathway: handlers.NewPathwayHandler(pathways),
		Search:  handlers.NewSearchHandler(search),
	}

	app := fiber.New(fiber.Config{
		AppName:      "Candidate Ranker API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Ranking.CandidateTimeout + 30*time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Static(services.FilesRoute, cfg.Storage.UploadPath)
	routes.Register(app.Group("/api/v1"))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message":   "Candidate Ranker API",
			"version":   "1.0.0",
			"model":     gemini.Model(),
			"endpoints": routes.Endpoints(),
		})
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("shutting down server")
		cancel()
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server starting", zap.String("addr", addr), zap.String("public_url", cfg.Server.PublicBaseURL))

	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
