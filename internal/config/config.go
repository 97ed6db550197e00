package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// PhaseBuild marks a build/cold-start process where document extraction is short-circuited.
const PhaseBuild = "build"

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Qdrant     QdrantConfig
	Gemini     GeminiConfig
	Storage    StorageConfig
	Worker     WorkerConfig
	Ranking    RankingConfig
	Extraction ExtractionConfig
	Pathway    PathwayConfig
}

type ServerConfig struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogJSON       bool
	LogDebug      bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

type GeminiConfig struct {
	APIKey      string
	Model       string
	EmbedModel  string
	CallTimeout time.Duration
	MaxRetries  int
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

type WorkerConfig struct {
	Concurrency  int
	PollInterval time.Duration
}

type RankingConfig struct {
	Concurrency       int
	CandidateTimeout  time.Duration
	SimilarityEnabled bool
}

type ExtractionConfig struct {
	Phase            string
	FetchTimeout     time.Duration
	MaxDocumentBytes int64
	PDFEnabled       bool
}

// BuildPhase reports whether extraction must return the build sentinel.
func (e ExtractionConfig) BuildPhase() bool {
	return strings.EqualFold(strings.TrimSpace(e.Phase), PhaseBuild)
}

type PathwayConfig struct {
	SerpAPIKey string
	SerpAPIURL string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	port := getEnv("PORT", "3000")

	return &Config{
		Server: ServerConfig{
			Port:          port,
			Env:           getEnv("ENV", "development"),
			PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:"+port), "/"),
			LogJSON:       getEnvAsBool("LOG_JSON", false),
			LogDebug:      getEnvAsBool("LOG_DEBUG", false),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "candidate_ranker"),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", "http://localhost:6334"),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "candidate_resumes"),
		},
		Gemini: GeminiConfig{
			APIKey:      getEnv("GEMINI_API_KEY", ""),
			Model:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			EmbedModel:  getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
			CallTimeout: getEnvAsDuration("GEMINI_CALL_TIMEOUT", "60s"),
			MaxRetries:  getEnvAsInt("GEMINI_MAX_RETRIES", 3),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Worker: WorkerConfig{
			Concurrency:  getEnvAsInt("WORKER_CONCURRENCY", 2),
			PollInterval: getEnvAsDuration("WORKER_POLL_INTERVAL", "10s"),
		},
		Ranking: RankingConfig{
			Concurrency:       getEnvAsInt("RANKING_CONCURRENCY", 4),
			CandidateTimeout:  getEnvAsDuration("CANDIDATE_TIMEOUT", "3m"),
			SimilarityEnabled: getEnvAsBool("SIMILARITY_ENABLED", false),
		},
		Extraction: ExtractionConfig{
			Phase:            getEnv("APP_PHASE", "runtime"),
			FetchTimeout:     getEnvAsDuration("FETCH_TIMEOUT", "30s"),
			MaxDocumentBytes: getEnvAsInt64("MAX_DOCUMENT_BYTES", 20971520),
			PDFEnabled:       getEnvAsBool("PDF_PARSING_ENABLED", true),
		},
		Pathway: PathwayConfig{
			SerpAPIKey: getEnv("SERP_API_KEY", ""),
			SerpAPIURL: getEnv("SERP_API_URL", "https://serpapi.com/search.json"),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
