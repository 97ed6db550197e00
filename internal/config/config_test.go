package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("PUBLIC_BASE_URL", "")
	t.Setenv("RANKING_CONCURRENCY", "")
	t.Setenv("APP_PHASE", "")

	cfg := Load()

	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, "http://localhost:8081", cfg.Server.PublicBaseURL)
	assert.Equal(t, 4, cfg.Ranking.Concurrency)
	assert.Equal(t, 60*time.Second, cfg.Gemini.CallTimeout)
	assert.False(t, cfg.Extraction.BuildPhase())
	assert.True(t, cfg.Extraction.PDFEnabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PUBLIC_BASE_URL", "https://cdn.example.com/")
	t.Setenv("RANKING_CONCURRENCY", "9")
	t.Setenv("CANDIDATE_TIMEOUT", "45s")
	t.Setenv("SIMILARITY_ENABLED", "true")
	t.Setenv("APP_PHASE", "Build")
	t.Setenv("GEMINI_CALL_TIMEOUT", "not-a-duration")

	cfg := Load()

	assert.Equal(t, "https://cdn.example.com", cfg.Server.PublicBaseURL)
	assert.Equal(t, 9, cfg.Ranking.Concurrency)
	assert.Equal(t, 45*time.Second, cfg.Ranking.CandidateTimeout)
	assert.True(t, cfg.Ranking.SimilarityEnabled)
	assert.True(t, cfg.Extraction.BuildPhase())
	assert.Equal(t, 60*time.Second, cfg.Gemini.CallTimeout)
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: "5433", User: "u", Password: "p", DBName: "ranker",
	}}

	assert.Equal(t, "host=db port=5433 user=u password=p dbname=ranker sslmode=disable", cfg.GetDatabaseDSN())
}
