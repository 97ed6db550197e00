package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/candidate-ranker/internal/logger"
	"alfredoptarigan/candidate-ranker/internal/models"
)

const defaultSerpAPIURL = "https://serpapi.com/search.json"

type CertificationSearcher interface {
	Search(ctx context.Context, jobTitle string) ([]models.Certification, error)
}

type serpAPISearcher struct {
	apiKey   string
	endpoint string
	client   *http.Client
	log      *zap.Logger
}

type serpAPIResponse struct {
	OrganicResults []struct {
		Title string `json:"title"`
		Link  string `json:"link"`
	} `json:"organic_results"`
	Error string `json:"error"`
}

func NewCertificationSearcher(apiKey, endpoint string, log *zap.Logger) CertificationSearcher {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = defaultSerpAPIURL
	}

	return &serpAPISearcher{
		apiKey:   strings.TrimSpace(apiKey),
		endpoint: endpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
		log:      logger.OrNop(log),
	}
}

// Search runs a Google search through SerpAPI. Without an API key it returns
// an empty list.
func (s *serpAPISearcher) Search(ctx context.Context, jobTitle string) ([]models.Certification, error) {
	if s.apiKey == "" {
		s.log.Debug("certification search skipped, no api key")
		return []models.Certification{}, nil
	}

	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", CertificationQuery(jobTitle))
	params.Set("api_key", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to search certifications: %w", err)
	}
	defer resp.Body.Close()

	var body serpAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search api returned status %d: %s", resp.StatusCode, body.Error)
	}

	certs := make([]models.Certification, 0, len(body.OrganicResults))
	for _, r := range body.OrganicResults {
		if r.Title == "" && r.Link == "" {
			continue
		}
		certs = append(certs, models.Certification{Title: r.Title, Link: r.Link})
	}

	return certs, nil
}
