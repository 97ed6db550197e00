package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/candidate-ranker/internal/logger"
	"alfredoptarigan/candidate-ranker/internal/models"
)

const defaultMaxDocumentBytes = 20 << 20

type DocumentFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*models.RawDocument, error)
}

type documentFetcher struct {
	client   *http.Client
	maxBytes int64
	log      *zap.Logger
}

func NewDocumentFetcher(timeout time.Duration, maxBytes int64, log *zap.Logger) DocumentFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if maxBytes <= 0 {
		maxBytes = defaultMaxDocumentBytes
	}

	return &documentFetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
		log:      logger.OrNop(log),
	}
}

// Fetch downloads rawURL. Every failure is returned as a *FetchError.
func (f *documentFetcher) Fetch(ctx context.Context, rawURL string) (*models.RawDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	started := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	if int64(len(body)) > f.maxBytes {
		return nil, &FetchError{URL: rawURL, Err: errors.New("document exceeds size limit")}
	}

	f.log.Debug("document fetched",
		zap.String("url", rawURL),
		zap.Int("bytes", len(body)),
		zap.Duration("latency", time.Since(started)),
	)

	return &models.RawDocument{
		Bytes:     body,
		SourceURL: rawURL,
		Format:    DetectFormat(rawURL),
	}, nil
}

// DetectFormat maps the trailing extension of a URL or file path to a document format.
// Query strings and fragments are ignored.
func DetectFormat(ref string) models.DocumentFormat {
	p := ref
	if u, err := url.Parse(ref); err == nil && u.Path != "" {
		p = u.Path
	}

	ext := strings.TrimPrefix(strings.ToLower(path.Ext(p)), ".")
	switch models.DocumentFormat(ext) {
	case models.FormatPDF:
		return models.FormatPDF
	case models.FormatDOCX:
		return models.FormatDOCX
	case models.FormatDOC:
		return models.FormatDOC
	default:
		return models.FormatUnknown
	}
}
