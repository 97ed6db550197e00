package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/candidate-ranker/internal/logger"
	"alfredoptarigan/candidate-ranker/internal/models"
)

// Sentinel texts stand in for résumé content that could not be extracted.
// Downstream prompts treat them as usable but empty context.
const (
	SentinelBuildPhase        = "Resume text unavailable during build"
	SentinelPDFUnavailable    = "PDF parsing unavailable"
	SentinelWordNotSupported  = "Word document parsing not implemented"
	SentinelUnsupportedFormat = "Unsupported file format"
	SentinelParseError        = "Error parsing resume"
)

type ExtractorOptions struct {
	BuildPhase bool
	PDFEnabled bool
}

type TextExtractor interface {
	ExtractFromURL(ctx context.Context, rawURL string) models.ExtractedText
	Extract(doc *models.RawDocument) models.ExtractedText
	ExtractFile(filePath string) models.ExtractedText
}

type textExtractor struct {
	fetcher DocumentFetcher
	parser  PDFParserService
	opts    ExtractorOptions
	log     *zap.Logger
}

func NewTextExtractor(fetcher DocumentFetcher, parser PDFParserService, opts ExtractorOptions, log *zap.Logger) TextExtractor {
	return &textExtractor{
		fetcher: fetcher,
		parser:  parser,
		opts:    opts,
		log:     logger.OrNop(log),
	}
}

// ExtractFromURL never fails: every problem degrades to a status and, where
// applicable, a sentinel text.
func (e *textExtractor) ExtractFromURL(ctx context.Context, rawURL string) models.ExtractedText {
	if e.opts.BuildPhase {
		return models.ExtractedText{Text: SentinelBuildPhase, Status: models.ExtractionOK}
	}

	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return models.ExtractedText{Text: "", Status: models.ExtractionOK}
	}

	format := DetectFormat(rawURL)
	if format != models.FormatPDF {
		return unsupported(format)
	}

	doc, err := e.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		e.log.Warn("resume fetch failed", zap.String("url", rawURL), zap.Error(err))
		return models.ExtractedText{Text: "", Status: models.ExtractionFetchError}
	}

	return e.Extract(doc)
}

func (e *textExtractor) Extract(doc *models.RawDocument) models.ExtractedText {
	if e.opts.BuildPhase {
		return models.ExtractedText{Text: SentinelBuildPhase, Status: models.ExtractionOK}
	}
	if doc == nil {
		return models.ExtractedText{Text: "", Status: models.ExtractionOK}
	}

	if doc.Format != models.FormatPDF {
		return unsupported(doc.Format)
	}
	if !e.opts.PDFEnabled || e.parser == nil {
		return models.ExtractedText{Text: SentinelPDFUnavailable, Status: models.ExtractionParseError}
	}

	text, err := e.parser.ExtractText(doc.Bytes)
	if err != nil {
		e.log.Warn("resume parse failed", zap.String("url", doc.SourceURL), zap.Error(err))
		return models.ExtractedText{Text: SentinelParseError, Status: models.ExtractionParseError}
	}

	return models.ExtractedText{Text: CleanText(text), Status: models.ExtractionOK}
}

// ExtractFile extracts an uploaded document from local storage.
func (e *textExtractor) ExtractFile(filePath string) models.ExtractedText {
	if e.opts.BuildPhase {
		return models.ExtractedText{Text: SentinelBuildPhase, Status: models.ExtractionOK}
	}

	format := DetectFormat(filePath)
	if format != models.FormatPDF {
		return unsupported(format)
	}
	if !e.opts.PDFEnabled || e.parser == nil {
		return models.ExtractedText{Text: SentinelPDFUnavailable, Status: models.ExtractionParseError}
	}

	content, err := e.parser.ExtractTextFromFile(filePath)
	if err != nil {
		e.log.Warn("resume parse failed", zap.String("path", filePath), zap.Error(err))
		return models.ExtractedText{Text: SentinelParseError, Status: models.ExtractionParseError}
	}

	return models.ExtractedText{Text: CleanText(content.Text), Status: models.ExtractionOK}
}

func unsupported(format models.DocumentFormat) models.ExtractedText {
	text := SentinelUnsupportedFormat
	if format == models.FormatDOC || format == models.FormatDOCX {
		text = SentinelWordNotSupported
	}
	return models.ExtractedText{Text: text, Status: models.ExtractionUnsupportedFormat}
}
