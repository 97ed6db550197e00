package models

import (
	"time"

	"github.com/google/uuid"
)

// Document is an uploaded résumé kept under the storage upload path.
type Document struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Filename         string    `gorm:"type:text" json:"filename"`
	OriginalFileName string    `gorm:"type:text" json:"original_filename"`
	Format           string    `gorm:"type:text" json:"format"`
	FilePath         string    `gorm:"type:text" json:"-"`
	URL              string    `gorm:"type:text" json:"url"`
	Size             int64     `json:"size"`
	CreatedAt        time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt        time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (d *Document) TableName() string {
	return "documents"
}

type DocumentFormat string

const (
	FormatPDF     DocumentFormat = "pdf"
	FormatDOCX    DocumentFormat = "docx"
	FormatDOC     DocumentFormat = "doc"
	FormatUnknown DocumentFormat = "unknown"
)

// RawDocument is the fetched body of a résumé reference. It is discarded after extraction.
type RawDocument struct {
	Bytes     []byte
	SourceURL string
	Format    DocumentFormat
}

type ExtractionStatus string

const (
	ExtractionOK                ExtractionStatus = "ok"
	ExtractionUnsupportedFormat ExtractionStatus = "unsupported_format"
	ExtractionFetchError        ExtractionStatus = "fetch_error"
	ExtractionParseError        ExtractionStatus = "parse_error"
)

// ExtractedText is produced once per document and never mutated.
type ExtractedText struct {
	Text   string           `json:"text"`
	Status ExtractionStatus `json:"status"`
}
