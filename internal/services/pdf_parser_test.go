package services

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/candidate-ranker/internal/models"
)

// buildPDF renders a one-page PDF showing each line with Helvetica. No lines
// gives a page without a content stream.
func buildPDF(lines ...string) []byte {
	var content bytes.Buffer
	for i, line := range lines {
		fmt.Fprintf(&content, "BT /F1 12 Tf 72 %d Td (%s) Tj ET\n", 720-20*i, line)
	}

	page := "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> >>"
	if len(lines) > 0 {
		page = "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>"
	}

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		page,
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.Bytes()
}

func TestPDFParserExtractText(t *testing.T) {
	text, err := NewPDFParserService().ExtractText(buildPDF("Jane Doe", "Golang Engineer"))
	require.NoError(t, err)

	assert.Contains(t, text, "Jane Doe")
	assert.Contains(t, text, "Golang Engineer")
}

func TestPDFParserRejectsBrokenInput(t *testing.T) {
	valid := buildPDF("Jane Doe")

	tests := map[string][]byte{
		"garbage":   []byte("this is not a pdf at all, just some text that is long enough to read a tail from......................"),
		"truncated": valid[:len(valid)/2],
		"empty":     nil,
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewPDFParserService().ExtractText(data)
			assert.Error(t, err)
		})
	}
}

func TestPDFParserNoText(t *testing.T) {
	_, err := NewPDFParserService().ExtractText(buildPDF())
	assert.ErrorIs(t, err, ErrNoPDFText)
}

func TestPDFParserExtractTextFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.pdf")
	require.NoError(t, os.WriteFile(path, buildPDF("Jane Doe"), 0644))

	content, err := NewPDFParserService().ExtractTextFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, content.PageCount)
	assert.Equal(t, "Jane Doe", CleanText(content.Text))

	_, err = NewPDFParserService().ExtractTextFromFile(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}

func TestExtractFromURLWithRealPDF(t *testing.T) {
	docs := map[string][]byte{
		"/cv.pdf":      buildPDF("Jane Doe", "Golang Engineer"),
		"/broken.pdf":  []byte("%PDF-1.4\nnot really a pdf"),
		"/scanned.pdf": buildPDF(),
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, ok := docs[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	extractor := NewTextExtractor(
		NewDocumentFetcher(time.Second, 1<<20, nil),
		NewPDFParserService(),
		ExtractorOptions{PDFEnabled: true},
		nil,
	)

	got := extractor.ExtractFromURL(context.Background(), srv.URL+"/cv.pdf")
	assert.Equal(t, models.ExtractionOK, got.Status)
	assert.NotEmpty(t, got.Text)
	assert.Contains(t, got.Text, "Jane Doe")
	assert.Contains(t, got.Text, "Golang Engineer")

	got = extractor.ExtractFromURL(context.Background(), srv.URL+"/broken.pdf")
	assert.Equal(t, models.ExtractedText{Text: SentinelParseError, Status: models.ExtractionParseError}, got)

	got = extractor.ExtractFromURL(context.Background(), srv.URL+"/scanned.pdf")
	assert.Equal(t, models.ExtractedText{Text: SentinelParseError, Status: models.ExtractionParseError}, got)
}
