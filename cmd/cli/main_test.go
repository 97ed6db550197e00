package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&out)

	err := root.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, version+"\n", out)
}

func TestPathwayParseFromStdin(t *testing.T) {
	out, err := run(t, "intro\n**Skills Required**\n- Go\n- **Entry Level:** Junior Developer\n", "pathway", "parse")
	require.NoError(t, err)
	assert.JSONEq(t, `{"Skills Required":["Go",{"Entry Level":"Junior Developer"}]}`, out)
}

func TestPathwayParseFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pathway.md")
	require.NoError(t, os.WriteFile(path, []byte("**Certifications**\n- CKA\n"), 0644))

	out, err := run(t, "", "pathway", "parse", path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Certifications":["CKA"]}`, out)
}

func TestExtractUnsupportedFile(t *testing.T) {
	out, err := run(t, "", "extract", "resume.docx")
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"Word document parsing not implemented","status":"unsupported_format"}`, out)
}

func TestRankRejectsInvalidRequest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"job":{"title":"SRE"},"candidates":[]}`), 0644))

	_, err := run(t, "", "rank", path)
	assert.EqualError(t, err, "at least one candidate is required")
}

func TestPathwayGenerateRequiresTitle(t *testing.T) {
	_, err := run(t, "", "pathway", "generate")
	assert.EqualError(t, err, "--title is required")
}
