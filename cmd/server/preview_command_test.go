package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashdeck/flashdeck-api/internal/ingest"
)

func TestRunPreview(t *testing.T) {
	var out bytes.Buffer
	content := "front,back,notes\nHola,Hello,greeting\nAdiós,Goodbye,\n , x,blank\n"

	err := runPreview(&out, "spanish.csv", content, previewOptions{page: 1, pageSize: 5})
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "spanish.csv (csv): 3 rows, page 1 of 1")
	assert.Contains(t, got, "front [Q]")
	assert.Contains(t, got, "back [A]")
	assert.Contains(t, got, "Hola")
	assert.Contains(t, got, `Selection: question="front" answer="back"`)
	assert.Contains(t, got, "Flashcards: 2")
}

func TestRunPreviewSelectionAndPaging(t *testing.T) {
	var out bytes.Buffer
	var content strings.Builder
	content.WriteString("a,b,c\n")
	for i := 0; i < 7; i++ {
		content.WriteString("x,y,z\n")
	}

	err := runPreview(&out, "deck.csv", content.String(), previewOptions{
		page:     9,
		pageSize: 3,
		question: "c",
		answer:   "a",
	})
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "7 rows, page 3 of 3")
	assert.Contains(t, got, "c [Q]")
	assert.Contains(t, got, "a [A]")
	assert.Contains(t, got, "Flashcards: 7")
}

func TestRunPreviewErrors(t *testing.T) {
	var out bytes.Buffer

	err := runPreview(&out, "deck.csv", "a,b\n1,2\n", previewOptions{page: 1, pageSize: 5, question: "missing"})
	assert.ErrorIs(t, err, ingest.ErrMissingField)
	assert.NotContains(t, out.String(), "Flashcards:")

	err = runPreview(&out, "deck.json", "[]", previewOptions{page: 1, pageSize: 5})
	assert.ErrorIs(t, err, ingest.ErrNoDataParsed)

	err = runPreview(&out, "deck.csv", "a,b\n1,2\n", previewOptions{page: 1, pageSize: 5, format: "xlsx"})
	assert.Error(t, err)
}

func TestPreviewCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("Q1\tA1\nQ2\tA2\n"), 0o600))

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"preview", path, "--page-size", "1"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "notes.txt (txt): 2 rows, page 1 of 2")
	assert.Contains(t, out.String(), "Flashcards: 2")
}

func TestPreviewCommandMissingFile(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"preview", filepath.Join(t.TempDir(), "absent.csv")})

	assert.Error(t, cmd.Execute())
}
