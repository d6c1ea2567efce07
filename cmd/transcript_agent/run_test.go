package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/transcript-refiner/internal/config"
)

func testRunConfig() config.Config {
	return config.Config{
		Provider:              "stub",
		ChunkChars:            200,
		OverlapChars:          50,
		DedupMinMatchFraction: 0.1,
		ContentMode:           "normal",
		TimecodeMode:          "chunk",
		Retries:               1,
	}
}

func TestRefineOneWritesDocumentAndQualityReport(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "talk.txt")
	require.NoError(t, os.WriteFile(input, []byte("hello world"), 0o644))

	require.NoError(t, refineOne(context.Background(), testRunConfig(), input, true, ""))

	doc, err := os.ReadFile(filepath.Join(dir, "talk.md"))
	require.NoError(t, err)
	assert.Contains(t, string(doc), "hello world")

	// The quality report lands next to the document without being asked for.
	report, err := os.ReadFile(filepath.Join(dir, "talk_qc_report.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(report), "chunk_id,start,end")
}

func TestRefineOneHonorsExplicitPaths(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "talk.txt")
	require.NoError(t, os.WriteFile(input, []byte("hello world"), 0o644))

	cfg := testRunConfig()
	cfg.Output = filepath.Join(dir, "custom.md")
	cfg.QCReport = filepath.Join(dir, "custom.csv")

	require.NoError(t, refineOne(context.Background(), cfg, input, true, ""))

	assert.FileExists(t, cfg.Output)
	assert.FileExists(t, cfg.QCReport)
}

func TestDerivedPath(t *testing.T) {
	assert.Equal(t, "talks/intro.md", derivedPath("talks/intro.srt", ".md"))
	assert.Equal(t, "intro_qc_report.csv", derivedPath("intro.txt", "_qc_report.csv"))
}
