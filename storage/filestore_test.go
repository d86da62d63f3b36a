package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveTranscription(t *testing.T) {
	store := NewFileStore(t.TempDir())

	path, err := store.SaveTranscription(12, "paciente relatou dores")
	require.NoError(t, err)
	assert.Equal(t, "transcription_12.txt", filepath.Base(path))
	assert.Equal(t, "transcriptions", filepath.Base(filepath.Dir(path)))

	content, err := store.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "paciente relatou dores", content)
}

func TestSaveSummary(t *testing.T) {
	store := NewFileStore(t.TempDir())

	path, err := store.SaveSummary(12, "resumo da consulta")
	require.NoError(t, err)
	assert.Equal(t, "summary_12.txt", filepath.Base(path))

	content, err := store.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "resumo da consulta", content)
}

func TestSaveOverwritesPreviousVersion(t *testing.T) {
	store := NewFileStore(t.TempDir())

	first, err := store.SaveSummary(3, "primeira versao")
	require.NoError(t, err)
	second, err := store.SaveSummary(3, "versao corrigida")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	content, err := store.Read(second)
	require.NoError(t, err)
	assert.Equal(t, "versao corrigida", content)
}

func TestReadMissingFile(t *testing.T) {
	store := NewFileStore(t.TempDir())

	_, err := store.Read(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
