package trainlog

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equipo13/navauto_client/internal/config"
)

func testConfig(t *testing.T) config.CaptureConfig {
	t.Helper()
	dir := t.TempDir()
	return config.CaptureConfig{
		Folder:     filepath.Join(dir, "train_images"),
		CSVPath:    filepath.Join(dir, "images.csv"),
		SaveImages: true,
	}
}

func readAllRows(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestNewWritesHeaderOnce(t *testing.T) {
	cfg := testConfig(t)

	l, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, l.Close())

	rows := readAllRows(t, cfg.CSVPath)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"Image Name", "Steering Angle"}, rows[0])

	// reopening must not repeat the header
	l, err = New(cfg)
	require.NoError(t, err)
	require.NoError(t, l.Close())

	rows = readAllRows(t, cfg.CSVPath)
	assert.Len(t, rows, 1)
}

func TestRecordAppendsRows(t *testing.T) {
	cfg := testConfig(t)
	l, err := New(cfg)
	require.NoError(t, err)
	defer l.Close()

	now := time.Date(2024, 6, 22, 15, 4, 0, 0, time.UTC)
	path, wrote, err := l.Record(now, 0.14)
	require.NoError(t, err)
	assert.True(t, wrote)
	assert.Equal(t, filepath.Join(cfg.Folder, "M-2024-06-22_15-04-0.png"), path)

	rows := readAllRows(t, cfg.CSVPath)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{path, "0.14"}, rows[1])
}

func TestRecordSkipsConsecutiveDuplicates(t *testing.T) {
	cfg := testConfig(t)
	l, err := New(cfg)
	require.NoError(t, err)
	defer l.Close()

	now := time.Date(2024, 6, 22, 15, 4, 0, 0, time.UTC)
	_, wrote, err := l.Record(now, 0.1)
	require.NoError(t, err)
	require.True(t, wrote)

	// the counter advanced, so the same timestamp names a new file
	path, wrote, err := l.Record(now, 0.2)
	require.NoError(t, err)
	assert.True(t, wrote)
	assert.Equal(t, filepath.Join(cfg.Folder, "M-2024-06-22_15-04-1.png"), path)

	rows := readAllRows(t, cfg.CSVPath)
	require.Len(t, rows, 3)
	assert.NotEqual(t, rows[1][0], rows[2][0])
}

func TestCounterResumesFromExistingFile(t *testing.T) {
	cfg := testConfig(t)

	l, err := New(cfg)
	require.NoError(t, err)
	now := time.Date(2024, 6, 22, 15, 4, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, wrote, err := l.Record(now, 0.1)
		require.NoError(t, err)
		require.True(t, wrote)
	}
	require.NoError(t, l.Close())

	// restarted session keeps numbering where the file left off
	l, err = New(cfg)
	require.NoError(t, err)
	defer l.Close()

	path, wrote, err := l.Record(now, 0.3)
	require.NoError(t, err)
	assert.True(t, wrote)
	assert.Equal(t, filepath.Join(cfg.Folder, "M-2024-06-22_15-04-3.png"), path)
}

func TestDisabledLogDoesNothing(t *testing.T) {
	cfg := testConfig(t)
	cfg.SaveImages = false

	l, err := New(cfg)
	require.NoError(t, err)
	assert.False(t, l.Enabled())

	path, wrote, err := l.Record(time.Now(), 0.5)
	require.NoError(t, err)
	assert.False(t, wrote)
	assert.Empty(t, path)

	_, err = os.Stat(cfg.CSVPath)
	assert.True(t, os.IsNotExist(err))
	require.NoError(t, l.Close())
}
