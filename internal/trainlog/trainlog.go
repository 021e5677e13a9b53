// Package trainlog appends (image path, steering angle) rows to the
// training CSV consumed by the offline model-training pipeline.
package trainlog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/equipo13/navauto_client/internal/config"
)

var header = []string{"Image Name", "Steering Angle"}

// Log is the append-only training log. Rows are never updated or
// deleted; the only uniqueness rule is that two consecutive rows never
// name the same image file.
type Log struct {
	folder  string
	csvPath string
	enabled bool

	file   *os.File
	writer *csv.Writer

	picNum    int
	lastImage string
}

// New opens the CSV in append mode for the lifetime of the run. The
// image counter resumes from the existing file so restarted capture
// sessions keep numbering where they left off. A disabled log accepts
// every call and does nothing.
func New(cfg config.CaptureConfig) (*Log, error) {
	l := &Log{
		folder:  cfg.Folder,
		csvPath: cfg.CSVPath,
		enabled: cfg.SaveImages,
	}
	if !l.enabled {
		return l, nil
	}

	if err := os.MkdirAll(cfg.Folder, 0o755); err != nil {
		return nil, fmt.Errorf("failed creating image folder %s: %w", cfg.Folder, err)
	}

	lastRow, err := countRows(cfg.CSVPath)
	if err != nil {
		return nil, err
	}
	if lastRow > 0 {
		l.picNum = lastRow - 1
	}

	file, err := os.OpenFile(cfg.CSVPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed opening csv %s: %w", cfg.CSVPath, err)
	}
	l.file = file
	l.writer = csv.NewWriter(file)

	if lastRow == 0 {
		if err := l.writer.Write(header); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed writing csv header: %w", err)
		}
		l.writer.Flush()
		if err := l.writer.Error(); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed flushing csv header: %w", err)
		}
	}
	return l, nil
}

func (l *Log) Enabled() bool {
	return l.enabled
}

// NextImagePath names the image the current row would reference.
func (l *Log) NextImagePath(now time.Time) string {
	name := fmt.Sprintf("M-%s-%d.png", now.Format("2006-01-02_15-04"), l.picNum)
	return filepath.Join(l.folder, name)
}

// Record appends one row. It returns the image path and true when a row
// was written, or false when the row would repeat the previous image
// path and was skipped.
func (l *Log) Record(now time.Time, steeringAngle float64) (string, bool, error) {
	if !l.enabled {
		return "", false, nil
	}

	path := l.NextImagePath(now)
	if path == l.lastImage {
		return "", false, nil
	}

	row := []string{path, strconv.FormatFloat(steeringAngle, 'f', -1, 64)}
	if err := l.writer.Write(row); err != nil {
		return "", false, fmt.Errorf("failed writing csv row: %w", err)
	}
	l.writer.Flush()
	if err := l.writer.Error(); err != nil {
		return "", false, fmt.Errorf("failed flushing csv row: %w", err)
	}

	l.lastImage = path
	l.picNum++
	return path, true, nil
}

func (l *Log) LastImage() string {
	return l.lastImage
}

func (l *Log) Close() error {
	if !l.enabled || l.file == nil {
		return nil
	}
	l.writer.Flush()
	return l.file.Close()
}

func countRows(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed opening csv %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows := 0
	for {
		_, err := reader.Read()
		if err != nil {
			break
		}
		rows++
	}
	return rows, nil
}
