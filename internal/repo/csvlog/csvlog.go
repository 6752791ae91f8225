// Package csvlog is the append-only observation log: one CSV row per
// recorded probe, with a header written when the file is first created.
package csvlog

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/multierr"

	"github.com/hamed0406/reachmon/internal/domain"
)

type Sink struct {
	path string
	mu   sync.Mutex
}

func New(path string) *Sink {
	return &Sink{path: path}
}

func (s *Sink) Path() string { return s.path }

// Append writes one record. The file (and its parent directories) is
// created on demand, so a log removed at runtime starts over with a header.
// The mutex keeps concurrent callers from interleaving rows.
func (s *Sink) Append(ctx context.Context, r *domain.Record) (err error) {
	row, err := encode(r.Fields())
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	isNew := false
	if _, statErr := os.Stat(s.path); errors.Is(statErr, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer func() { err = multierr.Append(err, f.Close()) }()

	if isNew {
		hdr, encErr := encode(domain.RecordHeader)
		if encErr != nil {
			return encErr
		}
		row = append(hdr, row...)
	}
	if _, err := f.Write(row); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}

func encode(fields []string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(fields); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
