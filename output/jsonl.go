package output

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/c360studio/tripleforge/catalog"
	"github.com/c360studio/tripleforge/gen"
)

// JSONLWriter writes one file per (subject, schema, format) job under a
// base directory, one JSON triple per line. Files are appended to, so
// repeated runs into the same directory accumulate samples the way the
// training corpus is normally grown.
type JSONLWriter struct {
	dir    string
	logger *slog.Logger
}

// NewJSONLWriter creates the base directory if needed.
func NewJSONLWriter(dir string, logger *slog.Logger) (*JSONLWriter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &JSONLWriter{dir: dir, logger: logger}, nil
}

// WriteBatch implements Sink. The batch is written through a buffered
// writer and flushed before close; a partial batch is only possible on
// write error, which fails the job.
func (w *JSONLWriter) WriteBatch(_ context.Context, ref catalog.Ref, format catalog.Format, triples []gen.Triple) error {
	path := filepath.Join(w.dir, FileName(ref, format))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	enc := json.NewEncoder(buf)
	for i, triple := range triples {
		if err := enc.Encode(triple); err != nil {
			return fmt.Errorf("encode triple %d for %s: %w", i, path, err)
		}
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", path, err)
	}

	w.logger.Debug("Wrote batch",
		"file", path,
		"triples", len(triples))
	return nil
}
