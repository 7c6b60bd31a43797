// Package sink writes harvest collections as JSON artifacts, one file
// per entity kind per run.
package sink

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Writer persists entity collections under a root directory.
type Writer struct {
	root   string
	logger *zap.Logger
}

// NewWriter returns a Writer rooted at dir, creating it if needed.
func NewWriter(root string, logger *zap.Logger) (*Writer, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", root, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{root: root, logger: logger}, nil
}

// Write serializes v as indented UTF-8 JSON to "<kind>_<tag>.json" and
// returns the number of bytes written.
func (w *Writer) Write(kind, tag string, v any) (int, error) {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("marshal %s: %w", kind, err)
	}

	target := filepath.Join(w.root, fmt.Sprintf("%s_%s.json", kind, tag))
	if err := os.WriteFile(target, payload, 0o600); err != nil {
		return 0, fmt.Errorf("write %s: %w", target, err)
	}

	w.logger.Info("artifact written",
		zap.String("kind", kind),
		zap.String("path", target),
		zap.Int("bytes", len(payload)),
	)
	return len(payload), nil
}

// YearTag concatenates the requested years into the artifact name tag,
// e.g. [2025 2026] -> "2025_2026".
func YearTag(years []int) string {
	parts := make([]string, 0, len(years))
	for _, y := range years {
		parts = append(parts, strconv.Itoa(y))
	}
	return strings.Join(parts, "_")
}
