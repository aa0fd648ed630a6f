// Package exportdir persists export artifacts to the local filesystem using
// the {timestamp}__{name}__{id}.{ext} naming convention.
package exportdir

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/satriahrh/convoport/internal/domain/export"
	"github.com/satriahrh/convoport/internal/sanitize"
)

type Writer struct {
	root  string
	clock func() time.Time
}

// New creates a Writer rooted at dir. The directory is created on demand.
func New(dir string) *Writer {
	return &Writer{root: dir, clock: time.Now}
}

// Root returns the export root directory.
func (w *Writer) Root() string { return w.root }

// BaseName builds the artifact base name. Stamp and name go through the
// sanitizer; the id is kept verbatim so names stay stable across runs.
func BaseName(stamp, name, id string) string {
	return fmt.Sprintf("%s__%s__%s", sanitize.Filename(stamp), sanitize.Filename(name), id)
}

func (w *Writer) path(scope, stamp, name, id string, kind export.Kind) (string, error) {
	dir := w.root
	if scope != "" {
		dir = filepath.Join(w.root, filepath.FromSlash(scope))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory %s: %w", dir, err)
	}
	return filepath.Join(dir, BaseName(stamp, name, id)+"."+string(kind)), nil
}

// WriteHTML implements export.Writer.
func (w *Writer) WriteHTML(scope, stamp, name, id, html string) (*export.Artifact, error) {
	path, err := w.path(scope, stamp, name, id, export.KindHTML)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return nil, fmt.Errorf("write html artifact: %w", err)
	}
	return &export.Artifact{ResourceID: id, Kind: export.KindHTML, Path: path, WrittenAt: w.clock()}, nil
}

// WriteJSON implements export.Writer. The value is serialized with
// two-space indentation for human inspection.
func (w *Writer) WriteJSON(scope, stamp, name, id string, v any) (*export.Artifact, error) {
	path, err := w.path(scope, stamp, name, id, export.KindJSON)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json artifact: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write json artifact: %w", err)
	}
	return &export.Artifact{ResourceID: id, Kind: export.KindJSON, Path: path, WrittenAt: w.clock()}, nil
}
