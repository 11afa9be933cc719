package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spacesedan/sentireport/internal/models"
)

// Write stores posts as an indented JSON array of {"text": ...} objects.
// Non-ASCII and HTML characters are written as-is.
func Write(path string, posts []models.Post) error {
	if posts == nil {
		posts = []models.Post{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(posts); err != nil {
		return fmt.Errorf("encoding documents: %w", err)
	}

	if err := os.WriteFile(path, bytes.TrimRight(buf.Bytes(), "\n"), 0o644); err != nil {
		slog.Error("[Document] Failed to write documents",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("writing %s: %w", path, err)
	}

	slog.Info("[Document] Wrote documents",
		slog.String("path", path),
		slog.Int("count", len(posts)))
	return nil
}

// Read loads the posts written by Write, in file order.
func Read(path string) ([]models.Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Error("[Document] Failed to read documents",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	posts := []models.Post{}
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	slog.Info("[Document] Read documents",
		slog.String("path", path),
		slog.Int("count", len(posts)))
	return posts, nil
}

// CaseMismatch reports whether the two paths name different files that only
// differ by letter case. On a case-insensitive filesystem they resolve to the
// same file; on a case-sensitive one the read will miss the write.
func CaseMismatch(written, read string) bool {
	w, r := filepath.Clean(written), filepath.Clean(read)
	return w != r && strings.EqualFold(w, r)
}
