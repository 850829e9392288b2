// internal/app/store/uploads/uploadstore.go

// Package uploads stores submitted listing images on local disk and hands
// back the stable URL path that gets embedded as a listing's imageUrl. Files
// are served read-only by the static file server mounted over the base
// directory.
package uploads

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Store writes uploaded files under a base directory and maps them to URLs
// under a base URL prefix.
type Store struct {
	basePath string
	baseURL  string
}

// New creates an upload store rooted at basePath, serving under baseURL
// (e.g. "./uploads/servers" and "/files/servers").
func New(basePath, baseURL string) *Store {
	return &Store{basePath: basePath, baseURL: baseURL}
}

// BasePath returns the directory uploads are written to.
func (s *Store) BasePath() string {
	return s.basePath
}

// SaveImage persists the uploaded file and returns its public URL path.
// The stored name is YYYY/MM/<uuid-prefix>-<sanitized original name>, so
// names never collide and never carry unsafe characters.
func (s *Store) SaveImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	now := time.Now().UTC()
	dateDir := fmt.Sprintf("%04d/%02d", now.Year(), now.Month())
	uniqueName := fmt.Sprintf("%s-%s", uuid.New().String()[:8], sanitizeFilename(filename))
	rel := filepath.ToSlash(filepath.Join(dateDir, uniqueName))

	dst := filepath.Join(s.basePath, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dst)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("close upload file: %w", err)
	}

	return s.baseURL + "/" + rel, nil
}

// sanitizeFilename removes or replaces characters that could be problematic
// in filenames.
func sanitizeFilename(filename string) string {
	// Get just the filename, not any path components.
	filename = filepath.Base(filename)

	result := make([]byte, 0, len(filename))
	for i := 0; i < len(filename); i++ {
		c := filename[i]
		if isAllowedFilenameChar(c) {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}

	if len(result) == 0 {
		return "file"
	}
	if len(result) > 100 {
		// Truncate but preserve extension if present.
		ext := filepath.Ext(string(result))
		if len(ext) > 0 && len(ext) < 10 {
			result = append(result[:100-len(ext)], ext...)
		} else {
			result = result[:100]
		}
	}

	return string(result)
}

func isAllowedFilenameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '.'
}
