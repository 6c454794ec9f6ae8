package scan

import (
	"context"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// MemScanner serves files from an in-memory map. Keys are slash-separated
// paths as a caller would pass them to ReadFile.
type MemScanner struct {
	files map[string]string
}

// NewMemScanner returns a Scanner backed by the given path -> content map.
func NewMemScanner(files map[string]string) *MemScanner {
	copied := make(map[string]string, len(files))
	for k, v := range files {
		copied[k] = v
	}
	return &MemScanner{files: copied}
}

// ListFiles returns the files under root, paths relative to it, sorted.
// An empty or "." root matches everything.
func (s *MemScanner) ListFiles(ctx context.Context, root string) ([]FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := ""
	if root != "" && root != "." {
		prefix = strings.TrimSuffix(root, "/") + "/"
	}

	var files []FileInfo
	for path, content := range s.files {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		files = append(files, FileInfo{
			Path: strings.TrimPrefix(path, prefix),
			Size: int64(len(content)),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// ReadFile looks the path up verbatim.
func (s *MemScanner) ReadFile(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	content, ok := s.files[path]
	if !ok {
		return "", errors.Newf("scan: reading %s: not found", path)
	}
	return content, nil
}
