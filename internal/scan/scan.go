// Package scan is draftsmith's filesystem collaborator. Tools that look
// at a project (onboarding, hygiene) depend on the Scanner interface and
// never touch the disk themselves, so they stay testable and safe to run
// against untrusted trees. DirScanner is the production implementation;
// MemScanner backs tests and embedding hosts.
package scan

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// FileInfo describes one file found under a scanned root. Path is
// relative to the root and slash-separated regardless of OS.
type FileInfo struct {
	Path string
	Size int64
}

// Scanner lists and reads project files. ListFiles returns relative
// paths; ReadFile takes the path as the caller resolved it (typically
// root joined with a listed path).
type Scanner interface {
	ListFiles(ctx context.Context, root string) ([]FileInfo, error)
	ReadFile(ctx context.Context, path string) (string, error)
}

// ignoreDirs are directories skipped during tree walks. Dependency
// trees, build outputs, and caches; dot-directories are skipped
// separately.
var ignoreDirs = map[string]bool{
	"node_modules": true, "vendor": true, "__pycache__": true,
	"dist": true, "build": true, "target": true,
	"venv": true, "coverage": true,
}

// Default caps, used when the corresponding DirScanner field is zero.
const (
	defaultMaxDepth  = 8
	defaultMaxFiles  = 5000
	defaultMaxFileKB = 256
)

// DirScanner walks real directories. The zero value is ready to use
// with the default caps.
type DirScanner struct {
	// MaxFiles caps how many files ListFiles reports.
	MaxFiles int
	// MaxDepth caps directory nesting during ListFiles.
	MaxDepth int
	// MaxFileKB caps how much of a file ReadFile returns, in KiB.
	MaxFileKB int
}

// NewDirScanner returns a filesystem-backed Scanner with default caps.
func NewDirScanner() *DirScanner {
	return &DirScanner{}
}

func (s *DirScanner) maxFiles() int {
	if s.MaxFiles > 0 {
		return s.MaxFiles
	}
	return defaultMaxFiles
}

func (s *DirScanner) maxDepth() int {
	if s.MaxDepth > 0 {
		return s.MaxDepth
	}
	return defaultMaxDepth
}

func (s *DirScanner) maxReadBytes() int64 {
	if s.MaxFileKB > 0 {
		return int64(s.MaxFileKB) * 1024
	}
	return defaultMaxFileKB * 1024
}

// ListFiles walks root and returns every regular file, sorted by path.
// Ignored and hidden directories are pruned, nesting and file count are
// capped, and unreadable entries are skipped rather than failing the
// walk. A missing or unreadable root is an error.
func (s *DirScanner) ListFiles(ctx context.Context, root string) ([]FileInfo, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrapf(err, "scan: listing %s", root)
	}
	if !info.IsDir() {
		return nil, errors.Newf("scan: %s is not a directory", root)
	}

	maxFiles := s.maxFiles()
	maxDepth := s.maxDepth()

	var files []FileInfo
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			return nil // skip unreadable entries
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			name := d.Name()
			if ignoreDirs[name] || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if strings.Count(rel, "/")+1 >= maxDepth {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		fi, infoErr := d.Info()
		if infoErr != nil {
			return nil
		}

		files = append(files, FileInfo{Path: rel, Size: fi.Size()})
		if len(files) >= maxFiles {
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "scan: listing %s", root)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// ReadFile returns the file's content, truncated to the size cap.
// Oversized files are truncated rather than rejected so callers can
// still show an excerpt.
func (s *DirScanner) ReadFile(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "scan: reading %s", path)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.maxReadBytes()))
	if err != nil {
		return "", errors.Wrapf(err, "scan: reading %s", path)
	}
	return string(data), nil
}
