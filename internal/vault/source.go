// Package vault reads task documents from a directory tree and watches it
// for changes.
package vault

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/rcliao/tasktimeline/internal/domain"
	"github.com/rcliao/tasktimeline/internal/logging"
)

// Source loads every document under root whose extension is listed.
// Hidden files and directories are skipped.
type Source struct {
	root   string
	exts   map[string]bool
	logger *logging.Logger
}

func NewSource(root string, extensions []string, logger *logging.Logger) *Source {
	if logger == nil {
		logger = logging.NewNop()
	}
	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[ext] = true
	}
	return &Source{
		root:   filepath.Clean(root),
		exts:   exts,
		logger: logger.Named("vault"),
	}
}

func (s *Source) Root() string {
	return s.root
}

// Matches reports whether path has one of the source's extensions.
func (s *Source) Matches(path string) bool {
	return s.exts[strings.ToLower(filepath.Ext(path))]
}

// Load reads the documents in lexical path order. Files that cannot be read
// are reported in the second return value and skipped.
func (s *Source) Load(ctx context.Context) ([]domain.Document, []error, error) {
	info, err := os.Stat(s.root)
	if err != nil {
		return nil, nil, fmt.Errorf("reading vault root: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("vault root %s is not a directory", s.root)
	}

	var (
		docs     []domain.Document
		fileErrs []error
	)
	err = filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == s.root {
				return err
			}
			fileErrs = append(fileErrs, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if path != s.root && isHidden(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !s.Matches(path) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			fileErrs = append(fileErrs, err)
			s.logger.Warn(ctx, "skipping unreadable document", zap.String("path", path), zap.Error(err))
			return nil
		}
		id, err := s.sourceID(path)
		if err != nil {
			return err
		}
		docs = append(docs, domain.Document{
			SourceID:    id,
			SourceLabel: SourceLabel(path),
			Text:        string(data),
		})
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walking vault: %w", err)
	}

	s.logger.Debug(ctx, "vault loaded",
		zap.String("root", s.root),
		zap.Int("documents", len(docs)),
		zap.Int("errors", len(fileErrs)))
	return docs, fileErrs, nil
}

// sourceID is the slash-separated path relative to root.
func (s *Source) sourceID(path string) (string, error) {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// SourceLabel is the display name for a document: its base name without
// the extension.
func SourceLabel(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
