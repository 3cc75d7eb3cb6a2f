package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/domain"
	ports "github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/ports/output"
)

const fileTimestamp = "20060102_150405"

type store struct {
	root string
	now  func() time.Time
}

// New creates an ArtifactStore writing under dir, creating it if missing.
func New(dir string) (ports.ArtifactStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &store{root: filepath.Clean(dir), now: time.Now}, nil
}

func (s *store) SaveImage(ctx context.Context, id uuid.UUID, data []byte) (string, error) {
	return s.save(ctx, s.fileName("image", id, "png"), data)
}

func (s *store) SaveModel(ctx context.Context, id uuid.UUID, format string, data []byte) (string, error) {
	format = strings.TrimPrefix(strings.ToLower(format), ".")
	if format == "" {
		format = "obj"
	}
	return s.save(ctx, s.fileName("model", id, format), data)
}

func (s *store) Open(_ context.Context, path string) (io.ReadCloser, int64, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, 0, err
	}

	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, domain.ErrArtifactNotFound
		}
		return nil, 0, fmt.Errorf("open artifact: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("stat artifact: %w", err)
	}
	if info.IsDir() {
		f.Close()
		return nil, 0, domain.ErrArtifactNotFound
	}
	return f, info.Size(), nil
}

func (s *store) Available() bool {
	info, err := os.Stat(s.root)
	return err == nil && info.IsDir()
}

func (s *store) fileName(kind string, id uuid.UUID, ext string) string {
	return fmt.Sprintf("%s_%s_%s.%s", kind, s.now().Format(fileTimestamp), id.String()[:8], ext)
}

func (s *store) save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(s.root, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("rename %s: %w", name, err)
	}

	log.WithFields(log.Fields{"path": path, "bytes": len(data)}).Debug("artifact saved")
	return path, nil
}

// resolve keeps reads inside the output directory.
func (s *store) resolve(path string) (string, error) {
	clean := filepath.Clean(path)
	if !filepath.IsAbs(clean) && !strings.HasPrefix(clean, s.root+string(filepath.Separator)) {
		clean = filepath.Join(s.root, clean)
	}

	rel, err := filepath.Rel(s.root, clean)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", domain.ErrArtifactNotFound
	}
	return clean, nil
}
