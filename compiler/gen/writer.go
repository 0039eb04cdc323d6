package gen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"
)

// WriterMetrics tracks generation performance
type WriterMetrics struct {
	FilesGenerated int
	FilesUnchanged int
	TotalBytes     int64
	RenderTime     time.Duration
	WriteTime      time.Duration
}

// write stores the artifacts in the output directory in parallel.
func (g *JenniferGenerator) write(ctx context.Context, artifacts []Artifact) ([]string, error) {
	if err := os.MkdirAll(g.outDir, 0o755); err != nil {
		return nil, NewGenerationError("write", g.outDir, "create output directory", err)
	}
	start := time.Now()
	paths := make([]string, len(artifacts))

	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(g.workers)
	for i, a := range artifacts {
		paths[i] = filepath.Join(g.outDir, a.Name)
		errg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			changed, err := writeFile(paths[i], a.Content)
			if err != nil {
				return NewGenerationError("write", a.Name, "", err)
			}
			g.mu.Lock()
			if changed {
				g.metrics.FilesGenerated++
				g.metrics.TotalBytes += int64(len(a.Content))
			} else {
				g.metrics.FilesUnchanged++
			}
			g.mu.Unlock()
			return nil
		})
	}
	if err := errg.Wait(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	g.metrics.WriteTime = time.Since(start)
	g.mu.Unlock()
	return paths, nil
}

// writeFile replaces the file at path with content. The content goes to a
// temporary file in the same directory first and is renamed over path, so
// readers never observe a partially written file. A file that already holds
// content is left untouched and reported as unchanged.
func writeFile(path string, content []byte) (changed bool, err error) {
	current, err := os.ReadFile(path)
	switch {
	case err == nil && bytes.Equal(current, content):
		return false, nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return false, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(content); err != nil {
		_ = tmp.Close()
		return false, fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return false, err
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return false, err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return false, err
	}
	return true, nil
}
