package producer

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/quickpick/internal/picker/stream"
)

// Walk traverses a directory tree and emits one item per regular file.
// Top-level subdirectories are walked concurrently. Traversal order is
// implementation-defined; callers rely only on first-seen-first-appended.
type Walk struct {
	// Root is the search root. Empty means the current directory.
	Root string

	// IncludeHidden includes dot-files and dot-directories.
	IncludeHidden bool

	// Workers bounds concurrent subtree walks. Zero means NumCPU.
	Workers int
}

// Produce implements Producer.
func (w *Walk) Produce(ctx context.Context, emit Emit) error {
	root := w.Root
	if root == "" {
		root = "."
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return err
	}

	workers := w.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, entry := range entries {
		if w.skip(entry.Name()) {
			continue
		}
		if !entry.IsDir() {
			if entry.Type().IsRegular() {
				emit(fileItem(root, entry.Name()))
			}
			continue
		}

		sub := entry.Name()
		g.Go(func() error {
			return w.walkSubtree(gctx, root, sub, emit)
		})
	}

	return g.Wait()
}

// walkSubtree walks one top-level subdirectory, emitting root-relative paths.
func (w *Walk) walkSubtree(ctx context.Context, root, sub string, emit Emit) error {
	return filepath.WalkDir(filepath.Join(root, sub), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped, not fatal.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if w.skip(d.Name()) && path != filepath.Join(root, sub) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type().IsRegular() {
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return nil
			}
			emit(fileItem(root, rel))
		}
		return nil
	})
}

// skip reports whether a directory entry name is excluded from the walk.
func (w *Walk) skip(name string) bool {
	if !w.IncludeHidden && strings.HasPrefix(name, ".") {
		return true
	}
	return false
}

func fileItem(root, rel string) stream.Item {
	rel = filepath.ToSlash(rel)
	return stream.Item{
		Text: rel,
		Path: filepath.Join(root, filepath.FromSlash(rel)),
	}
}
