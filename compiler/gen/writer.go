package gen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"golang.org/x/sync/errgroup"
)

// fileTask is one generated file.
type fileTask struct {
	typ  *Type
	path string
	src  []byte
}

// render renders the file of every type in parallel. Nothing is written.
func (g *Generator) render(ctx context.Context, types []*Type) ([]*fileTask, error) {
	files := make([]*fileTask, len(types))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.workers())
	for i, t := range types {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := t.OutputPath(g.cfg.Target)
			var buf bytes.Buffer
			if err := g.file(t).Render(&buf); err != nil {
				return NewGenerateError(t.Name, path, "render", err)
			}
			files[i] = &fileTask{typ: t, path: path, src: buf.Bytes()}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// write writes the rendered files in parallel. A file whose content did not
// change is left untouched. It returns the number of files written.
func (g *Generator) write(ctx context.Context, files []*fileTask) (int, error) {
	written := make([]bool, len(files))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.workers())
	for i, f := range files {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			changed, err := writeFile(f.path, f.src)
			if err != nil {
				return NewGenerateError(f.typ.Name, f.path, "write", err)
			}
			written[i] = changed
			return nil
		})
	}
	err := eg.Wait()
	n := 0
	for _, w := range written {
		if w {
			n++
		}
	}
	return n, err
}

// writeFile atomically replaces the file at path with src, unless it already
// holds src.
func writeFile(path string, src []byte) (bool, error) {
	if old, err := os.ReadFile(path); err == nil && bytes.Equal(old, src) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create directory: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(src)); err != nil {
		return false, err
	}
	return true, nil
}
