package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/0xhappyboy/bubble/compiler/gen"
	"github.com/0xhappyboy/bubble/compiler/load"
)

const debounce = 200 * time.Millisecond

// watcher calls regen after a Go source file in one of the watched
// directories changed and the directories have been quiet for delay.
type watcher struct {
	fs    *fsnotify.Watcher
	delay time.Duration
	log   *zap.Logger
	regen func(context.Context) error
}

func newWatcher(dirs []string, delay time.Duration, log *zap.Logger, regen func(context.Context) error) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("bubblegen: watch: %w", err)
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("bubblegen: watch %s: %w", dir, err)
		}
	}
	return &watcher{fs: fw, delay: delay, log: log, regen: regen}, nil
}

// run blocks until ctx is done. Generation errors are logged by regen and do
// not stop the watcher.
func (w *watcher) run(ctx context.Context) error {
	defer w.fs.Close()
	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			w.log.Debug("source changed", zap.String("file", ev.Name), zap.Stringer("op", ev.Op))
			if timer == nil {
				timer = time.NewTimer(w.delay)
			} else {
				timer.Reset(w.delay)
			}
			pending = timer.C
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))
		case <-pending:
			pending = nil
			_ = w.regen(ctx)
		}
	}
}

// relevant reports whether ev may change the annotated types: a change to a
// non-test Go file that was not written by the generator.
func relevant(ev fsnotify.Event) bool {
	name := filepath.Base(ev.Name)
	switch {
	case filepath.Ext(name) != ".go",
		strings.HasPrefix(name, "."),
		strings.HasSuffix(name, "_test.go"),
		strings.HasSuffix(name, gen.FileSuffix):
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}

func packageDirs(structs []*load.Struct) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, s := range structs {
		if !seen[s.Dir] {
			seen[s.Dir] = true
			dirs = append(dirs, s.Dir)
		}
	}
	sort.Strings(dirs)
	return dirs
}
