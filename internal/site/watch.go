package site

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/grahms/hideblock/internal/logger"
)

// Watch rebuilds the site whenever a file under the source directory changes,
// until ctx is done. Bursts of events closer together than debounce trigger a
// single rebuild. onBuild, if set, receives the result of every rebuild.
func (b *Builder) Watch(ctx context.Context, debounce time.Duration, onBuild func(Report, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer watcher.Close()

	if err := b.watchTree(watcher, b.cfg.Source); err != nil {
		return err
	}
	ctx = logger.With(ctx, "source", b.cfg.Source)
	logger.G(ctx).Info("watching for changes")

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if b.inOutput(event.Name) {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := b.watchTree(watcher, event.Name); err != nil {
						logger.G(ctx).WithError(err).Warn("failed to watch new directory")
					}
				}
			}
			logger.G(ctx).WithField("file", event.Name).WithField("operation", event.Op.String()).Debug("change detected")
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.G(ctx).WithError(err).Error("error watching files")
		case <-timer.C:
			report, err := b.Build(ctx)
			if err != nil {
				logger.G(ctx).WithError(err).Error("rebuild failed")
			}
			if onBuild != nil {
				onBuild(report, err)
			}
		}
	}
}

// watchTree adds dir and every directory below it, except the output
// directory, to watcher.
func (b *Builder) watchTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if b.inOutput(path) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return errors.Wrapf(err, "failed to watch %s", path)
		}
		return nil
	})
}

func (b *Builder) inOutput(path string) bool {
	out, err := filepath.Abs(b.cfg.Output)
	if err != nil {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(out, abs)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
