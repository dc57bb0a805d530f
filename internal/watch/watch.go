// Package watch re-runs a comparison whenever one of the two compared files
// changes on disk.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/mcncl/jsoncmp/internal/errors"
	"github.com/mcncl/jsoncmp/internal/logging"
	"github.com/mcncl/jsoncmp/internal/pipeline"
	"go.uber.org/zap"
)

// Watcher feeds file contents into a debounced session
type Watcher struct {
	leftPath  string
	rightPath string
	session   *pipeline.Session
	logger    *zap.Logger
}

// New creates a Watcher for two files. Paths are made absolute so events
// reported for the parent directories can be matched.
func New(leftPath, rightPath string, session *pipeline.Session, logger *zap.Logger) (*Watcher, error) {
	left, err := filepath.Abs(leftPath)
	if err != nil {
		return nil, errors.NewInputError(fmt.Sprintf("invalid path '%s'", leftPath), errors.ErrInvalidFilePath)
	}
	right, err := filepath.Abs(rightPath)
	if err != nil {
		return nil, errors.NewInputError(fmt.Sprintf("invalid path '%s'", rightPath), errors.ErrInvalidFilePath)
	}
	return &Watcher{
		leftPath:  left,
		rightPath: right,
		session:   session,
		logger:    logging.OrNop(logger),
	}, nil
}

// Run compares the files once, then again after every change, until ctx is
// done. The parent directories are watched rather than the files so editors
// that save by renaming a temporary file are still followed.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.NewInputError("failed to start file watcher", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			w.logger.Warn("error closing file watcher", zap.Error(err))
		}
	}()

	dirs := map[string]bool{}
	for _, path := range []string{w.leftPath, w.rightPath} {
		dir := filepath.Dir(path)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return errors.NewInputError(fmt.Sprintf("failed to watch '%s'", dir), err)
		}
		dirs[dir] = true
		w.logger.Debug("watching directory", zap.String("dir", dir))
	}

	w.reload("initial")

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	name, err := filepath.Abs(event.Name)
	if err != nil || (name != w.leftPath && name != w.rightPath) {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return // Ignore chmod and removes
	}
	w.logger.Debug("file changed", zap.String("path", name), zap.Stringer("op", event.Op))
	w.reload(event.Op.String())
}

// reload reads both files and schedules a comparison. Unreadable files
// are skipped until the next change.
func (w *Watcher) reload(reason string) {
	left, err := os.ReadFile(w.leftPath)
	if err != nil {
		w.logger.Warn("cannot read left file", zap.String("path", w.leftPath), zap.Error(err))
		return
	}
	right, err := os.ReadFile(w.rightPath)
	if err != nil {
		w.logger.Warn("cannot read right file", zap.String("path", w.rightPath), zap.Error(err))
		return
	}
	w.logger.Debug("scheduling comparison", zap.String("reason", reason))
	w.session.Update(string(left), string(right))
}
