package artifact

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors the artifact files and reports on-disk changes. The
// loaded artifacts are left untouched.
type Watcher struct {
	modelPath  string
	scalerPath string
	features   []string
	fsw        *fsnotify.Watcher
}

// NewWatcher registers both artifact paths with a filesystem watcher.
// Registration is synchronous, so any write after NewWatcher returns is seen
// by Run. Paths are cleaned to match the event names fsnotify reports.
func NewWatcher(modelPath, scalerPath string, features []string) (*Watcher, error) {
	modelPath, scalerPath = filepath.Clean(modelPath), filepath.Clean(scalerPath)
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, p := range []string{modelPath, scalerPath} {
		if err := fsw.Add(p); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return &Watcher{
		modelPath:  modelPath,
		scalerPath: scalerPath,
		features:   features,
		fsw:        fsw,
	}, nil
}

// Run blocks until ctx is cancelled. For every write, create, rename or
// remove of an artifact file it re-validates the file and calls onChange
// with the path and the validation result (nil if the new file would load).
// onChange may be nil.
func (w *Watcher) Run(ctx context.Context, onChange func(path string, err error)) {
	defer w.fsw.Close()

	slog.Info("artifact: watching for changes",
		"model", w.modelPath, "scaler", w.scalerPath)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}

			err := w.check(event.Name)
			if err != nil {
				slog.Error("artifact: changed on disk and no longer loads; serving the loaded copy",
					"path", event.Name, "op", event.Op.String(), "err", err)
			} else {
				slog.Warn("artifact: changed on disk; restart to serve it",
					"path", event.Name, "op", event.Op.String())
			}
			if onChange != nil {
				onChange(event.Name, err)
			}

			// Re-add the file in case an atomic save replaced the inode.
			if err := w.fsw.Add(event.Name); err != nil {
				slog.Warn("artifact: no longer watching; restart to watch it again",
					"path", event.Name, "err", err)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Error("artifact: watcher error", "err", err)
		}
	}
}

// check reports whether the artifact at path would load right now.
func (w *Watcher) check(path string) error {
	if filepath.Clean(path) == w.scalerPath {
		_, _, err := LoadScaler(path)
		return err
	}
	_, _, err := LoadModel(path, w.features)
	return err
}
