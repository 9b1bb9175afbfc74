package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/signalsfoundry/saturn-connectors/internal/logging"
)

// Watch reloads path whenever it is written or replaced and passes the
// validated result to onChange. Reload failures are logged and the
// previous configuration stays in effect. Watch blocks until ctx is done.
// A nil log uses the logger carried by ctx.
func Watch(ctx context.Context, path string, log logging.Logger, onChange func(*Config)) error {
	if log == nil {
		log = logging.FromContext(ctx)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	defer watcher.Close()

	// Replacing the file drops a watch on the file itself.
	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch config %s: %w", path, err)
	}
	validator := NewValidator(log)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cfg, err := Load(target)
			if err != nil {
				log.Warn(ctx, "config reload failed", logging.String("path", path), logging.Err(err))
				continue
			}
			cfg.ApplyEnv(os.LookupEnv)
			validator.Validate(ctx, cfg)
			log.Info(ctx, "config reloaded", logging.String("path", path))
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error(ctx, "config watcher error", logging.Err(err))
		}
	}
}
