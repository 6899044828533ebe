package config

import (
	"context"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads cfg whenever its config file changes. It watches the
// containing directory so editor rename-and-replace saves are caught.
// Returns immediately when no config file was given.
func Watch(ctx context.Context, cfg *Config) error {
	if cfg.ConfigPath == "" {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	target := filepath.Clean(cfg.ConfigPath)

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case evt := <-watcher.Events:
				if filepath.Clean(evt.Name) != target {
					continue
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if err := cfg.Reload(); err != nil {
					log.Printf("config watch: %v", err)
				}
			case err := <-watcher.Errors:
				log.Printf("config watch error: %v", err)
			}
		}
	}()
	return watcher.Add(filepath.Dir(target))
}
