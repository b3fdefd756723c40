package parameter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Load applies a YAML knobs file (flat mapping of knob name to value) to the
// store. Known knobs are applied even when the file also contains unknown
// names; unknown names are reported in the returned error.
func Load(s *Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read knobs file: %w", err)
	}

	var raw map[string]float64
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse knobs file %s: %w", path, err)
	}

	var unknown []string
	for name, val := range raw {
		if !s.Set(name, val) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown knobs in %s: %v", path, unknown)
	}
	return nil
}

// Watch loads the knobs file and re-applies it whenever it changes.
// Reload failures go to onErr (may be nil) and never stop the watcher; the
// store keeps its last good values. The returned stop function releases the
// watcher.
func Watch(s *Store, path string, onErr func(error)) (func(), error) {
	if err := Load(s, path); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve knobs path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	// Watch the directory, not the file: editors commonly replace the file
	// on save, which drops a direct file watch
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	report := onErr
	if report == nil {
		report = func(error) {}
	}

	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Name != abs {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := Load(s, abs); err != nil {
					report(err)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				report(err)
			}
		}
	}()

	return func() { watcher.Close() }, nil
}
