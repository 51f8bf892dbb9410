// Package note reads the active note and reports when it changes on disk.
package note

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

type Document struct {
	Path    string
	Text    string
	ModTime time.Time
}

func Read(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read note: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to stat note: %w", err)
	}

	return Document{
		Path:    path,
		Text:    string(data),
		ModTime: info.ModTime(),
	}, nil
}

// Watch re-reads path whenever it is written and sends the fresh document.
// The parent directory is watched rather than the file itself; editors that
// save by rename replace the inode. Bursts of events within the debounce
// window collapse into one re-read. The channel closes when ctx is done.
func Watch(ctx context.Context, path string) (<-chan Document, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to resolve note path: %w", err)
	}

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch note directory: %w", err)
	}

	const debounce = 150 * time.Millisecond

	docs := make(chan Document, 1)
	go func() {
		defer close(docs)
		defer watcher.Close()

		var timer *time.Timer
		var pending <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(debounce)
				} else {
					timer.Reset(debounce)
				}
				pending = timer.C
			case <-pending:
				pending = nil
				doc, err := Read(abs)
				if err != nil {
					log.Warn().Err(err).Str("path", abs).Msg("Note changed but could not be re-read")
					continue
				}
				select {
				case docs <- doc:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("Note watcher error")
			}
		}
	}()

	return docs, nil
}
