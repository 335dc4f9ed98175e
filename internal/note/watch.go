package note

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/handnote/handnote"
)

// Watch observes the note directory for modification by other processes and
// coalesces it into a single-slot signal channel. The app drains the channel
// on its own event-loop tick and refreshes the history, so the watcher
// goroutine never touches shared state. Events for files this process wrote
// or pruned itself are filtered out.
//
// The watcher stops and the channel closes when ctx is canceled.
func (s *Store) Watch(ctx context.Context) (<-chan struct{}, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(s.dir); err != nil {
		_ = w.Close()
		return nil, err
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		defer func() {
			_ = w.Close()
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				name := filepath.Base(ev.Name)
				if !isNoteName(name) || s.owns(name) {
					continue
				}
				handnote.Logger().Debug("note directory changed externally",
					"file", name, "op", ev.Op.String())
				select {
				case ch <- struct{}{}:
				default: // a refresh is already pending
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				handnote.Logger().Warn("note watcher error", "error", err)
			}
		}
	}()
	return ch, nil
}
