// Package note is the file-backed note store: a directory of
// timestamp-named PNG snapshots, append-only, pruned to the most recent
// MaxNotes after every save. The newest file by modification time is the
// current note.
package note

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/handnote/handnote"
)

const (
	prefix     = "note_"
	ext        = ".png"
	timeLayout = "20060102_150405"

	// ownTTL is how long a filename written or removed by this process is
	// remembered, so the directory watcher can tell our own writes from
	// external modification.
	ownTTL = 5 * time.Second
)

// Note is one decoded record from the store.
type Note struct {
	Path    string
	ModTime time.Time
	Image   *image.RGBA
}

// Store persists note images in a single directory. Save and prune are
// serialized behind a mutex so asynchronous saves never interleave; Wait
// blocks until all in-flight saves finish, which the app does before a
// clean exit.
type Store struct {
	dir string
	max int

	mu sync.Mutex // serializes save+prune
	wg sync.WaitGroup

	ownMu sync.Mutex
	own   map[string]time.Time
}

// New opens (creating if necessary) a store at dir, bounded to max files.
// A bound below 1 falls back to MaxNotes.
func New(dir string, max int) (*Store, error) {
	if max < 1 {
		max = handnote.MaxNotes
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create note directory: %w", err)
	}
	return &Store{dir: dir, max: max, own: make(map[string]time.Time)}, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string { return s.dir }

// Save writes img as a new timestamp-named PNG and prunes the directory to
// the bound. A prune failure is logged but does not fail the save: the new
// note is already on disk.
func (s *Store) Save(img image.Image) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := prefix + time.Now().Format(timeLayout) + ext
	path := filepath.Join(s.dir, name)
	s.markOwn(name)

	if err := writePNG(path, img); err != nil {
		return "", fmt.Errorf("save note: %w", err)
	}
	handnote.Logger().Info("note saved", "path", path)

	if err := s.prune(); err != nil {
		handnote.Logger().Warn("prune failed", "dir", s.dir, "error", err)
	}
	return path, nil
}

// SaveAsync runs Save on its own goroutine so disk latency never stalls
// pointer tracking. Failures are logged; the caller's in-memory buffer is
// untouched, so the next gesture retries naturally.
func (s *Store) SaveAsync(img image.Image) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if _, err := s.Save(img); err != nil {
			handnote.Logger().Warn("note not persisted, will retry on next save",
				"error", err)
		}
	}()
}

// Wait blocks until every save started with SaveAsync has completed.
func (s *Store) Wait() { s.wg.Wait() }

// Scan decodes the stored notes in ascending modification-time order,
// bounded to the newest max entries. Files that fail to decode are logged
// and skipped, never fatal.
func (s *Store) Scan() []Note {
	files, err := s.list()
	if err != nil {
		handnote.Logger().Warn("scan failed", "dir", s.dir, "error", err)
		return nil
	}
	if len(files) > s.max {
		files = files[len(files)-s.max:]
	}

	notes := make([]Note, 0, len(files))
	for _, f := range files {
		img, err := readPNG(f.path)
		if err != nil {
			handnote.Logger().Warn("skipping unreadable note", "path", f.path, "error", err)
			continue
		}
		notes = append(notes, Note{Path: f.path, ModTime: f.modTime, Image: img})
	}
	return notes
}

// prune deletes everything but the newest max files. Files that vanish
// between listing and removal are treated as already pruned.
func (s *Store) prune() error {
	files, err := s.list()
	if err != nil {
		return err
	}
	if len(files) <= s.max {
		return nil
	}
	for _, f := range files[:len(files)-s.max] {
		s.markOwn(filepath.Base(f.path))
		if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", f.path, err)
		}
	}
	return nil
}

type storedFile struct {
	path    string
	modTime time.Time
}

// list returns the note files sorted by modification time ascending, name
// ascending on ties. Entries that vanish mid-listing are skipped: the
// directory may be modified externally at any time.
func (s *Store) list() ([]storedFile, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	files := make([]storedFile, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isNoteName(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue // vanished between ReadDir and Stat
		}
		files = append(files, storedFile{
			path:    filepath.Join(s.dir, e.Name()),
			modTime: info.ModTime(),
		})
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].modTime.Equal(files[j].modTime) {
			return files[i].path < files[j].path
		}
		return files[i].modTime.Before(files[j].modTime)
	})
	return files, nil
}

// isNoteName reports whether a file name matches the note naming pattern.
func isNoteName(name string) bool {
	return strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ext)
}

// markOwn records a filename this process wrote or removed.
func (s *Store) markOwn(name string) {
	now := time.Now()
	s.ownMu.Lock()
	defer s.ownMu.Unlock()
	for n, t := range s.own {
		if now.Sub(t) > ownTTL {
			delete(s.own, n)
		}
	}
	s.own[name] = now
}

// owns reports whether a filename was recently written or removed by this
// process.
func (s *Store) owns(name string) bool {
	s.ownMu.Lock()
	defer s.ownMu.Unlock()
	t, ok := s.own[name]
	return ok && time.Since(t) <= ownTTL
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// readPNG decodes a note file into an RGBA image, converting whatever pixel
// format the decoder produced.
func readPNG(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	src, err := png.Decode(f)
	if err != nil {
		return nil, err
	}
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba, nil
	}
	rgba := image.NewRGBA(src.Bounds())
	draw.Draw(rgba, rgba.Bounds(), src, src.Bounds().Min, draw.Src)
	return rgba, nil
}
