package handnote

import "image"

// History is a bounded sequence of note images with a movable cursor. Adding
// beyond the bound evicts the oldest entry; Previous and Next move the cursor
// within [0, len-1] and are no-ops at the boundaries. History mirrors the
// on-disk note store but is decoupled from it: a cache of recently touched
// images so browsing needs no disk reads.
//
// History is not safe for concurrent use; the GUI event loop owns it.
type History struct {
	items []*image.RGBA
	index int
	max   int
}

// NewHistory creates a history bounded to max entries.
// A bound below 1 falls back to MaxNotes.
func NewHistory(max int) *History {
	if max < 1 {
		max = MaxNotes
	}
	return &History{index: -1, max: max}
}

// Len returns the number of cached images.
func (h *History) Len() int { return len(h.items) }

// Index returns the cursor position, or -1 when the history is empty.
func (h *History) Index() int { return h.index }

// Add appends an image, evicting the oldest entry when the bound is
// exceeded. The cursor always ends up on the newly added (last) entry.
func (h *History) Add(img *image.RGBA) {
	h.items = append(h.items, img)
	if len(h.items) > h.max {
		h.items = h.items[1:]
	}
	h.index = len(h.items) - 1
}

// Previous moves the cursor one entry back and returns that image.
// At the first entry (or when empty) it returns (nil, false) and the
// cursor does not move. There is no wraparound.
func (h *History) Previous() (*image.RGBA, bool) {
	if h.index <= 0 {
		return nil, false
	}
	h.index--
	return h.items[h.index], true
}

// Next moves the cursor one entry forward and returns that image.
// At the last entry (or when empty) it returns (nil, false) and the
// cursor does not move.
func (h *History) Next() (*image.RGBA, bool) {
	if h.index < 0 || h.index >= len(h.items)-1 {
		return nil, false
	}
	h.index++
	return h.items[h.index], true
}
