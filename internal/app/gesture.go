package app

import "github.com/handnote/handnote"

// segment is one pending pair of display-coordinate samples awaiting flush
// into the canvas buffer.
type segment struct {
	from, to handnote.Point
}

// gesture tracks one continuous pointer-down drag: the previous sample, the
// erase flag, and the batch of draw segments not yet flushed into the
// canvas. Draw samples batch into pending so the overlay can show them at
// display resolution immediately; erase samples hit the buffer right away
// because the eraser has no overlay representation.
type gesture struct {
	active  bool
	erasing bool
	hasLast bool
	last    handnote.Point
	pending []segment
}

// start begins a drag at p. The first sample only seeds the polyline; no
// segment is produced until the next sample arrives.
func (g *gesture) start(p handnote.Point, erasing bool) {
	g.active = true
	g.erasing = erasing
	g.last = p
	g.hasLast = true
}

// sample records one pointer sample. Out-of-bounds samples are ignored
// without breaking the gesture: the next in-bounds sample connects to the
// last in-bounds one. Returns true when the canvas was mutated directly
// (erase mode), which invalidates the cached base preview.
func (g *gesture) sample(p handnote.Point, c *handnote.Canvas, lineWidth int) bool {
	if !g.active || !c.InBounds(p) {
		return false
	}
	erased := false
	if g.hasLast {
		if g.erasing {
			c.EraseAt(p, lineWidth)
			erased = true
		} else {
			g.pending = append(g.pending, segment{from: g.last, to: p})
		}
	}
	g.last = p
	g.hasLast = true
	return erased
}

// flush renders the pending batch into the canvas and clears it.
// Returns true when anything was rendered.
func (g *gesture) flush(c *handnote.Canvas, s handnote.Stroke) bool {
	if len(g.pending) == 0 {
		return false
	}
	for _, seg := range g.pending {
		c.StrokeSegment(seg.from, seg.to, s)
	}
	g.pending = g.pending[:0]
	return true
}

// end finalizes the drag: the pending batch is flushed unconditionally so
// releasing the pointer can never lose samples. Returns true when the flush
// rendered anything.
func (g *gesture) end(c *handnote.Canvas, s handnote.Stroke) bool {
	flushed := g.flush(c, s)
	g.active = false
	g.erasing = false
	g.hasLast = false
	return flushed
}
