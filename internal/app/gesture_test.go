package app

import (
	"bytes"
	"testing"

	"github.com/handnote/handnote"
)

var (
	gestBG   = handnote.MustParseColor("#dd6")
	gestLine = handnote.DefaultStroke().WithWidth(3).WithColor(handnote.MustParseColor("black"))
)

func newTestCanvas() *handnote.Canvas {
	return handnote.NewCanvas(60, 40, 3, gestBG)
}

func TestGesture_FirstSampleProducesNoSegment(t *testing.T) {
	c := newTestCanvas()
	var g gesture

	g.start(handnote.Pt(10, 10), false)
	if len(g.pending) != 0 {
		t.Fatalf("pending after start = %d segments, want 0", len(g.pending))
	}
	if g.flush(c, gestLine) {
		t.Error("flush() after start alone reported work")
	}

	blank := newTestCanvas()
	if !bytes.Equal(c.Image().Pix, blank.Image().Pix) {
		t.Error("starting a gesture modified the canvas")
	}
}

func TestGesture_SamplesBatchAndFlush(t *testing.T) {
	c := newTestCanvas()
	var g gesture

	g.start(handnote.Pt(10, 10), false)
	g.sample(handnote.Pt(20, 10), c, 3)
	g.sample(handnote.Pt(30, 20), c, 3)

	if len(g.pending) != 2 {
		t.Fatalf("pending = %d segments, want 2", len(g.pending))
	}

	blank := newTestCanvas()
	if !bytes.Equal(c.Image().Pix, blank.Image().Pix) {
		t.Fatal("draw samples hit the canvas before flush")
	}

	if !g.flush(c, gestLine) {
		t.Fatal("flush() with pending segments reported no work")
	}
	if len(g.pending) != 0 {
		t.Errorf("pending after flush = %d segments, want 0", len(g.pending))
	}
	if bytes.Equal(c.Image().Pix, blank.Image().Pix) {
		t.Error("flush() did not render the batch into the canvas")
	}
}

func TestGesture_OutOfBoundsSampleIgnored(t *testing.T) {
	c := newTestCanvas()
	var g gesture

	g.start(handnote.Pt(10, 10), false)
	g.sample(handnote.Pt(-5, 10), c, 3)
	if len(g.pending) != 0 {
		t.Fatalf("out-of-bounds sample queued a segment")
	}

	// The polyline continues from the last in-bounds sample.
	g.sample(handnote.Pt(20, 10), c, 3)
	if len(g.pending) != 1 {
		t.Fatalf("pending = %d segments, want 1", len(g.pending))
	}
	if g.pending[0].from != handnote.Pt(10, 10) {
		t.Errorf("segment starts at %v, want (10,10)", g.pending[0].from)
	}
}

func TestGesture_EraseHitsCanvasImmediately(t *testing.T) {
	c := newTestCanvas()

	// Put some ink down first so erasing changes pixels.
	c.StrokeSegment(handnote.Pt(0, 20), handnote.Pt(60, 20), gestLine)
	inked := append([]byte(nil), c.Image().Pix...)

	var g gesture
	g.start(handnote.Pt(20, 20), true)
	if !g.sample(handnote.Pt(30, 20), c, 3) {
		t.Fatal("erase sample did not report a canvas mutation")
	}
	if len(g.pending) != 0 {
		t.Errorf("erase sample queued %d segments, want 0", len(g.pending))
	}
	if bytes.Equal(c.Image().Pix, inked) {
		t.Error("erase sample left the canvas unchanged")
	}
}

func TestGesture_EndFlushesAndResets(t *testing.T) {
	c := newTestCanvas()
	var g gesture

	g.start(handnote.Pt(10, 10), false)
	g.sample(handnote.Pt(40, 30), c, 3)

	if !g.end(c, gestLine) {
		t.Fatal("end() with pending segments reported no work")
	}
	if g.active || g.erasing || g.hasLast {
		t.Errorf("gesture state after end = %+v, want inactive", g)
	}
	if len(g.pending) != 0 {
		t.Errorf("pending after end = %d segments, want 0", len(g.pending))
	}

	blank := newTestCanvas()
	if bytes.Equal(c.Image().Pix, blank.Image().Pix) {
		t.Error("end() lost the pending batch instead of flushing it")
	}
}

func TestGesture_SampleWhenInactiveIsNoOp(t *testing.T) {
	c := newTestCanvas()
	var g gesture

	if g.sample(handnote.Pt(10, 10), c, 3) {
		t.Error("sample on inactive gesture reported a mutation")
	}
	if len(g.pending) != 0 {
		t.Errorf("inactive sample queued %d segments, want 0", len(g.pending))
	}
}
