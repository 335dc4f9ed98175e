// Package handnote implements the drawing core of the HandNote sticky-note
// application: a supersampled raster canvas that turns pointer-motion samples
// into anti-aliased freehand strokes, plus the bounded note history used to
// browse previously saved drawings.
//
// # Coordinate System
//
// The canvas works at two resolutions. Pointer samples arrive in display
// coordinates (origin top-left, X right, Y down). Internally every sample is
// scaled by an integer supersampling ratio and rendered into a buffer of
// (width*ratio, height*ratio) pixels; previews and saved notes are resampled
// back down to width x height. Rendering at the higher resolution is what
// anti-aliases freehand lines cheaply.
//
// # Quick Start
//
//	c := handnote.NewCanvas(600, 400, 3, handnote.MustParseColor("#dd6"))
//	s := handnote.DefaultStroke().WithWidth(3)
//	c.StrokeSegment(handnote.Pt(10, 10), handnote.Pt(100, 100), s)
//	preview := c.Preview() // 600x400 image.RGBA for display
//
// The GUI layer, persistence and configuration live under internal/.
package handnote

// MaxNotes is the default bound on both the on-disk note store and the
// in-memory history.
const MaxNotes = 50
