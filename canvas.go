package handnote

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
)

// Canvas is the persistent drawing surface of a note. It owns a single RGBA
// buffer of (width*ratio, height*ratio) pixels; all mutation happens through
// StrokeSegment, EraseAt, Clear and SetImage. The buffer is rendered at the
// supersampled resolution and resampled down for display and persistence.
//
// Canvas is not safe for concurrent use; the GUI event loop owns it.
type Canvas struct {
	width  int // display width in pixels
	height int // display height in pixels
	ratio  int // supersampling ratio, >= 1
	bg     color.NRGBA
	buf    *image.RGBA
}

// NewCanvas creates a canvas of width x height display pixels, supersampled
// by ratio, filled with the background color. A ratio below 1 is treated as 1.
func NewCanvas(width, height, ratio int, bg color.NRGBA) *Canvas {
	if ratio < 1 {
		ratio = 1
	}
	c := &Canvas{
		width:  width,
		height: height,
		ratio:  ratio,
		bg:     bg,
		buf:    image.NewRGBA(image.Rect(0, 0, width*ratio, height*ratio)),
	}
	c.Clear()
	return c
}

// Width returns the display width of the canvas.
func (c *Canvas) Width() int { return c.width }

// Height returns the display height of the canvas.
func (c *Canvas) Height() int { return c.height }

// Ratio returns the supersampling ratio.
func (c *Canvas) Ratio() int { return c.ratio }

// Background returns the background color.
func (c *Canvas) Background() color.NRGBA { return c.bg }

// Image returns the underlying supersampled buffer. The buffer remains owned
// by the canvas; callers must not mutate it and must copy before retaining.
func (c *Canvas) Image() *image.RGBA { return c.buf }

// InBounds reports whether a display-coordinate sample lies on the canvas.
// Out-of-bounds samples are ignored by the input layer, not errors.
func (c *Canvas) InBounds(p Point) bool {
	return p.X >= 0 && p.X < float64(c.width) && p.Y >= 0 && p.Y < float64(c.height)
}

// Clear fills the entire buffer with the background color.
func (c *Canvas) Clear() {
	draw.Draw(c.buf, c.buf.Bounds(), image.NewUniform(c.bg), image.Point{}, draw.Src)
}

// StrokeSegment renders one round-capped segment of a freehand stroke.
// p and q are display coordinates; both the coordinates and the stroke width
// are scaled by the supersampling ratio before rasterization. Pixels outside
// the buffer are clipped, never extended.
func (c *Canvas) StrokeSegment(p, q Point, s Stroke) {
	r := float64(c.ratio)
	c.fillCapsule(p.Mul(r), q.Mul(r), s.Width*r/2, s.Color)
}

// EraseAt paints a background-colored disc centered at the display-coordinate
// sample p. The radius is 10x the configured line width in buffer pixels:
// a soft eraser that overwrites, not an alpha clear.
func (c *Canvas) EraseAt(p Point, lineWidth int) {
	center := p.Mul(float64(c.ratio))
	c.fillDisc(center, float64(lineWidth)*10, c.bg)
}

// Preview resamples the buffer down to display resolution with a bilinear
// filter. Cheap enough to run on every flush tick of the interactive path.
func (c *Canvas) Preview() *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), c.buf, c.buf.Bounds(), xdraw.Src, nil)
	return dst
}

// Snapshot resamples the buffer down to display resolution with a
// Catmull-Rom filter, the high-quality path used when persisting a note.
func (c *Canvas) Snapshot() *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), c.buf, c.buf.Bounds(), xdraw.Src, nil)
	return dst
}

// SetImage replaces the buffer wholesale with img, upsampled to the working
// resolution. The source is copied, never aliased, so a history image stays
// immutable while the canvas is drawn on.
func (c *Canvas) SetImage(img image.Image) {
	xdraw.CatmullRom.Scale(c.buf, c.buf.Bounds(), img, img.Bounds(), xdraw.Src, nil)
}

// fillCapsule rasterizes a round-capped segment in buffer coordinates by
// evaluating SDF coverage over the segment's bounding box.
func (c *Canvas) fillCapsule(a, b Point, halfWidth float64, clr color.NRGBA) {
	pad := halfWidth + sdfAntialiasWidth + 1
	x0, y0, x1, y1 := c.clipBox(
		math.Min(a.X, b.X)-pad, math.Min(a.Y, b.Y)-pad,
		math.Max(a.X, b.X)+pad, math.Max(a.Y, b.Y)+pad,
	)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			cov := SDFSegmentCoverage(float64(x)+0.5, float64(y)+0.5, a, b, halfWidth)
			c.blendPixel(x, y, clr, cov)
		}
	}
}

// fillDisc rasterizes a filled circle in buffer coordinates.
func (c *Canvas) fillDisc(center Point, radius float64, clr color.NRGBA) {
	pad := radius + sdfAntialiasWidth + 1
	x0, y0, x1, y1 := c.clipBox(center.X-pad, center.Y-pad, center.X+pad, center.Y+pad)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			cov := SDFFilledCircleCoverage(float64(x)+0.5, float64(y)+0.5, center.X, center.Y, radius)
			c.blendPixel(x, y, clr, cov)
		}
	}
}

// clipBox clamps a floating-point bounding box to integer buffer bounds.
func (c *Canvas) clipBox(minX, minY, maxX, maxY float64) (x0, y0, x1, y1 int) {
	bw := c.width * c.ratio
	bh := c.height * c.ratio
	x0 = max(int(math.Floor(minX)), 0)
	y0 = max(int(math.Floor(minY)), 0)
	x1 = min(int(math.Ceil(maxX))+1, bw)
	y1 = min(int(math.Ceil(maxY))+1, bh)
	return x0, y0, x1, y1
}

// blendPixel composites an opaque color over the buffer pixel at (x, y)
// using the coverage value as alpha.
func (c *Canvas) blendPixel(x, y int, clr color.NRGBA, cov float64) {
	if cov <= 0 {
		return
	}
	if cov >= 1 {
		i := c.buf.PixOffset(x, y)
		c.buf.Pix[i+0] = clr.R
		c.buf.Pix[i+1] = clr.G
		c.buf.Pix[i+2] = clr.B
		c.buf.Pix[i+3] = 0xff
		return
	}
	i := c.buf.PixOffset(x, y)
	inv := 1 - cov
	c.buf.Pix[i+0] = uint8(float64(c.buf.Pix[i+0])*inv + float64(clr.R)*cov + 0.5)
	c.buf.Pix[i+1] = uint8(float64(c.buf.Pix[i+1])*inv + float64(clr.G)*cov + 0.5)
	c.buf.Pix[i+2] = uint8(float64(c.buf.Pix[i+2])*inv + float64(clr.B)*cov + 0.5)
	c.buf.Pix[i+3] = 0xff
}
