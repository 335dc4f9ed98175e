package handnote

import (
	"image/color"
	"math"
)

// Stroke defines the style of a freehand stroke. Strokes are always
// round-capped and round-joined: consecutive segments of one gesture share
// endpoints, so the round cap at each shared endpoint doubles as the join.
type Stroke struct {
	// Width is the line width in display pixels. It is scaled by the
	// canvas supersampling ratio before rasterization. Default: 1.0
	Width float64

	// Color is the stroke color. Default: opaque black.
	Color color.NRGBA
}

// DefaultStroke returns a Stroke with default settings:
// a solid 1-pixel opaque black line.
func DefaultStroke() Stroke {
	return Stroke{
		Width: 1.0,
		Color: color.NRGBA{A: 0xff},
	}
}

// WithWidth returns a copy of the Stroke with the given width.
func (s Stroke) WithWidth(w float64) Stroke {
	s.Width = w
	return s
}

// WithColor returns a copy of the Stroke with the given color.
func (s Stroke) WithColor(c color.NRGBA) Stroke {
	s.Color = c
	return s
}

// sdfAntialiasWidth controls the smoothstep transition width in pixels.
// A value of 0.7 produces smooth anti-aliasing at standard DPI.
const sdfAntialiasWidth = 0.7

// SDFSegmentCoverage computes anti-aliased coverage for a round-capped
// segment (capsule) using a signed distance field approach.
//
// Parameters:
//   - px, py: pixel center coordinates
//   - a, b: segment endpoints
//   - halfWidth: half the stroke width
//
// Returns a coverage value in [0, 1] where 1 means fully inside.
func SDFSegmentCoverage(px, py float64, a, b Point, halfWidth float64) float64 {
	sdf := sdfSegment(Pt(px, py), a, b) - halfWidth
	return smoothstepCoverage(sdf)
}

// SDFFilledCircleCoverage computes anti-aliased coverage for a filled circle
// using a signed distance field approach.
//
// Parameters:
//   - px, py: pixel center coordinates
//   - cx, cy: circle center
//   - radius: circle radius
//
// Returns a coverage value in [0, 1] where 1 means fully inside.
func SDFFilledCircleCoverage(px, py, cx, cy, radius float64) float64 {
	sdf := math.Hypot(px-cx, py-cy) - radius
	return smoothstepCoverage(sdf)
}

// sdfSegment computes the distance from a point to the closest point on
// the segment ab. Degenerate segments (a == b) reduce to point distance,
// which is what renders the dot of a zero-length gesture.
func sdfSegment(p, a, b Point) float64 {
	pa := p.Sub(a)
	ba := b.Sub(a)
	denom := ba.LengthSquared()
	if denom == 0 {
		return pa.Length()
	}
	t := pa.Dot(ba) / denom
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return pa.Sub(ba.Mul(t)).Length()
}

// smoothstepCoverage converts a signed distance to an anti-aliased coverage
// value using a Hermite smoothstep function.
//
// sdf < -afwidth => 1.0 (fully inside)
// sdf > +afwidth => 0.0 (fully outside)
// Otherwise       => smooth transition
func smoothstepCoverage(sdf float64) float64 {
	if sdf >= sdfAntialiasWidth {
		return 0
	}
	if sdf <= -sdfAntialiasWidth {
		return 1
	}
	t := (sdf + sdfAntialiasWidth) / (2 * sdfAntialiasWidth)
	return 1 - t*t*(3-2*t)
}
