package app

import "image"

// Control bar geometry, matching the original layout: a 20-pixel bar under
// the canvas holding 35x15 buttons with 1-pixel gaps, Exit right-aligned.
const (
	controlHeight = 20
	buttonWidth   = 35
	buttonHeight  = 15
	buttonGap     = 1
)

// button is one clickable region of the control bar.
type button struct {
	label  string
	rect   image.Rectangle
	action func()
}

// hit reports whether the window-coordinate point (x, y) is on the button.
func (b *button) hit(x, y int) bool {
	return image.Pt(x, y).In(b.rect)
}

// layoutButtons places Save, Clear, < and > from the left edge of the
// control bar and Exit against the right edge.
func (a *App) layoutButtons() []button {
	top := a.cfg.Height + (controlHeight-buttonHeight)/2
	at := func(x int) image.Rectangle {
		return image.Rect(x, top, x+buttonWidth, top+buttonHeight)
	}

	left := []button{
		{label: "Save", action: a.saveNote},
		{label: "Clear", action: a.clearNote},
		{label: "<", action: a.previousNote},
		{label: ">", action: a.nextNote},
	}
	x := buttonGap
	for i := range left {
		left[i].rect = at(x)
		x += buttonWidth + buttonGap
	}

	exit := button{label: "Exit", action: a.requestExit}
	exit.rect = at(a.cfg.Width - buttonWidth - buttonGap)

	return append(left, exit)
}
