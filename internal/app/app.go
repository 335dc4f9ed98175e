// Package app is the GUI layer of HandNote: an ebiten game that feeds
// pointer samples into the drawing core, keeps the pending-stroke overlay,
// and drives debounced persistence. All state lives on one App value owned
// by the event loop; the only other goroutines are asynchronous saves and
// the note-directory watcher, both of which hand results back through
// channels or private copies.
package app

import (
	"image/color"
	"os/exec"
	"strconv"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/handnote/handnote"
	"github.com/handnote/handnote/internal/config"
	"github.com/handnote/handnote/internal/note"
)

// windowAlpha is the opacity of the note content, drawn over a transparent
// screen so the window reads as semi-transparent.
const windowAlpha = 0.5

// App is the single application-state value: canvas, history, store and the
// in-progress gesture. It implements ebiten.Game.
type App struct {
	cfg     *config.Config
	canvas  *handnote.Canvas
	history *handnote.History
	store   *note.Store
	stroke  handnote.Stroke

	gest    gesture
	buttons []button

	// base is the cached display-resolution preview the overlay draws on
	// top of. preview holds the pixels, baseImg the GPU-side copy, created
	// lazily on the first Draw.
	preview   *handnote.Canvas
	basePix   []byte
	baseImg   *ebiten.Image
	baseDirty bool

	overlayColor color.NRGBA
	external     <-chan struct{}
	exiting      bool
}

// New assembles the app: canvas from the newest stored note (blank
// background when the store is empty), history preloaded from the store in
// ascending modification-time order.
func New(cfg *config.Config, store *note.Store, external <-chan struct{}) *App {
	a := &App{
		cfg:     cfg,
		canvas:  handnote.NewCanvas(cfg.Width, cfg.Height, cfg.Ratio, cfg.BGColor),
		history: handnote.NewHistory(handnote.MaxNotes),
		store:   store,
		stroke: handnote.DefaultStroke().
			WithWidth(float64(cfg.LineWidth)).
			WithColor(cfg.LineColor),
		overlayColor: scaleAlpha(cfg.LineColor, windowAlpha),
		external:     external,
	}

	notes := store.Scan()
	for _, n := range notes {
		a.history.Add(n.Image)
	}
	if len(notes) > 0 {
		a.canvas.SetImage(notes[len(notes)-1].Image)
	}
	handnote.Logger().Info("history preloaded", "notes", len(notes))

	a.buttons = a.layoutButtons()
	a.rebuildBase()
	return a
}

// Run configures the window and blocks inside the ebiten loop. The tick
// rate is derived from the configured sample interval, so one Update is one
// sample/flush tick. Run returns only after all in-flight saves complete.
func (a *App) Run() error {
	ebiten.SetWindowTitle("HandNote")
	ebiten.SetWindowDecorated(false)
	ebiten.SetWindowFloating(true)
	ebiten.SetWindowSize(a.cfg.Width, a.cfg.Height+controlHeight)

	sw, sh := ebiten.ScreenSizeInFullscreen()
	x, y := config.ClampPosition(a.cfg.X, a.cfg.Y,
		a.cfg.Width, a.cfg.Height+controlHeight, sw, sh)
	ebiten.SetWindowPosition(x, y)
	ebiten.SetTPS(tickRate(a.cfg.TimeRes))

	hop := time.AfterFunc(2*time.Second, a.moveToWorkspace)
	defer hop.Stop()

	err := ebiten.RunGameWithOptions(a, &ebiten.RunGameOptions{
		ScreenTransparent: true,
	})
	a.store.Wait()
	return err
}

// Update is one sample tick. Events are handled to completion in order:
// external store changes, button clicks, then the drawing gesture
// (flush previous batch, sample, finalize on release).
func (a *App) Update() error {
	if a.exiting {
		return ebiten.Termination
	}

	select {
	case _, ok := <-a.external:
		if ok {
			a.reloadHistory()
		} else {
			a.external = nil // watcher gone; stop polling the closed channel
		}
	default:
	}

	x, y := ebiten.CursorPosition()
	p := handnote.Pt(float64(x), float64(y))

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && y >= a.cfg.Height {
		for i := range a.buttons {
			if a.buttons[i].hit(x, y) {
				a.buttons[i].action()
				return nil
			}
		}
		return nil
	}

	if !a.gest.active {
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			a.gest.start(p, false)
		} else if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
			a.gest.start(p, true)
		}
	}

	if a.gest.active {
		// Flush the previous batch before taking this tick's sample, so the
		// overlay only ever holds segments newer than the base preview.
		if a.gest.flush(a.canvas, a.stroke) {
			a.rebuildBase()
		}
		if a.gest.sample(p, a.canvas, a.cfg.LineWidth) {
			a.rebuildBase()
		}

		released := inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) ||
			inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonRight)
		if released {
			if a.gest.end(a.canvas, a.stroke) {
				a.rebuildBase()
			}
			a.saveNote()
		}
	}
	return nil
}

// Draw paints the cached base preview, the pending-stroke overlay and the
// control bar. The preview must always reflect every sample received so
// far: flushed ones through the base, unflushed ones through the overlay.
func (a *App) Draw(screen *ebiten.Image) {
	if a.baseImg == nil {
		a.baseImg = ebiten.NewImage(a.cfg.Width, a.cfg.Height)
		a.baseDirty = true
	}
	if a.baseDirty {
		a.baseImg.WritePixels(a.basePix)
		a.baseDirty = false
	}

	op := &ebiten.DrawImageOptions{}
	op.ColorScale.ScaleAlpha(windowAlpha)
	screen.DrawImage(a.baseImg, op)

	ow := float32(a.cfg.LineWidth)
	for _, seg := range a.gest.pending {
		vector.StrokeLine(screen,
			float32(seg.from.X), float32(seg.from.Y),
			float32(seg.to.X), float32(seg.to.Y),
			ow, a.overlayColor, true)
	}

	a.drawControls(screen)
}

// Layout fixes the logical screen to the canvas plus the control bar.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.cfg.Width, a.cfg.Height + controlHeight
}

// drawControls renders the control bar and its buttons with the configured
// colors.
func (a *App) drawControls(screen *ebiten.Image) {
	vector.DrawFilledRect(screen,
		0, float32(a.cfg.Height),
		float32(a.cfg.Width), controlHeight,
		a.cfg.ControlBG, false)

	face := basicfont.Face7x13
	for i := range a.buttons {
		b := &a.buttons[i]
		vector.DrawFilledRect(screen,
			float32(b.rect.Min.X), float32(b.rect.Min.Y),
			float32(b.rect.Dx()), float32(b.rect.Dy()),
			a.cfg.ButtonBG, false)
		text.Draw(screen, b.label, face,
			b.rect.Min.X+4, b.rect.Min.Y+buttonHeight-4, a.cfg.ButtonFG)
	}
}

// rebuildBase re-derives the display-resolution preview from the canvas
// buffer and marks the GPU copy stale.
func (a *App) rebuildBase() {
	a.basePix = a.canvas.Preview().Pix
	a.baseDirty = true
}

// saveNote snapshots the canvas at note resolution, records it in the
// history and hands the private copy to the store for an asynchronous
// write. The interactive path never waits on the disk.
func (a *App) saveNote() {
	snap := a.canvas.Snapshot()
	a.history.Add(snap)
	a.store.SaveAsync(snap)
}

// clearNote replaces the buffer with the background color and persists the
// blank note, as the original does.
func (a *App) clearNote() {
	a.canvas.Clear()
	a.rebuildBase()
	a.saveNote()
}

// previousNote shows the previous cached note. Navigation deliberately does
// not save: re-persisting an old note would re-stamp it as newest and churn
// the prune window.
func (a *App) previousNote() {
	if img, ok := a.history.Previous(); ok {
		a.canvas.SetImage(img)
		a.rebuildBase()
	}
}

// nextNote shows the next cached note. Like previousNote, it never saves.
func (a *App) nextNote() {
	if img, ok := a.history.Next(); ok {
		a.canvas.SetImage(img)
		a.rebuildBase()
	}
}

// requestExit terminates the loop on the next tick. An in-progress gesture
// is finalized first so no samples are lost; Run waits for in-flight saves
// before returning, so exit is clean.
func (a *App) requestExit() {
	if a.gest.active {
		a.gest.end(a.canvas, a.stroke)
		a.saveNote()
	}
	a.exiting = true
}

// reloadHistory rebuilds the history from the store after the note
// directory was modified externally. The canvas is left alone so an
// in-progress drawing is never clobbered.
func (a *App) reloadHistory() {
	h := handnote.NewHistory(handnote.MaxNotes)
	notes := a.store.Scan()
	for _, n := range notes {
		h.Add(n.Image)
	}
	a.history = h
	handnote.Logger().Info("history reloaded after external change", "notes", len(notes))
}

// moveToWorkspace asks wmctrl to move the window to the configured
// workspace. Skipped silently when wmctrl is not installed.
func (a *App) moveToWorkspace() {
	path, err := exec.LookPath("wmctrl")
	if err != nil {
		return
	}
	cmd := exec.Command(path, "-r", "HandNote", "-t", strconv.Itoa(a.cfg.Workspace))
	if err := cmd.Run(); err != nil {
		handnote.Logger().Warn("wmctrl failed", "error", err)
	}
}

// tickRate converts the sample interval to ticks per second, clamped to
// ebiten's useful range.
func tickRate(interval time.Duration) int {
	if interval <= 0 {
		return 60
	}
	tps := int(time.Second / interval)
	if tps < 1 {
		tps = 1
	}
	if tps > 240 {
		tps = 240
	}
	return tps
}

// scaleAlpha scales only the alpha channel, used for the semi-transparent
// overlay strokes.
func scaleAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(float64(c.A)*a + 0.5)
	return c
}
