// Package preview shows a render in a desktop window while it progresses.
package preview

import (
	"errors"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Run opens a window showing the newest image received on frames.
// It blocks until the window is closed and must be called from the main goroutine.
// The window stays open with the last frame after frames is closed.
func Run(title string, width, height int, frames <-chan *image.RGBA) error {
	v := &viewer{
		width:  width,
		height: height,
		frames: frames,
	}

	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(windowSize(width, height))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(30)

	if err := ebiten.RunGame(v); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

type viewer struct {
	width, height int
	frames        <-chan *image.RGBA
	closed        bool

	latest *image.RGBA
	dirty  bool
	img    *ebiten.Image
}

func (v *viewer) Update() error {
	if v.closed {
		return nil
	}

	frame, open := drainLatest(v.frames)
	if frame != nil {
		v.latest = frame
		v.dirty = true
	}
	v.closed = !open
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	if v.img == nil {
		v.img = ebiten.NewImage(v.width, v.height)
	}

	if v.dirty && v.latest != nil && v.latest.Bounds().Dx() == v.width && v.latest.Bounds().Dy() == v.height {
		v.img.WritePixels(v.latest.Pix)
		v.dirty = false
	}
	screen.DrawImage(v.img, nil)
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.width, v.height
}
