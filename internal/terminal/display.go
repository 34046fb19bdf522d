// Package terminal shows host frames in a terminal with tcell and turns
// key presses and resizes into host events.
//
// Each cell draws two vertically stacked pixels with an upper half block:
// foreground is the top pixel, background the bottom one. The last row is
// a status line.
package terminal

import (
	"context"
	"fmt"
	"image"

	"github.com/gdamore/tcell/v2"

	"posecam/internal/event"
	"posecam/internal/host"
)

const (
	halfBlock  = '▀'
	statusRows = 1
)

// Display is a host.Sink drawing onto a tcell screen.
type Display struct {
	screen tcell.Screen
	keys   *Keymap
}

// Open initialises the real terminal.
func Open() (*Display, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("terminal: init: %w", err)
	}
	return New(screen), nil
}

// New wraps an initialised screen.
func New(screen tcell.Screen) *Display {
	screen.HideCursor()
	screen.Clear()
	return &Display{screen: screen, keys: NewKeymap()}
}

// Close restores the terminal.
func (d *Display) Close() {
	d.screen.Fini()
}

// Viewport returns the drawable size in pixels.
func (d *Display) Viewport() (width, height int) {
	cols, rows := d.screen.Size()
	return PixelSize(cols, rows)
}

// PixelSize converts a terminal size in cells to the pixel viewport.
func PixelSize(cols, rows int) (width, height int) {
	return max(cols, 1), max((rows-statusRows)*2, 2)
}

// Present draws img and the status line, then shows the screen.
func (d *Display) Present(img *image.NRGBA, info host.FrameInfo) error {
	cols, rows := d.screen.Size()
	b := img.Bounds()
	w := min(cols, b.Dx())
	hRows := min(rows-statusRows, b.Dy()/2)

	for y := 0; y < hRows; y++ {
		for x := 0; x < w; x++ {
			top := img.NRGBAAt(b.Min.X+x, b.Min.Y+2*y)
			bot := img.NRGBAAt(b.Min.X+x, b.Min.Y+2*y+1)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bot.R), int32(bot.G), int32(bot.B)))
			d.screen.SetContent(x, y, halfBlock, nil, style)
		}
	}

	d.status(cols, rows-1, StatusLine(info))
	d.screen.Show()
	return nil
}

func (d *Display) status(cols, row int, text string) {
	if row < 0 {
		return
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	x := 0
	for _, r := range text {
		if x >= cols {
			break
		}
		d.screen.SetContent(x, row, r, nil, style)
		x++
	}
	for ; x < cols; x++ {
		d.screen.SetContent(x, row, ' ', nil, style)
	}
}

// StatusLine summarises a frame for the bottom row.
func StatusLine(info host.FrameInfo) string {
	if info.Model == "" {
		return "no model loaded | q quit"
	}
	state := info.State.String()
	if info.Animating {
		state = fmt.Sprintf("→%s %3.0f%%", state, info.Progress*100)
	}
	clip := info.Clip
	if clip == "" {
		clip = "-"
	}
	return fmt.Sprintf("%s | %s | zoom %.2f | clip %s | %s | space toggle, q quit",
		info.Model, state, info.Values.Zoom, clip, info.Light)
}

// Listen polls the screen and pushes translated events onto q until the
// screen is finalised or ctx is cancelled. The current size is sent first.
func (d *Display) Listen(ctx context.Context, q *event.Queue) {
	w, h := d.Viewport()
	q.Send(event.Resize, event.ResizePayload{Width: w, Height: h})

	go func() {
		<-ctx.Done()
		d.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	for {
		ev := d.screen.PollEvent()
		if ev == nil {
			return
		}
		if _, ok := ev.(*tcell.EventInterrupt); ok && ctx.Err() != nil {
			return
		}
		if out, ok := d.keys.Translate(ev); ok {
			q.Push(out)
		}
	}
}
