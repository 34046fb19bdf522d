package terminal

import (
	"github.com/gdamore/tcell/v2"

	"posecam/internal/event"
)

// Palette is cycled by the colour key.
var Palette = []string{"#8338ec", "#ff006e", "#3a86ff", "#ffbe0b", "#ffffff"}

// lower-case rune steps the parameter down, upper-case steps it up
var nudges = map[rune]string{
	'x': "x",
	'y': "y",
	'z': "z",
	'i': "intensity",
	'd': "distance",
	'k': "decay",
	'a': "ambient",
}

// Keymap maps terminal input to host events.
type Keymap struct {
	color int
}

// NewKeymap returns a keymap starting at the first palette colour.
func NewKeymap() *Keymap {
	return &Keymap{}
}

// Translate converts a tcell event. It returns false for input with no
// binding.
func (k *Keymap) Translate(ev tcell.Event) (event.Event, bool) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		w, h := PixelSize(ev.Size())
		return event.Event{Type: event.Resize, Payload: event.ResizePayload{Width: w, Height: h}}, true

	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return event.Event{Type: event.Quit}, true
		case tcell.KeyEnter:
			return event.Event{Type: event.Toggle}, true
		case tcell.KeyRune:
		default:
			return event.Event{}, false
		}

		r := ev.Rune()
		if ev.Modifiers()&tcell.ModCtrl != 0 && (r == 'c' || r == 'C') {
			return event.Event{Type: event.Quit}, true
		}
		switch r {
		case 'q', 'Q':
			return event.Event{Type: event.Quit}, true
		case ' ', 't', 'T':
			return event.Event{Type: event.Toggle}, true
		case 'c', 'C':
			k.color = (k.color + 1) % len(Palette)
			return event.Event{Type: event.Light, Payload: event.LightPayload{Color: Palette[k.color]}}, true
		}
		if name, ok := nudges[r]; ok {
			return event.Event{Type: event.Light, Payload: event.LightPayload{Name: name, Delta: -1}}, true
		}
		if name, ok := nudges[r+('a'-'A')]; ok && r >= 'A' && r <= 'Z' {
			return event.Event{Type: event.Light, Payload: event.LightPayload{Name: name, Delta: 1}}, true
		}
	}
	return event.Event{}, false
}
