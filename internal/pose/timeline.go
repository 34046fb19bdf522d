package pose

import (
	"strings"

	"github.com/fogleman/ease"

	"posecam/internal/mathutil"
)

// DefaultCurve is the quadratic ease-in-out ("power2.inOut").
const DefaultCurve = "inOutQuad"

var curves = map[string]func(float64) float64{
	"linear":       ease.Linear,
	"inoutquad":    ease.InOutQuad,
	"power2.inout": ease.InOutQuad,
	"inoutcubic":   ease.InOutCubic,
	"power3.inout": ease.InOutCubic,
	"inoutsine":    ease.InOutSine,
}

// Curve looks up an easing function by name, case-insensitively.
func Curve(name string) (func(float64) float64, bool) {
	fn, ok := curves[strings.ToLower(name)]
	return fn, ok
}

// Timeline is a fixed-duration clock shared by every channel of a transition.
type Timeline struct {
	Duration float64
	Ease     func(float64) float64

	elapsed float64
	active  bool
}

// Start rewinds the timeline and marks it running.
func (tl *Timeline) Start() {
	tl.elapsed = 0
	tl.active = true
}

// Cancel stops the timeline. Safe to call when idle.
func (tl *Timeline) Cancel() {
	tl.active = false
}

// Active reports whether a transition is in flight.
func (tl *Timeline) Active() bool {
	return tl.active
}

// Progress returns the linear progress in [0, 1].
func (tl *Timeline) Progress() float64 {
	if tl.Duration <= 0 {
		return 1
	}
	return mathutil.Clamp(tl.elapsed/tl.Duration, 0, 1)
}

// Advance moves the clock by dt and returns the eased progress and whether
// the timeline has completed.
func (tl *Timeline) Advance(dt float64) (eased float64, done bool) {
	if !tl.active {
		return 1, true
	}
	if dt > 0 && mathutil.Finite(dt) {
		tl.elapsed += dt
	}
	p := tl.Progress()
	if p >= 1 {
		tl.active = false
		return 1, true
	}
	fn := tl.Ease
	if fn == nil {
		fn = ease.InOutQuad
	}
	return fn(p), false
}
