// Package pose drives the Front/Profile camera composition toggle.
//
// A Controller owns five channels (subject rotation about Y, camera
// position, focus point, ortho zoom, subject scale) that always move
// together on one eased timeline. Toggle re-arms every channel from its
// current instantaneous value, so interrupting a transition reverses it
// smoothly instead of snapping to the previous target.
//
// The controller is not safe for concurrent use; the scene host confines
// all calls to its frame loop.
package pose

import (
	"math"

	"github.com/fogleman/ease"
	"github.com/go-gl/mathgl/mgl64"

	"posecam/internal/mathutil"
)

// State is the destination composition.
type State int

const (
	Front State = iota
	Profile
)

func (s State) String() string {
	switch s {
	case Front:
		return "front"
	case Profile:
		return "profile"
	default:
		return "unknown"
	}
}

// Opposite returns the other state.
func (s State) Opposite() State {
	if s == Profile {
		return Front
	}
	return Profile
}

// Params are the tuning constants of the composition. The head factor and
// zoom clamp are empirical and exposed through configuration.
type Params struct {
	Duration         float64 // seconds
	ProfileRotationY float64 // radians applied to the subject pivot
	ProfileScale     float64
	HeadHeightFactor float64 // head half-height as a fraction of subject height
	ZoomMin          float64
	ZoomMax          float64
	BaseZoom         float64
	Ease             func(float64) float64
}

// DefaultParams returns the stock composition: 1.2 s ease-in-out, -90° turn,
// 1.15 push-in, head sized at 0.18 of the subject, zoom clamped to [0.1, 8].
func DefaultParams() Params {
	return Params{
		Duration:         1.2,
		ProfileRotationY: -math.Pi / 2,
		ProfileScale:     1.15,
		HeadHeightFactor: 0.18,
		ZoomMin:          0.1,
		ZoomMax:          8,
		BaseZoom:         1,
		Ease:             ease.InOutQuad,
	}
}

// Subject describes the loaded model as seen by the composition.
type Subject struct {
	Center    mgl64.Vec3 // bounds centre, the Front focus
	HeadFocus mgl64.Vec3 // resolved once after load, the Profile focus
	Height    float64
}

// Values is one snapshot of the five channels.
type Values struct {
	RotationY float64
	Camera    mgl64.Vec3
	Focus     mgl64.Vec3
	Zoom      float64
	Scale     float64
}

// Controller is the Front/Profile state machine.
type Controller struct {
	params Params

	loaded     bool
	state      State
	subject    Subject
	halfHeight float64

	rotation Channel[float64]
	camera   Channel[mgl64.Vec3]
	focus    Channel[mgl64.Vec3]
	zoom     Channel[float64]
	scale    Channel[float64]

	timeline Timeline
}

// NewController returns an idle controller with no subject. Unset or
// invalid fields fall back to DefaultParams; ProfileRotationY is taken as
// given since zero is a legal angle.
func NewController(p Params) *Controller {
	p = withDefaults(p)
	c := &Controller{
		params:   p,
		rotation: newScalar(0),
		camera:   newVec3(mgl64.Vec3{}),
		focus:    newVec3(mgl64.Vec3{}),
		zoom:     newScalar(p.BaseZoom),
		scale:    newScalar(1),
	}
	c.timeline = Timeline{Duration: p.Duration, Ease: p.Ease}
	return c
}

func withDefaults(p Params) Params {
	d := DefaultParams()
	if p.Duration <= 0 || !mathutil.Finite(p.Duration) {
		p.Duration = d.Duration
	}
	if !mathutil.Finite(p.ProfileRotationY) {
		p.ProfileRotationY = d.ProfileRotationY
	}
	if p.ProfileScale <= 0 {
		p.ProfileScale = d.ProfileScale
	}
	if p.HeadHeightFactor <= 0 {
		p.HeadHeightFactor = d.HeadHeightFactor
	}
	if p.ZoomMin <= 0 {
		p.ZoomMin = d.ZoomMin
	}
	if p.ZoomMax < p.ZoomMin {
		p.ZoomMax = math.Max(d.ZoomMax, p.ZoomMin)
	}
	if p.BaseZoom <= 0 {
		p.BaseZoom = d.BaseZoom
	}
	if p.Ease == nil {
		p.Ease = d.Ease
	}
	return p
}

// Params returns the effective tuning constants.
func (c *Controller) Params() Params {
	return c.params
}

// Load installs a freshly framed subject: state returns to Front and every
// channel rests on the initial fit.
func (c *Controller) Load(subj Subject, camera mgl64.Vec3, halfHeight float64) {
	c.timeline.Cancel()
	c.loaded = true
	c.state = Front
	c.subject = subj
	c.halfHeight = halfHeight

	c.rotation.Reset(0)
	c.camera.Reset(camera)
	c.focus.Reset(subj.Center)
	c.zoom.Reset(c.params.BaseZoom)
	c.scale.Reset(1)
}

// Unload returns to the no-model state.
func (c *Controller) Unload() {
	c.timeline.Cancel()
	c.loaded = false
	c.state = Front
}

// Cancel stops an in-flight transition, leaving every channel at its
// current value. The state is not flipped back.
func (c *Controller) Cancel() {
	c.timeline.Cancel()
}

// SetHalfHeight records the frame's vertical half-extent used for
// Profile zoom sizing.
func (c *Controller) SetHalfHeight(h float64) {
	c.halfHeight = h
}

// Loaded reports whether a subject is installed.
func (c *Controller) Loaded() bool { return c.loaded }

// State returns the current destination state.
func (c *Controller) State() State { return c.state }

// Subject returns the installed subject.
func (c *Controller) Subject() Subject { return c.subject }

// Animating reports whether the channels are interpolating.
func (c *Controller) Animating() bool { return c.timeline.Active() }

// Progress returns the linear timeline progress (1 when idle).
func (c *Controller) Progress() float64 {
	if !c.timeline.Active() {
		return 1
	}
	return c.timeline.Progress()
}

// Values returns the live channel values.
func (c *Controller) Values() Values {
	return Values{
		RotationY: c.rotation.Current,
		Camera:    c.camera.Current,
		Focus:     c.focus.Current,
		Zoom:      c.zoom.Current,
		Scale:     c.scale.Current,
	}
}

// Targets returns the values the channels are heading to.
func (c *Controller) Targets() Values {
	return Values{
		RotationY: c.rotation.Target,
		Camera:    c.camera.Target,
		Focus:     c.focus.Target,
		Zoom:      c.zoom.Target,
		Scale:     c.scale.Target,
	}
}

// TargetsFor computes the destination values for s from the live values.
// The camera keeps its current offset from the current focus and carries
// it to the new focus.
func (c *Controller) TargetsFor(s State) Values {
	p := c.params
	v := Values{RotationY: 0, Focus: c.subject.Center, Zoom: p.BaseZoom, Scale: 1}
	if s == Profile {
		v.RotationY = p.ProfileRotationY
		v.Focus = c.subject.HeadFocus
		v.Zoom = c.profileZoom()
		v.Scale = p.ProfileScale
	}
	offset := c.camera.Current.Sub(c.focus.Current)
	v.Camera = v.Focus.Add(offset)
	return v
}

func (c *Controller) profileZoom() float64 {
	headHalf := c.params.HeadHeightFactor * c.subject.Height
	if headHalf < mathutil.Epsilon {
		headHalf = mathutil.Epsilon
	}
	return mathutil.Clamp(c.halfHeight/headHalf, c.params.ZoomMin, c.params.ZoomMax)
}

// Toggle retargets all channels at the opposite state and restarts the
// shared timeline. It returns false, changing nothing, when no subject is
// loaded.
func (c *Controller) Toggle() bool {
	if !c.loaded {
		return false
	}
	dest := c.state.Opposite()
	t := c.TargetsFor(dest)

	c.timeline.Cancel()
	c.rotation.Arm(t.RotationY)
	c.camera.Arm(t.Camera)
	c.focus.Arm(t.Focus)
	c.zoom.Arm(t.Zoom)
	c.scale.Arm(t.Scale)
	c.timeline.Start()

	c.state = dest
	return true
}

// Tick advances the shared timeline by dt seconds and writes every channel
// from the same sample. On completion the channels are pinned exactly to
// their targets. It reports whether any value changed.
func (c *Controller) Tick(dt float64) bool {
	if !c.timeline.Active() {
		return false
	}
	eased, done := c.timeline.Advance(dt)
	if done {
		c.rotation.Pin()
		c.camera.Pin()
		c.focus.Pin()
		c.zoom.Pin()
		c.scale.Pin()
		return true
	}
	c.rotation.Sample(eased)
	c.camera.Sample(eased)
	c.focus.Sample(eased)
	c.zoom.Sample(eased)
	c.scale.Sample(eased)
	return true
}
