// Package host is the scene host: it owns the scene graph, the camera,
// the clip player, the pose controller and the light rig, consumes queued
// load, resize, toggle and light events, and renders exactly once per tick.
//
// All state is confined to the goroutine calling Step (or Run). Other
// goroutines talk to the host only through Queue.
package host

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"posecam/internal/anim"
	"posecam/internal/asset"
	"posecam/internal/camera"
	"posecam/internal/event"
	"posecam/internal/focus"
	"posecam/internal/framing"
	"posecam/internal/lighting"
	"posecam/internal/mathutil"
	"posecam/internal/pose"
	"posecam/internal/raster"
	"posecam/internal/scene"
)

// MaxStep caps a single tick's dt so a stalled frame does not jump the
// timeline or the clip.
const MaxStep = 0.1

// Config is the host's static setup.
type Config struct {
	Width, Height int
	Supersample   int

	Padding        float64
	Pose           pose.Params
	PreferredClips []string

	Ground      bool
	GroundSize  float64
	GroundColor color.NRGBA

	Rig lighting.Rig

	Logger *log.Logger
}

// DefaultConfig returns the stock scene: 1.25 padding, 40×40 ground, the
// default light rig and the mixamo clip preference.
func DefaultConfig() Config {
	return Config{
		Width:          640,
		Height:         480,
		Supersample:    2,
		Padding:        framing.DefaultPadding,
		Pose:           pose.DefaultParams(),
		PreferredClips: anim.DefaultPreferred,
		Ground:         true,
		GroundSize:     40,
		GroundColor:    color.NRGBA{R: 0x4d, G: 0x7a, B: 0x56, A: 0xff},
		Rig:            lighting.Default(),
	}
}

// FrameInfo describes a presented frame.
type FrameInfo struct {
	Frame     int64
	Time      float64 // seconds of simulated time
	Model     string  // empty without a model
	Clip      string
	State     pose.State
	Animating bool
	Progress  float64
	Values    pose.Values
	Light     string
}

// Sink receives every rendered frame.
type Sink interface {
	Present(img *image.NRGBA, info FrameInfo) error
}

// Host is the scene host.
type Host struct {
	cfg   Config
	log   *log.Logger
	queue *event.Queue

	world  *scene.Node
	pivot  *scene.Node
	ground *scene.Node

	model     *asset.Model
	fit       framing.Fit
	index     *focus.Index
	headFocus mgl64.Vec3
	player    *anim.Player

	pose     *pose.Controller
	cam      *camera.Ortho
	renderer *raster.Renderer
	rig      lighting.Rig
	sink     Sink

	frame int64
	clock float64
	quit  bool
}

// New builds a host in the no-model state. sink may be nil.
func New(cfg Config, sink Sink) *Host {
	if cfg.Logger == nil {
		cfg.Logger = log.New(os.Stderr, "host: ", log.LstdFlags)
	}
	if cfg.PreferredClips == nil {
		cfg.PreferredClips = anim.DefaultPreferred
	}
	h := &Host{
		cfg:      cfg,
		log:      cfg.Logger,
		queue:    event.NewQueue(),
		world:    scene.NewNode("world"),
		pivot:    scene.NewNode("pivot"),
		pose:     pose.NewController(cfg.Pose),
		cam:      camera.NewOrtho(),
		renderer: raster.New(cfg.Width, cfg.Height, cfg.Supersample),
		rig:      cfg.Rig,
		sink:     sink,
	}
	if cfg.Ground && cfg.GroundSize > 0 {
		h.ground = scene.NewNode("ground")
		h.ground.SetMesh(scene.NewPlaneMesh(cfg.GroundSize, cfg.GroundColor))
		h.world.Add(h.ground)
	}
	h.world.Add(h.pivot)
	return h
}

// Discard is a logger for hosts that should stay quiet.
func Discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// Queue returns the host's inbound event queue.
func (h *Host) Queue() *event.Queue { return h.queue }

// Model returns the loaded model, or nil.
func (h *Host) Model() *asset.Model { return h.model }

// Pose returns the pose controller.
func (h *Host) Pose() *pose.Controller { return h.pose }

// Camera returns the render camera.
func (h *Host) Camera() *camera.Ortho { return h.cam }

// Rig returns the current light rig.
func (h *Host) Rig() lighting.Rig { return h.rig }

// Fit returns the current framing and whether a model is framed.
func (h *Host) Fit() (framing.Fit, bool) { return h.fit, h.model != nil }

// HeadJoint returns the joint used as the Profile focus, or nil when the
// geometric fallback is in use.
func (h *Host) HeadJoint() *scene.Node { return h.index.HeadJoint() }

// JointCount returns the number of skeleton joints in the loaded model.
func (h *Host) JointCount() int { return h.index.Len() }

// HeadFocus returns the cached Profile focus point.
func (h *Host) HeadFocus() mgl64.Vec3 { return h.headFocus }

// Clip returns the looping clip, or nil.
func (h *Host) Clip() *anim.Clip {
	if h.player == nil {
		return nil
	}
	return h.player.Clip()
}

// Frame returns the number of frames rendered.
func (h *Host) Frame() int64 { return h.frame }

// Done reports whether a Quit event has been handled.
func (h *Host) Done() bool { return h.quit }

// Size returns the viewport size.
func (h *Host) Size() (int, int) { return h.renderer.Size() }

// LoadAsync starts loading path in the background; the outcome arrives as
// a Load event on the host queue.
func (h *Host) LoadAsync(ctx context.Context, path string, opts asset.Options) {
	if opts.Logger == nil {
		opts.Logger = h.log
	}
	res := asset.LoadAsync(ctx, path, opts)
	go func() {
		r := <-res
		h.queue.Send(event.Load, event.LoadPayload{Path: r.Path, Model: r.Model, Err: r.Err})
	}()
}

// OnLoad installs a loaded model: it is centred on the pivot and dropped
// onto the ground, framed, its head focus resolved and cached, a clip
// selected, and the pose reset to Front. A failed load is logged and
// returned; any model already shown stays in place.
func (h *Host) OnLoad(m *asset.Model, err error) error {
	if err == nil && (m == nil || m.Root == nil) {
		err = fmt.Errorf("host: load returned no model")
	}
	if err != nil {
		h.log.Printf("load failed: %v", err)
		return err
	}

	if h.model != nil {
		h.pivot.Remove(h.model.Root)
	}
	h.pivot.Rotation = mgl64.QuatIdent()
	h.pivot.Scale = mgl64.Vec3{1, 1, 1}
	h.pivot.Add(m.Root)
	h.model = m

	h.world.UpdateWorld()
	centerAndDrop(m.Root)

	h.fit = framing.FitSubtree(m.Root, h.renderer.Aspect(), h.cfg.Padding)
	h.index = focus.BuildIndex(m.Root)
	h.headFocus = focus.ResolveHeadFocus(h.index, m.Root)

	h.player = anim.NewPlayer(anim.Select(m.Clips, h.cfg.PreferredClips))

	h.pose.Load(pose.Subject{
		Center:    h.fit.Focus,
		HeadFocus: h.headFocus,
		Height:    h.fit.SubjectHeight,
	}, h.fit.Camera, h.fit.HalfHeight())
	h.cam.SetFrustum(h.fit.Frustum)
	h.apply()

	clip := "none"
	if c := h.Clip(); c != nil {
		clip = c.Name
	}
	head := "fallback"
	if j := h.HeadJoint(); j != nil {
		head = j.Name
	}
	h.log.Printf("framed %s: height %.3f, frustum ±%.3f×±%.3f, head %s, clip %s",
		m.Name, h.fit.SubjectHeight, h.fit.Frustum.Right, h.fit.Frustum.Top, head, clip)
	return nil
}

// centerAndDrop moves root so its bounds are centred on the parent origin
// in X and Z and its lowest point sits at y = 0.
func centerAndDrop(root *scene.Node) {
	box := scene.Bounds(root)
	if box.IsEmpty() {
		return
	}
	c := box.Center()
	root.Translation = root.Translation.Sub(mgl64.Vec3{c[0], box.Min[1], c[2]})
	root.UpdateWorld()
}

// OnResize changes the viewport. Only the frustum's horizontal extent is
// recomputed; the subject is not refit.
func (h *Host) OnResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	h.renderer.Resize(width, height)
	if h.model == nil {
		return
	}
	h.fit.Resize(framing.ViewportAspect(width, height))
	h.cam.SetFrustum(h.fit.Frustum)
}

// OnToggle flips the pose. Without a model it does nothing.
func (h *Host) OnToggle() bool {
	return h.pose.Toggle()
}

// OnLight applies a light panel edit.
func (h *Host) OnLight(p event.LightPayload) error {
	var err error
	switch {
	case p.Color != "":
		err = h.rig.SetColor(p.Color)
	case p.Delta != 0:
		_, err = h.rig.Nudge(p.Name, p.Delta)
	default:
		_, err = h.rig.Set(p.Name, p.Value)
	}
	if err != nil {
		h.log.Printf("light: %v", err)
	}
	return err
}

func (h *Host) handle(ev event.Event) {
	switch ev.Type {
	case event.Load:
		p, ok := ev.Payload.(event.LoadPayload)
		if !ok {
			h.log.Printf("ignoring %v event with payload %T", ev.Type, ev.Payload)
			return
		}
		m, _ := p.Model.(*asset.Model)
		h.OnLoad(m, p.Err)
	case event.Resize:
		if p, ok := ev.Payload.(event.ResizePayload); ok {
			h.OnResize(p.Width, p.Height)
		}
	case event.Toggle:
		h.OnToggle()
	case event.Light:
		if p, ok := ev.Payload.(event.LightPayload); ok {
			h.OnLight(p)
		}
	case event.Quit:
		h.quit = true
		h.pose.Cancel()
	}
}

// apply writes the pose channels onto the pivot and the camera.
func (h *Host) apply() {
	if !h.pose.Loaded() {
		return
	}
	v := h.pose.Values()
	h.pivot.Rotation = mgl64.QuatRotate(v.RotationY, mathutil.AxisY)
	h.pivot.Scale = mgl64.Vec3{v.Scale, v.Scale, v.Scale}
	h.cam.SetPosition(v.Camera)
	h.cam.LookAt(v.Focus)
	h.cam.SetZoom(v.Zoom)
}

// Step runs one tick: drain events, advance the clip and the pose
// transition by the same dt, render once and present. It returns the
// rendered frame, or nil once the host has quit.
func (h *Host) Step(dt float64) *image.NRGBA {
	if !mathutil.Finite(dt) || dt < 0 {
		dt = 0
	}
	dt = min(dt, MaxStep)

	for _, ev := range h.queue.Drain() {
		h.handle(ev)
	}
	if h.quit {
		return nil
	}

	h.clock += dt
	h.player.Advance(dt)
	h.pose.Tick(dt)
	h.apply()

	img := h.renderer.Render(h.world, h.cam, &h.rig)
	h.frame++
	if h.sink != nil {
		if err := h.sink.Present(img, h.info()); err != nil {
			h.log.Printf("present frame %d: %v", h.frame, err)
		}
	}
	return img
}

func (h *Host) info() FrameInfo {
	fi := FrameInfo{
		Frame:     h.frame,
		Time:      h.clock,
		State:     h.pose.State(),
		Animating: h.pose.Animating(),
		Progress:  h.pose.Progress(),
		Values:    h.pose.Values(),
		Light:     h.rig.Summary(),
	}
	if h.model != nil {
		fi.Model = h.model.Name
	}
	if c := h.Clip(); c != nil {
		fi.Clip = c.Name
	}
	return fi
}

// Run steps the host at fps until ctx is cancelled or a Quit event
// arrives. dt is measured from the wall clock and capped at MaxStep.
func (h *Host) Run(ctx context.Context, fps int) error {
	if fps <= 0 {
		fps = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			h.pose.Cancel()
			return ctx.Err()
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			h.Step(dt)
			if h.quit {
				return nil
			}
		}
	}
}
