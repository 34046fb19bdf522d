package record

import (
	"context"

	"posecam/internal/host"
)

// Play steps h through the script at a fixed frame rate, firing each step
// on the first frame at or after its time. The first frame is rendered
// with dt = 0. It stops early on a quit step or when ctx is cancelled and
// returns the number of frames rendered.
func Play(ctx context.Context, h *host.Host, s Script) (int, error) {
	if err := s.normalize(); err != nil {
		return 0, err
	}
	dt := 1 / float64(s.FPS)
	next := 0
	rendered := 0
	for i := 0; i < s.Frames(); i++ {
		if err := ctx.Err(); err != nil {
			return rendered, err
		}
		t := float64(i) * dt
		for next < len(s.Steps) && s.Steps[next].At <= t+1e-9 {
			ev, _ := s.Steps[next].Event()
			h.Queue().Push(ev)
			next++
		}
		step := dt
		if i == 0 {
			step = 0
		}
		if h.Step(step) == nil {
			break
		}
		rendered++
	}
	return rendered, nil
}
