package anim

import (
	"math"

	"posecam/internal/mathutil"
)

// Player loops one clip forever.
type Player struct {
	clip *Clip
	time float64
}

// NewPlayer returns a player rewound to the start of clip, or nil when
// clip is nil.
func NewPlayer(clip *Clip) *Player {
	if clip == nil {
		return nil
	}
	p := &Player{clip: clip}
	clip.Apply(0)
	return p
}

// Clip returns the clip being played.
func (p *Player) Clip() *Clip {
	return p.clip
}

// Time returns the playhead in seconds.
func (p *Player) Time() float64 {
	return p.time
}

// Advance moves the playhead by dt, wrapping at the clip's end, and poses
// the clip's nodes. A nil player does nothing.
func (p *Player) Advance(dt float64) {
	if p == nil {
		return
	}
	if dt > 0 && mathutil.Finite(dt) {
		p.time += dt
	}
	if d := p.clip.Duration; d > 0 {
		p.time = math.Mod(p.time, d)
	} else {
		p.time = 0
	}
	p.clip.Apply(p.time)
}
