package anim

// DefaultPreferred lists the clip names tried first, in order.
var DefaultPreferred = []string{
	"Armature|mixamo.com|Layer0.001",
	"Armature|mixamo.com|Layer0",
}

// Select picks the clip to loop: the first exact match from preferred, in
// preference order, else the longest clip (earliest wins on ties). It
// returns nil when there are no clips.
func Select(clips []*Clip, preferred []string) *Clip {
	for _, name := range preferred {
		for _, c := range clips {
			if c != nil && c.Name == name {
				return c
			}
		}
	}
	var best *Clip
	for _, c := range clips {
		if c == nil {
			continue
		}
		if best == nil || c.Duration > best.Duration {
			best = c
		}
	}
	return best
}
