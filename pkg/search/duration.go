package search

import "time"

// durationTemplate pads clock-formatted text ("3:25", "1:00:04") into a
// full timestamp so the standard parser can read it.
const durationTemplate = "2000-01-01 00:00:00"

// Bounds limits accepted song lengths. A non-positive MaxSeconds disables
// the check.
type Bounds struct {
	MinSeconds int
	MaxSeconds int
}

// withinBounds reports whether raw clock text falls inside the bounds.
//
// The check is deliberately loose: text that does not parse as a clock
// value passes, since the player also puts view counts and labels in the
// same trailing-run slot.
func (b Bounds) withinBounds(raw string) bool {
	if b.MaxSeconds <= 0 {
		return true
	}
	if len(raw) >= len(durationTemplate) {
		return true
	}

	padded := durationTemplate[:len(durationTemplate)-len(raw)] + raw
	parsed, err := time.Parse(time.DateTime, padded)
	if err != nil {
		return true
	}

	base, _ := time.Parse(time.DateTime, durationTemplate)
	min := base.Add(time.Duration(b.MinSeconds) * time.Second)
	max := base.Add(time.Duration(b.MaxSeconds) * time.Second)

	return !(parsed.After(max) || parsed.Before(min))
}
