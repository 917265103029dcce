package synonyms

import (
	"math"
	"time"

	"github.com/mcoot/partygames/internal/model"
)

// Reading is one accelerometer sample, in g
type Reading struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Tilt is the gesture detected from a reading while playing
type Tilt int

const (
	TiltNone Tilt = iota
	TiltCorrect
	TiltPass
)

// HorizontalDominant reports whether gravity lies mostly along the screen
// plane, i.e. the phone is held on its side.
func HorizontalDominant(r Reading) bool {
	ax, ay, az := math.Abs(r.X), math.Abs(r.Y), math.Abs(r.Z)
	return (ax > model.LandscapeAxisMinimum || ay > model.LandscapeAxisMinimum) && az < model.LandscapeZMaximum
}

// UpdateOrientation feeds a reading into the landscape detector. Landscape
// is entered at once; leaving it needs a sustained run of other readings.
func UpdateOrientation(o *model.Orientation, r Reading, now time.Time) {
	if HorizontalDominant(r) {
		o.Landscape = true
		o.PendingLeave = time.Time{}
		return
	}
	if o.PendingLeave.IsZero() {
		o.PendingLeave = now.Add(model.LandscapeLeaveDelay)
	}
	ResolveOrientation(o, now)
}

// ResolveOrientation applies a pending leave whose deadline has passed
func ResolveOrientation(o *model.Orientation, now time.Time) {
	if o.PendingLeave.IsZero() || now.Before(o.PendingLeave) {
		return
	}
	o.Landscape = false
	o.PendingLeave = time.Time{}
}

// DetectTilt classifies a reading by its z component. Face up past the
// threshold is a correct guess, face down a pass.
func DetectTilt(r Reading) Tilt {
	switch {
	case r.Z > model.TiltThreshold:
		return TiltCorrect
	case r.Z < -model.TiltThreshold:
		return TiltPass
	}
	return TiltNone
}
