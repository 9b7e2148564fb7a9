package component

import (
	"math"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bugbash/common"
)

type MotionState int

const (
	MotionWandering MotionState = iota
	MotionHalted
)

func (s MotionState) String() string {
	switch s {
	case MotionWandering:
		return "wandering"
	case MotionHalted:
		return "halted"
	default:
		return "unknown"
	}
}

const (
	// SpriteFrontOffset turns the sprite so its front faces the heading.
	SpriteFrontOffset = -90 + 180
	MaxTiltY          = 25.0
	FixedTiltX        = 18.0
)

// Motion is the per-entity wander state. LastTurn and Dwell are measured on the
// simulation clock, not wall time.
type Motion struct {
	State    MotionState
	Heading  cp.Vector
	LastTurn time.Duration
	Dwell    time.Duration
}

// Pose is the presentation angles derived from a heading.
type Pose struct {
	Rotation float64
	TiltX    float64
	TiltY    float64
}

func (m Motion) Pose() Pose {
	return PoseFor(m.Heading, MaxTiltY)
}

// PoseFor derives the sprite rotation (degrees) and lean for heading h.
func PoseFor(h cp.Vector, maxTilt float64) Pose {
	rot := math.Atan2(h.Y, h.X)*180/math.Pi + SpriteFrontOffset
	return Pose{
		Rotation: rot,
		TiltX:    FixedTiltX,
		TiltY:    common.Clamp(h.X*maxTilt, -maxTilt, maxTilt),
	}
}

var MotionComponent = NewComponent[Motion]()
