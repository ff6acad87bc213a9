// Package rewards implements the mini-game reward generators. Each generator
// produces a bounded integer reward that callers feed into the ledger.
package rewards

import (
	"errors"
	"math"
	"math/rand"
	"time"
)

// Source yields the random draws the generators need. *math/rand.Rand
// satisfies it; tests may substitute a deterministic source.
type Source interface {
	Int63n(n int64) int64
}

// GlobalSource draws from the package-level math/rand generator, which is
// safe for concurrent use by multiple handlers.
type GlobalSource struct{}

func (GlobalSource) Int63n(n int64) int64 { return rand.Int63n(n) }

// Balloon game reward bounds.
const (
	BalloonMin = 1000
	BalloonMax = 10000
)

// Dart game reward tiers.
const (
	DartBullseye = 50000
	DartMiddle   = 20000
	DartOuter    = 5000
)

// Scratch card per-level reward bounds.
const (
	ScratchMinPerLevel = 1000
	ScratchMaxPerLevel = 20000
)

// ErrInvalidVipLevel is returned when a scratch card is requested for a
// level below 1.
var ErrInvalidVipLevel = errors.New("vip level must be at least 1")

// BalloonReward returns a uniform reward in [BalloonMin, BalloonMax].
func BalloonReward(rng Source) int64 {
	return BalloonMin + rng.Int63n(BalloonMax-BalloonMin+1)
}

// ScratchReward returns a uniform VIP scratch-card reward in
// [ScratchMinPerLevel*level, ScratchMaxPerLevel*level].
func ScratchReward(rng Source, vipLevel int) (int64, error) {
	if vipLevel < 1 {
		return 0, ErrInvalidVipLevel
	}
	lo := int64(ScratchMinPerLevel * vipLevel)
	hi := int64(ScratchMaxPerLevel * vipLevel)
	return lo + rng.Int63n(hi-lo+1), nil
}

// Dart models the dart game target. The board is a line: the target sits at
// Center and may drift sinusoidally over time; a throw is scored by its
// distance from the target against two half-widths, innermost first, so a
// distance exactly on a boundary pays the inner tier.
type Dart struct {
	Center          float64
	InnerHalfWidth  float64
	MiddleHalfWidth float64

	DriftAmplitude float64
	DriftPeriod    time.Duration
	epoch          time.Time
}

// NewDart returns a dart game with the standard zone widths and a static
// target.
func NewDart() *Dart {
	return &Dart{
		Center:          50,
		InnerHalfWidth:  5,
		MiddleHalfWidth: 15,
	}
}

// TargetAt returns the target position at the given time.
func (d *Dart) TargetAt(now time.Time) float64 {
	if d.DriftAmplitude == 0 || d.DriftPeriod <= 0 {
		return d.Center
	}
	elapsed := now.Sub(d.epoch).Seconds()
	period := d.DriftPeriod.Seconds()
	return d.Center + d.DriftAmplitude*math.Sin(2*math.Pi*elapsed/period)
}

// Score returns the reward for a throw at position against the given target.
func (d *Dart) Score(position, target float64) int64 {
	dist := math.Abs(position - target)
	switch {
	case dist <= d.InnerHalfWidth:
		return DartBullseye
	case dist <= d.MiddleHalfWidth:
		return DartMiddle
	default:
		return DartOuter
	}
}

// Throw scores a throw at the given position against the target's position
// at the given time.
func (d *Dart) Throw(position float64, now time.Time) int64 {
	return d.Score(position, d.TargetAt(now))
}
