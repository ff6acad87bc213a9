// Package maintenance gates features during configured time-of-day windows.
// All windows live in one configuration map keyed by feature name, so every
// handler consults the same source of truth.
package maintenance

import "time"

// Feature names used by the default configuration.
const (
	FeatureTransfer     = "transfer"
	FeatureExchange     = "exchange"
	FeatureGiftExchange = "gift-exchange"
)

// ClockTime is a wall-clock time of day.
type ClockTime struct {
	Hour   int
	Minute int
}

func (c ClockTime) minutes() int {
	return c.Hour*60 + c.Minute
}

// Window is a half-open [Start, End) interval, optionally restricted to one
// weekday. A timestamp exactly at Start is inside; exactly at End is outside.
type Window struct {
	Weekday *time.Weekday
	Start   ClockTime
	End     ClockTime
}

// Contains reports whether now falls inside the window.
func (w Window) Contains(now time.Time) bool {
	if w.Weekday != nil && now.Weekday() != *w.Weekday {
		return false
	}
	m := now.Hour()*60 + now.Minute()
	return m >= w.Start.minutes() && m < w.End.minutes()
}

// Gate evaluates maintenance windows per feature.
type Gate struct {
	windows map[string][]Window
}

// NewGate creates a gate over the given configuration.
func NewGate(windows map[string][]Window) *Gate {
	return &Gate{windows: windows}
}

// Default returns the gate with the service's standard windows:
// gift exchanges pause on Sundays 15:00-16:00, transfers and point
// exchanges pause daily 18:00-20:00.
func Default() *Gate {
	sunday := time.Sunday
	return NewGate(map[string][]Window{
		FeatureGiftExchange: {
			{Weekday: &sunday, Start: ClockTime{Hour: 15}, End: ClockTime{Hour: 16}},
		},
		FeatureTransfer: {
			{Start: ClockTime{Hour: 18}, End: ClockTime{Hour: 20}},
		},
		FeatureExchange: {
			{Start: ClockTime{Hour: 18}, End: ClockTime{Hour: 20}},
		},
	})
}

// InWindow reports whether the feature is under maintenance at the given
// time. Unknown features are never under maintenance.
func (g *Gate) InWindow(feature string, now time.Time) bool {
	for _, w := range g.windows[feature] {
		if w.Contains(now) {
			return true
		}
	}
	return false
}
