package playback

import "time"

// Clock schedules deferred ticks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a scheduled tick. Stop reports whether it prevented the call.
type Timer interface {
	Stop() bool
}

// WallClock schedules with [time.AfterFunc].
type WallClock struct{}

func (WallClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
