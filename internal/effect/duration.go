package effect

import "time"

// Duration is either permanent or a bounded window of world time.
type Duration struct {
	permanent bool
	start     time.Duration
	length    time.Duration
}

func Permanent() Duration {
	return Duration{permanent: true}
}

// Seconds is a window starting at start (world time) lasting length.
func Seconds(start, length time.Duration) Duration {
	return Duration{start: start, length: length}
}

func (d Duration) IsPermanent() bool { return d.permanent }

func (d Duration) Start() time.Duration  { return d.start }
func (d Duration) Length() time.Duration { return d.length }

// Expired reports start+length < now. Permanent durations never expire.
func (d Duration) Expired(now time.Duration) bool {
	if d.permanent {
		return false
	}
	return d.start+d.length < now
}

// Started reports whether the window has opened at now.
func (d Duration) Started(now time.Duration) bool {
	return d.permanent || now >= d.start
}

// Remaining returns the time left in the window, zero once expired. It is
// meaningless for permanent durations and returns -1 for them.
func (d Duration) Remaining(now time.Duration) time.Duration {
	if d.permanent {
		return -1
	}
	left := d.start + d.length - now
	if left < 0 {
		return 0
	}
	return left
}
