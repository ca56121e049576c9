// Package timeref maps monotonic clock readings to wall-clock epoch seconds.
//
// Monotonic readings have no portable absolute meaning, so block timestamps are
// serialized through a Reference: a monotonic reading and a wall-clock reading
// captured together. A Reference is captured once (at process start, or anchored
// at an imported chain's genesis time) and reused for every conversion so the
// mapping does not depend on when serialization happens.
package timeref

import (
	"math"
	"time"

	"github.com/pkg/errors"
)

// ErrTimeUnderflow is returned when an epoch value precedes the reference wall-clock reading.
var ErrTimeUnderflow = errors.New("time precedes reference wall-clock reading")

var unixEpoch = time.Unix(0, 0)

// Reference is a monotonic reading and the wall-clock reading taken at the same instant.
type Reference struct {
	mono time.Time
	wall time.Time
}

var process = Capture()

// Process returns the reference captured when the process started.
func Process() *Reference {
	return process
}

// Capture takes a new reference pair from the current time. The wall reading is
// truncated to a whole second and the monotonic reading moved back by the same
// amount, so whole epoch seconds at or after the reference round-trip exactly.
func Capture() *Reference {
	now := time.Now()
	wall := now.Round(0)
	truncated := wall.Truncate(time.Second)
	return &Reference{
		mono: now.Add(-wall.Sub(truncated)),
		wall: truncated,
	}
}

// Anchored returns a reference whose wall reading is the given epoch second.
// It shares the process reference's offset, so instants decoded through it
// convert to the same epoch seconds through Process.
func Anchored(epochSeconds uint64) (*Reference, error) {
	if epochSeconds > math.MaxInt64 {
		return nil, errors.Errorf("epoch seconds %d out of range", epochSeconds)
	}
	return process.anchor(time.Unix(int64(epochSeconds), 0)), nil
}

func (r *Reference) anchor(wall time.Time) *Reference {
	return &Reference{
		mono: r.mono.Add(wall.Sub(r.wall)),
		wall: wall,
	}
}

// Wall returns the reference's wall-clock reading.
func (r *Reference) Wall() time.Time {
	return r.wall
}

// ToEpochSeconds converts a monotonic reading to whole seconds since the Unix epoch.
func (r *Reference) ToEpochSeconds(t time.Time) (uint64, error) {
	wall := r.wall.Add(t.Sub(r.mono))
	if wall.Before(unixEpoch) {
		return 0, errors.Wrapf(ErrTimeUnderflow, "%s is before the unix epoch", wall.UTC())
	}
	return uint64(wall.Unix()), nil
}

// FromEpochSeconds converts whole seconds since the Unix epoch back to a monotonic reading.
func (r *Reference) FromEpochSeconds(seconds uint64) (time.Time, error) {
	if seconds > math.MaxInt64 {
		return time.Time{}, errors.Errorf("epoch seconds %d out of range", seconds)
	}
	wall := time.Unix(int64(seconds), 0)
	if wall.Before(r.wall) {
		return time.Time{}, errors.Wrapf(ErrTimeUnderflow, "%d is before reference %d", seconds, r.wall.Unix())
	}
	return r.mono.Add(wall.Sub(r.wall)), nil
}
