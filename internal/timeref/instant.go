package timeref

import "time"

// Instant is a monotonic clock reading used as a block timestamp.
type Instant struct {
	t time.Time
}

// Now returns the current monotonic reading.
func Now() Instant {
	return Instant{t: time.Now()}
}

// At wraps an existing time value.
func At(t time.Time) Instant {
	return Instant{t: t}
}

// Time returns the underlying time value.
func (i Instant) Time() time.Time {
	return i.t
}

// EpochSeconds converts the instant through ref.
func (i Instant) EpochSeconds(ref *Reference) (uint64, error) {
	return ref.ToEpochSeconds(i.t)
}

// InstantFromEpochSeconds rebuilds an instant from serialized epoch seconds through ref.
func InstantFromEpochSeconds(ref *Reference, seconds uint64) (Instant, error) {
	t, err := ref.FromEpochSeconds(seconds)
	if err != nil {
		return Instant{}, err
	}
	return Instant{t: t}, nil
}

// Add returns the instant shifted by d.
func (i Instant) Add(d time.Duration) Instant {
	return Instant{t: i.t.Add(d)}
}
