package dive

import (
	"errors"
	"time"
)

// ErrEmptyTimeline reports a dive without samples; no time origin exists.
var ErrEmptyTimeline = errors.New("dive timeline is empty")

// Sample is one timestamped reading inside a dive timeline.
type Sample struct {
	Timestamp time.Time
	// Depth in metres, non-negative.
	Depth float64
	// Rate is the signed depth change in m/s, positive while descending.
	// Only meaningful when HasRate is set.
	Rate    float64
	HasRate bool
	// Event marks a device-raised alarm coinciding with this sample.
	Event bool
}

// Dive is a decoded excursion. Finish must be called before Timeline and
// Peak are considered stable.
type Dive interface {
	Finish()
	Timeline() []Sample
	Peak() Sample
}

// Session is the ordered set of dives decoded from one telemetry file.
type Session interface {
	Len() int
	Dive(index int) (Dive, error)
}

// Decoder turns a telemetry file on disk into a Session.
type Decoder interface {
	Decode(path string) (Session, error)
}

// DecoderFunc adapts a plain function to the Decoder interface.
type DecoderFunc func(path string) (Session, error)

// Decode calls f(path).
func (f DecoderFunc) Decode(path string) (Session, error) {
	return f(path)
}
