package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"divegraph/internal/config"
	"divegraph/internal/dive"
	"divegraph/internal/fit"
	"divegraph/internal/logging"
	"divegraph/internal/textutil"
)

// ErrDiveIndex reports a dive index outside [0, Len()).
var ErrDiveIndex = errors.New("dive index out of range")

// Options controls segmentation.
type Options struct {
	// SurfaceThreshold is the depth in metres a sample must exceed to count
	// as underwater.
	SurfaceThreshold float64
	// MinDuration drops dives whose first-to-last sample span is shorter.
	MinDuration time.Duration
	Logger      *slog.Logger
}

// OptionsFromConfig maps the [session] config section onto Options.
func OptionsFromConfig(cfg *config.Config, logger *slog.Logger) Options {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	return Options{
		SurfaceThreshold: cfg.Session.SurfaceThreshold,
		MinDuration:      time.Duration(cfg.Session.MinDiveSeconds) * time.Second,
		Logger:           logger,
	}
}

// alarmEvents are the event numbers surfaced as markers on a dive.
var alarmEvents = map[uint8]struct{}{
	fit.EventDiveAlert:             {},
	fit.EventTimeDurationAlert:     {},
	fit.EventDistanceDurationAlert: {},
	fit.EventHRHighAlert:           {},
	fit.EventHRLowAlert:            {},
	fit.EventUserMarker:            {},
}

// IsAlarm reports whether an event number is shown as an alarm marker.
func IsAlarm(event uint8) bool {
	_, ok := alarmEvents[event]
	return ok
}

// Decoder reads FIT files from disk and segments them into sessions.
type Decoder struct {
	opts   Options
	logger *slog.Logger
}

// NewDecoder returns a Decoder using opts.
func NewDecoder(opts Options) *Decoder {
	return &Decoder{
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "session"),
	}
}

// Decode implements dive.Decoder.
func (d *Decoder) Decode(path string) (dive.Session, error) {
	file, err := fit.DecodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if !file.IsActivity() {
		logging.WarnWithContext(d.logger, "fit file is not an activity; decoding anyway", "non_activity_file",
			logging.String(logging.FieldInput, path),
			logging.Int("file_type", int(file.FileID.Type)),
			logging.String(logging.FieldImpact, "dive list may be empty"),
		)
	}
	s := Build(file, d.opts)
	d.logger.Debug("session segmented",
		logging.String(logging.FieldInput, path),
		logging.Int("records", len(file.Records)),
		logging.Int("events", len(file.Events)),
		logging.Int("dives", s.Len()),
	)
	return s, nil
}

// Session is a segmented activity.
type Session struct {
	label string
	start time.Time
	dives []*Dive
}

// Len implements dive.Session.
func (s *Session) Len() int {
	return len(s.dives)
}

// Dive implements dive.Session.
func (s *Session) Dive(index int) (dive.Dive, error) {
	if index < 0 || index >= len(s.dives) {
		return nil, fmt.Errorf("%w: %d (session has %d dives)", ErrDiveIndex, index, len(s.dives))
	}
	return s.dives[index], nil
}

// Label is a human-readable activity name such as "Apnea Diving".
func (s *Session) Label() string {
	return s.label
}

// Start is the activity start time.
func (s *Session) Start() time.Time {
	return s.start
}

// Dive is one excursion below the surface threshold.
type Dive struct {
	samples  []dive.Sample
	peak     int
	finished bool
}

// Finish derives per-sample rates and locates the peak. Rates are the
// depth change per second from the previous sample; the first sample and
// samples sharing a timestamp with their predecessor carry no rate. The peak
// is the first sample at maximum depth. Calling Finish again has no effect.
func (d *Dive) Finish() {
	if d.finished {
		return
	}
	d.finished = true
	for i := range d.samples {
		if d.samples[i].Depth > d.samples[d.peak].Depth {
			d.peak = i
		}
		if i == 0 {
			continue
		}
		dt := d.samples[i].Timestamp.Sub(d.samples[i-1].Timestamp).Seconds()
		if dt <= 0 {
			continue
		}
		d.samples[i].Rate = (d.samples[i].Depth - d.samples[i-1].Depth) / dt
		d.samples[i].HasRate = true
	}
}

// Timeline implements dive.Dive.
func (d *Dive) Timeline() []dive.Sample {
	return d.samples
}

// Peak returns the apex sample. It is the zero Sample until Finish runs or
// when the dive has no samples.
func (d *Dive) Peak() dive.Sample {
	if !d.finished || len(d.samples) == 0 {
		return dive.Sample{}
	}
	return d.samples[d.peak]
}

// Build segments the records and events of file into a Session.
func Build(file *fit.File, opts Options) *Session {
	s := &Session{label: activityLabel(file), start: activityStart(file)}

	var (
		current     []dive.Sample
		lastSurface *dive.Sample
	)
	closeDive := func() {
		if len(current) == 0 {
			return
		}
		span := current[len(current)-1].Timestamp.Sub(current[0].Timestamp)
		if span >= opts.MinDuration {
			s.dives = append(s.dives, &Dive{samples: current})
		}
		current = nil
	}

	for _, rec := range file.Records {
		if !rec.HasDepth {
			continue
		}
		sample := dive.Sample{Timestamp: rec.Timestamp, Depth: rec.Depth}
		underwater := rec.Depth > opts.SurfaceThreshold
		switch {
		case underwater && current == nil:
			if lastSurface != nil {
				current = append(current, *lastSurface)
			}
			current = append(current, sample)
		case underwater:
			current = append(current, sample)
		case current != nil:
			current = append(current, sample)
			closeDive()
		}
		if !underwater {
			surface := sample
			lastSurface = &surface
		}
	}
	closeDive()

	for _, ev := range file.Events {
		if IsAlarm(ev.Event) {
			s.attach(ev.Timestamp)
		}
	}
	return s
}

func (s *Session) attach(at time.Time) {
	for _, d := range s.dives {
		samples := d.samples
		if at.Before(samples[0].Timestamp) || at.After(samples[len(samples)-1].Timestamp) {
			continue
		}
		i := sort.Search(len(samples), func(i int) bool {
			return !samples[i].Timestamp.Before(at)
		})
		samples[i].Event = true
		return
	}
}

func activityLabel(file *fit.File) string {
	if len(file.Sessions) == 0 {
		return "Activity"
	}
	first := file.Sessions[0]
	if name := fit.SubSportName(first.SubSport); name != "" && name != "generic" {
		return textutil.Humanize(name, "Activity")
	}
	return textutil.Humanize(fit.SportName(first.Sport), "Activity")
}

func activityStart(file *fit.File) time.Time {
	if len(file.Sessions) > 0 && !file.Sessions[0].StartTime.IsZero() {
		return file.Sessions[0].StartTime
	}
	if len(file.Records) > 0 {
		return file.Records[0].Timestamp
	}
	return file.FileID.TimeCreated
}
