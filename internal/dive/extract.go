package dive

import "math"

// Marker is an alarm overlay point. Depth is negated so it lines up with the
// downward depth axis used by the renderer.
type Marker struct {
	Time  float64 `json:"time" yaml:"time"`
	Depth float64 `json:"depth" yaml:"depth"`
}

// Series is the renderer-ready view of one dive. TimeAxis, Depth and Rate are
// index-aligned with the source timeline.
type Series struct {
	TimeAxis       []float64 `json:"time_axis" yaml:"time_axis"`
	Depth          []float64 `json:"depth" yaml:"depth"`
	Rate           []float64 `json:"rate" yaml:"rate"`
	Alarms         []Marker  `json:"alarms" yaml:"alarms"`
	PeakRate       float64   `json:"peak_rate" yaml:"peak_rate"`
	PeakTimeOffset float64   `json:"peak_time_offset" yaml:"peak_time_offset"`
	MaxDepth       float64   `json:"max_depth" yaml:"max_depth"`
}

// Len returns the number of samples in the series.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.TimeAxis)
}

// Duration returns the elapsed seconds covered by the series.
func (s *Series) Duration() float64 {
	if s.Len() == 0 {
		return 0
	}
	return s.TimeAxis[len(s.TimeAxis)-1]
}

// Extract derives the chart series for a finished dive in a single pass over
// its timeline. The dive's own peak sample is authoritative for MaxDepth and
// PeakTimeOffset even when the traversal sees a deeper sample.
func Extract(d Dive) (*Series, error) {
	timeline := d.Timeline()
	if len(timeline) == 0 {
		return nil, ErrEmptyTimeline
	}

	start := timeline[0].Timestamp
	elapsed := func(s Sample) float64 {
		return s.Timestamp.Sub(start).Seconds()
	}

	series := &Series{
		TimeAxis: make([]float64, 0, len(timeline)),
		Depth:    make([]float64, 0, len(timeline)),
		Rate:     make([]float64, 0, len(timeline)),
		Alarms:   []Marker{},
	}
	for _, sample := range timeline {
		x := elapsed(sample)
		series.TimeAxis = append(series.TimeAxis, x)
		series.Depth = append(series.Depth, sample.Depth)

		rate := 0.0
		if sample.HasRate {
			rate = sample.Rate
			series.PeakRate = math.Max(series.PeakRate, math.Abs(rate))
		}
		series.Rate = append(series.Rate, rate)

		if sample.Event {
			series.Alarms = append(series.Alarms, Marker{Time: x, Depth: -sample.Depth})
		}
	}

	peak := d.Peak()
	series.PeakTimeOffset = elapsed(peak)
	series.MaxDepth = peak.Depth
	return series, nil
}
