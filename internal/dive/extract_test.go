package dive_test

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"divegraph/internal/dive"
)

type stubDive struct {
	timeline []dive.Sample
	peak     dive.Sample
	finished bool
}

func (d *stubDive) Finish()                  { d.finished = true }
func (d *stubDive) Timeline() []dive.Sample { return d.timeline }
func (d *stubDive) Peak() dive.Sample       { return d.peak }

var base = time.Date(2024, 7, 14, 9, 30, 0, 0, time.UTC)

func at(seconds float64) time.Time {
	return base.Add(time.Duration(seconds * float64(time.Second)))
}

func TestExtractScenario(t *testing.T) {
	timeline := []dive.Sample{
		{Timestamp: at(0), Depth: 5, Rate: 1, HasRate: true},
		{Timestamp: at(10), Depth: 20, Rate: 3, HasRate: true, Event: true},
		{Timestamp: at(20), Depth: 2, Rate: -2, HasRate: true},
	}
	d := &stubDive{timeline: timeline, peak: timeline[1]}

	series, err := dive.Extract(d)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	if want := []float64{0, 10, 20}; !reflect.DeepEqual(series.TimeAxis, want) {
		t.Fatalf("time axis = %v, want %v", series.TimeAxis, want)
	}
	if want := []float64{5, 20, 2}; !reflect.DeepEqual(series.Depth, want) {
		t.Fatalf("depth = %v, want %v", series.Depth, want)
	}
	if want := []float64{1, 3, -2}; !reflect.DeepEqual(series.Rate, want) {
		t.Fatalf("rate = %v, want %v", series.Rate, want)
	}
	if series.PeakRate != 3 {
		t.Fatalf("peak rate = %v, want 3", series.PeakRate)
	}
	if want := []dive.Marker{{Time: 10, Depth: -20}}; !reflect.DeepEqual(series.Alarms, want) {
		t.Fatalf("alarms = %v, want %v", series.Alarms, want)
	}
	if series.MaxDepth != 20 {
		t.Fatalf("max depth = %v, want 20", series.MaxDepth)
	}
	if series.PeakTimeOffset != 10 {
		t.Fatalf("peak time offset = %v, want 10", series.PeakTimeOffset)
	}
}

func TestExtractEmptyTimeline(t *testing.T) {
	series, err := dive.Extract(&stubDive{})
	if !errors.Is(err, dive.ErrEmptyTimeline) {
		t.Fatalf("expected ErrEmptyTimeline, got %v", err)
	}
	if series != nil {
		t.Fatalf("expected no partial series, got %+v", series)
	}
}

func TestExtractMissingRatesAreZeroFilled(t *testing.T) {
	timeline := []dive.Sample{
		{Timestamp: at(0), Depth: 0.6},
		{Timestamp: at(1), Depth: 1.4, Rate: 0.8, HasRate: true},
		{Timestamp: at(2), Depth: 2.0},
		{Timestamp: at(3), Depth: 1.1, Rate: -0.9, HasRate: true},
	}
	series, err := dive.Extract(&stubDive{timeline: timeline, peak: timeline[2]})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if want := []float64{0, 0.8, 0, -0.9}; !reflect.DeepEqual(series.Rate, want) {
		t.Fatalf("rate = %v, want %v", series.Rate, want)
	}
	if series.PeakRate != 0.9 {
		t.Fatalf("peak rate = %v, want 0.9", series.PeakRate)
	}
}

func TestExtractNoRatesGivesZeroPeakRate(t *testing.T) {
	timeline := []dive.Sample{
		{Timestamp: at(0), Depth: 1},
		{Timestamp: at(1), Depth: 2},
	}
	series, err := dive.Extract(&stubDive{timeline: timeline, peak: timeline[1]})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if series.PeakRate != 0 {
		t.Fatalf("peak rate = %v, want 0", series.PeakRate)
	}
	if len(series.Alarms) != 0 {
		t.Fatalf("expected no alarms, got %v", series.Alarms)
	}
}

func TestExtractProperties(t *testing.T) {
	cases := []struct {
		name     string
		timeline []dive.Sample
		peakIdx  int
	}{
		{
			name:     "single sample",
			timeline: []dive.Sample{{Timestamp: at(0), Depth: 3, Event: true}},
		},
		{
			name: "tied timestamps",
			timeline: []dive.Sample{
				{Timestamp: at(0), Depth: 1},
				{Timestamp: at(0.5), Depth: 2, Rate: 2, HasRate: true},
				{Timestamp: at(0.5), Depth: 2.1, Event: true},
				{Timestamp: at(1.5), Depth: 0.4, Rate: -1.7, HasRate: true, Event: true},
			},
			peakIdx: 2,
		},
		{
			name: "long dive with alarms",
			timeline: func() []dive.Sample {
				samples := make([]dive.Sample, 0, 240)
				for i := 0; i < 240; i++ {
					depth := 40 - math.Abs(float64(i-120))/3
					samples = append(samples, dive.Sample{
						Timestamp: at(float64(i)),
						Depth:     depth,
						Rate:      math.Sin(float64(i)),
						HasRate:   i%7 != 0,
						Event:     i%30 == 0,
					})
				}
				return samples
			}(),
			peakIdx: 120,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := &stubDive{timeline: tc.timeline, peak: tc.timeline[tc.peakIdx]}
			series, err := dive.Extract(d)
			if err != nil {
				t.Fatalf("Extract returned error: %v", err)
			}
			n := len(tc.timeline)
			if len(series.TimeAxis) != n || len(series.Depth) != n || len(series.Rate) != n {
				t.Fatalf("series lengths %d/%d/%d, want %d", len(series.TimeAxis), len(series.Depth), len(series.Rate), n)
			}
			if series.TimeAxis[0] != 0 {
				t.Fatalf("time axis must start at 0, got %v", series.TimeAxis[0])
			}
			for i := 1; i < n; i++ {
				if series.TimeAxis[i] < series.TimeAxis[i-1] {
					t.Fatalf("time axis decreases at %d: %v", i, series.TimeAxis)
				}
			}

			peakRate := 0.0
			events := 0
			for i, s := range tc.timeline {
				if series.Depth[i] != s.Depth {
					t.Fatalf("depth[%d] = %v, want %v", i, series.Depth[i], s.Depth)
				}
				peakRate = math.Max(peakRate, math.Abs(series.Rate[i]))
				if s.Event {
					if events >= len(series.Alarms) {
						t.Fatalf("missing alarm for sample %d", i)
					}
					if got := series.Alarms[events]; got.Depth != -s.Depth || got.Time != series.TimeAxis[i] {
						t.Fatalf("alarm %d = %+v, want (%v, %v)", events, got, series.TimeAxis[i], -s.Depth)
					}
					events++
				}
			}
			if events != len(series.Alarms) {
				t.Fatalf("alarm count = %d, want %d", len(series.Alarms), events)
			}
			if series.PeakRate != peakRate {
				t.Fatalf("peak rate = %v, want %v", series.PeakRate, peakRate)
			}
			if series.MaxDepth != tc.timeline[tc.peakIdx].Depth {
				t.Fatalf("max depth = %v, want %v", series.MaxDepth, tc.timeline[tc.peakIdx].Depth)
			}
		})
	}
}

func TestExtractTrustsSuppliedPeak(t *testing.T) {
	timeline := []dive.Sample{
		{Timestamp: at(0), Depth: 1},
		{Timestamp: at(4), Depth: 9},
		{Timestamp: at(8), Depth: 12},
	}
	series, err := dive.Extract(&stubDive{timeline: timeline, peak: timeline[1]})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if series.MaxDepth != 9 || series.PeakTimeOffset != 4 {
		t.Fatalf("expected supplied peak (4s, 9m), got (%vs, %vm)", series.PeakTimeOffset, series.MaxDepth)
	}
}
