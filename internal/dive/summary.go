package dive

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// Summary holds the per-dive scalars shown in listings and kept in the
// catalog. Rates are in m/s; AscentRate is reported as a positive speed.
type Summary struct {
	Duration    time.Duration `json:"duration" yaml:"duration"`
	MaxDepth    float64       `json:"max_depth" yaml:"max_depth"`
	PeakRate    float64       `json:"peak_rate" yaml:"peak_rate"`
	DescentRate float64       `json:"descent_rate" yaml:"descent_rate"`
	AscentRate  float64       `json:"ascent_rate" yaml:"ascent_rate"`
	Alarms      int           `json:"alarms" yaml:"alarms"`
}

// Summarize reduces a series to its summary scalars.
func Summarize(s *Series) Summary {
	if s.Len() == 0 {
		return Summary{}
	}
	var down, up []float64
	for _, r := range s.Rate {
		switch {
		case r > 0:
			down = append(down, r)
		case r < 0:
			up = append(up, -r)
		}
	}
	return Summary{
		Duration:    time.Duration(s.Duration() * float64(time.Second)),
		MaxDepth:    s.MaxDepth,
		PeakRate:    s.PeakRate,
		DescentRate: mean(down),
		AscentRate:  mean(up),
		Alarms:      len(s.Alarms),
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}
