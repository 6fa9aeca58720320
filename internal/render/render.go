package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"divegraph/internal/dive"
	"divegraph/internal/fileutil"
	"divegraph/internal/textutil"
)

// ErrEmptySeries reports a series with no samples to draw.
var ErrEmptySeries = errors.New("series has no samples")

// Format is an output image format.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// ParseFormat accepts "png" or "svg" in any case.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case PNG:
		return PNG, nil
	case SVG:
		return SVG, nil
	default:
		return "", fmt.Errorf("chart format %q: expected png or svg", value)
	}
}

// Options controls the canvas.
type Options struct {
	Format Format
	Width  int
	Height int
	// Title overrides the default "<max depth>m" title.
	Title string
}

var (
	depthColor = drawing.ColorFromHex("1f77b4")
	rateColor  = drawing.ColorFromHex("d62728")
	alarmColor = drawing.ColorFromHex("ff7f0e")
	guideColor = chart.ColorAlternateGray
)

// Title returns the default chart title for s.
func Title(s *dive.Series) string {
	return fmt.Sprintf("%.1fm", s.MaxDepth)
}

// Render writes the chart for s to w.
func Render(w io.Writer, s *dive.Series, opts Options) error {
	if s.Len() == 0 {
		return ErrEmptySeries
	}
	ch := build(s, opts)

	provider := chart.PNG
	if opts.Format == SVG {
		provider = chart.SVG
	}
	if err := ch.Render(provider, w); err != nil {
		return fmt.Errorf("render %s chart: %w", opts.formatName(), err)
	}
	return nil
}

// WriteFile renders s into path, replacing any existing file only once the
// chart is complete.
func WriteFile(path string, s *dive.Series, opts Options) error {
	if s.Len() == 0 {
		return ErrEmptySeries
	}
	return fileutil.WriteAtomic(path, func(w io.Writer) error {
		return Render(w, s, opts)
	})
}

// FileName builds a stable chart file name such as
// "apnea_diving-20240714T093000-dive03.png". Dive numbers are one-based.
func FileName(label string, start time.Time, index int, format Format) string {
	if format == "" {
		format = PNG
	}
	return fmt.Sprintf("%s-%s-dive%02d.%s",
		textutil.SanitizeToken(label),
		start.UTC().Format("20060102T150405"),
		index+1,
		format,
	)
}

func (o Options) formatName() string {
	if o.Format == "" {
		return string(PNG)
	}
	return string(o.Format)
}

func build(s *dive.Series, opts Options) chart.Chart {
	duration := math.Max(s.Duration(), 1)

	negDepth := make([]float64, len(s.Depth))
	deepest := s.MaxDepth
	for i, d := range s.Depth {
		negDepth[i] = -d
		deepest = math.Max(deepest, d)
	}
	if deepest <= 0 {
		deepest = 1
	}

	rateLimit := s.PeakRate
	if rateLimit <= 0 {
		rateLimit = 1
	}

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "Depth (m)",
			XValues: s.TimeAxis,
			YValues: negDepth,
			Style:   chart.Style{StrokeColor: depthColor, StrokeWidth: 2},
		},
		chart.ContinuousSeries{
			Name:    "Rate (m/s)",
			XValues: s.TimeAxis,
			YValues: s.Rate,
			YAxis:   chart.YAxisSecondary,
			Style:   chart.Style{StrokeColor: rateColor, StrokeWidth: 1},
		},
		chart.ContinuousSeries{
			Name:    "Zero rate",
			XValues: []float64{0, duration},
			YValues: []float64{0, 0},
			YAxis:   chart.YAxisSecondary,
			Style:   chart.Style{StrokeColor: guideColor, StrokeWidth: 1, StrokeDashArray: []float64{4, 4}},
		},
		chart.ContinuousSeries{
			Name:    "Peak",
			XValues: []float64{s.PeakTimeOffset, s.PeakTimeOffset},
			YValues: []float64{-deepest * 1.05, 0},
			Style:   chart.Style{StrokeColor: guideColor, StrokeWidth: 1},
		},
	}
	if len(s.Alarms) > 0 {
		xs := make([]float64, len(s.Alarms))
		ys := make([]float64, len(s.Alarms))
		for i, m := range s.Alarms {
			xs[i] = m.Time
			ys[i] = m.Depth
		}
		series = append(series, chart.ContinuousSeries{
			Name:    "Alarm",
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(alarmColor),
		})
	}

	title := opts.Title
	if title == "" {
		title = Title(s)
	}
	ch := chart.Chart{
		Title:      title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:           "Time (s)",
			Range:          &chart.ContinuousRange{Min: 0, Max: duration},
			ValueFormatter: secondsFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Depth (m)",
			Range:          &chart.ContinuousRange{Min: -deepest * 1.05, Max: 0},
			ValueFormatter: depthFormatter,
		},
		YAxisSecondary: chart.YAxis{
			Name:  "Rate (m/s)",
			Range: &chart.ContinuousRange{Min: -rateLimit, Max: rateLimit},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch
}

// pointStyle draws markers without a connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 0,
		StrokeColor: drawing.ColorTransparent,
		DotWidth:    5,
		DotColor:    col,
	}
}

func secondsFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.0f", f)
	}
	return ""
}

// depthFormatter labels the downward axis with positive metres.
func depthFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.0f", math.Abs(f))
	}
	return ""
}
