// Package export serializes dive logs as JSON or YAML documents.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"divegraph/internal/dive"
	"divegraph/internal/divelog"
)

// Format is a document encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" or "yml" in any case.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("export format %q: expected json or yaml", value)
	}
}

// Document is the exported form of a divelog.Log.
type Document struct {
	Source string    `json:"source" yaml:"source"`
	SHA256 string    `json:"sha256" yaml:"sha256"`
	Label  string    `json:"label" yaml:"label"`
	Start  time.Time `json:"start" yaml:"start"`
	Dives  []Dive    `json:"dives" yaml:"dives"`
}

// Dive is one exported dive. Durations are in seconds and rates in m/s.
type Dive struct {
	Index           int          `json:"index" yaml:"index"`
	Start           time.Time    `json:"start" yaml:"start"`
	DurationSeconds float64      `json:"duration_seconds" yaml:"duration_seconds"`
	MaxDepth        float64      `json:"max_depth" yaml:"max_depth"`
	PeakRate        float64      `json:"peak_rate" yaml:"peak_rate"`
	DescentRate     float64      `json:"descent_rate" yaml:"descent_rate"`
	AscentRate      float64      `json:"ascent_rate" yaml:"ascent_rate"`
	Alarms          int          `json:"alarms" yaml:"alarms"`
	Series          *dive.Series `json:"series,omitempty" yaml:"series,omitempty"`
}

// Options selects what NewDocument includes.
type Options struct {
	// Indices limits the export to these dives; empty means all.
	Indices []int
	// SummaryOnly drops the per-sample series.
	SummaryOnly bool
}

// NewDocument converts log into a Document.
func NewDocument(log *divelog.Log, opts Options) (Document, error) {
	doc := Document{
		Source: log.Source,
		SHA256: log.SHA256,
		Label:  log.Label,
		Start:  log.Start.UTC(),
		Dives:  []Dive{},
	}

	entries := log.Entries
	if len(opts.Indices) > 0 {
		entries = make([]divelog.Entry, 0, len(opts.Indices))
		for _, idx := range opts.Indices {
			entry, err := log.Entry(idx)
			if err != nil {
				return Document{}, err
			}
			entries = append(entries, *entry)
		}
	}

	for _, entry := range entries {
		d := Dive{
			Index:           entry.Index,
			Start:           entry.Start.UTC(),
			DurationSeconds: entry.Duration.Seconds(),
			MaxDepth:        entry.Summary.MaxDepth,
			PeakRate:        entry.Summary.PeakRate,
			DescentRate:     entry.Summary.DescentRate,
			AscentRate:      entry.Summary.AscentRate,
			Alarms:          entry.Summary.Alarms,
		}
		if !opts.SummaryOnly {
			d.Series = entry.Series
		}
		doc.Dives = append(doc.Dives, d)
	}
	return doc, nil
}

// Write encodes v to w in the requested format.
func Write(w io.Writer, v any, format Format) error {
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("export format %q: expected json or yaml", format)
	}
}
