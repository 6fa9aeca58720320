// Package render draws a dive.Series as a PNG or SVG chart with go-chart.
//
// Depth is plotted downward against elapsed seconds on the primary axis and
// the vertical rate on a secondary axis spanning [-PeakRate, PeakRate]. Alarm
// markers, a zero-rate guide and a vertical line at the peak are overlaid.
package render
