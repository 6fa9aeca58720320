// Package divelog runs the extraction pipeline for one input: resolve the
// telemetry file, decode it into a session, finish each dive, and derive its
// series and summary. The temporary extraction directory is released before
// Load returns, whatever the outcome.
package divelog
