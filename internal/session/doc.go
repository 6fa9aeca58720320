// Package session turns a decoded FIT activity into the dive.Session the
// extraction pipeline consumes.
//
// Depth records are segmented into dives: a dive starts at the last surface
// sample before the depth crosses the surface threshold and ends at the first
// surface sample after it. Excursions shorter than the minimum duration are
// dropped. Alarm events raised by the device are attached to the first sample
// at or after the event time.
package session
