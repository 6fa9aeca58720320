// Package container locates the FIT activity file inside a user-supplied
// input.
//
// An input is either a bare .fit file or a Garmin .zip export. Classify
// decides which, and Resolve turns the classified Input into a Reference
// whose Path names the telemetry file. Archived telemetry is extracted into a
// fresh temporary directory per call; the Reference owns that directory and
// Close removes it. With wraps the acquire, use, release sequence so callers
// cannot leak the directory on an error path.
package container
