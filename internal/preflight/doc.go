// Package preflight provides readiness checks for the filesystem paths
// divegraph writes to.
//
// The CLI "divegraph status" command runs RunAll and prints one line per
// check. Import and graph commands do not call it; a failing path surfaces
// there as an ordinary error.
package preflight
