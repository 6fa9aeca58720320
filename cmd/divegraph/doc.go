// Package main hosts the divegraph CLI entrypoint and command graph.
//
// The Cobra command tree turns a Garmin activity export into dive listings,
// charts, exported documents, and catalog history. Configuration resolution
// and logger setup live in commandContext so subcommands only parse flags,
// call into the internal packages, and format output.
package main
