// Package dive models a single freediving excursion and derives the series a
// chart needs from it.
//
// A Dive is supplied by a decoder through the capability interfaces declared
// here (Decoder, Session, Dive), so this package never depends on how a FIT
// file is parsed. Extract walks a finished dive's timeline once and returns a
// Series whose time, depth, and rate slices are index-aligned by
// construction, along with alarm markers and the peak scalars. Summarize
// reduces a Series to the per-dive numbers shown in listings and stored in the
// catalog.
package dive
