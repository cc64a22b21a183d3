// Package mimosa26interp decodes the raw 32-bit-word readout stream of a
// pixel-tracker comprising six Mimosa26 (M26) monolithic active pixel
// sensors and one Trigger Logic Unit (TLU) into a flat sequence of typed
// hit records.
//
// An Interpreter is a single streaming component with persistent state,
// invoked repeatedly on successive chunks of the same logical word
// stream via Interpret. It owns six independent per-plane frame decoders
// (package frame), a TLU trigger-reconstruction step (package tlu), and
// a per-plane error-status accumulator (package status); none of this
// state is shared across Interpreter instances.
//
// This package does not store raw or decoded data, build physics events
// out of hits, align triggers to an external time reference, or expose
// any command-line or file-based configuration surface — all of that is
// left to callers.
package mimosa26interp
