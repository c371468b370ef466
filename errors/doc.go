// Package errors provides structured error types for the bridge.
//
// Errors carry a Phase (where in processing the failure occurred) and a
// Kind (what category of failure it is), plus optional detail such as the
// offending identifier or Go type. This keeps contract violations
// self-describing:
//
//	[register] duplicate_identifier: identifier has already been added: 5
//	[dispatch] not_found: instance 65536 not found
//
// Two failure classes are deliberately distinguished across the bridge:
// contract violations (a bug in the calling layer) are reported with these
// structured errors, while calls racing a registry close are not errors at
// all: they return documented empty results and log a warning.
//
// Errors support errors.Is matching on (Phase, Kind) pairs and unwrap to
// their cause:
//
//	if errors.Is(err, &errors.Error{Phase: errors.PhaseRegister, Kind: errors.KindDuplicateIdentifier}) {
//	    // identifier reuse bug in the calling layer
//	}
package errors
