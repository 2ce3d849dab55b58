// Package diag defines the diagnostic model shared by the lowering pipeline.
//
// A Diagnostic records a user-facing finding: a severity, a stable numeric
// Code, a message, the primary span and optionally the lowering unit it came
// from. Internal compiler errors are not diagnostics; they travel as Go errors
// (see mirror.InternalError) and abort the run.
//
// Producers emit through a Reporter so they are not coupled to storage. The
// driver hands each worker a UnitReporter wrapping a BagReporter; the Bag is
// safe for concurrent use and is sorted and deduplicated once all workers
// finish, which keeps output independent of scheduling.
//
// Package diag does no IO or colouring. The CLI renders diagnostics with
// FormatShort.
package diag
