// Package logging provides the structured log sink used by the pipeline
// assembler. It abstracts the underlying logging implementation behind a small
// interface so that per-stage durations, contained stage failures, and batch
// error reports are emitted consistently regardless of backend.
package logging
