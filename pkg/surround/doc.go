// Package surround coordinates sequential data-processing pipelines. An
// Assembler composes a Validator, pre-filters, an Estimator, post-filters, an
// optional Visualiser and an optional Finaliser, and drives them in strict
// order over a single mutable State carrier per run. It decouples
// orchestration from user-supplied stage logic via small generic stage
// contracts.
//
// Stage failures are contained: they are logged, recorded on the carrier, and
// never propagate past Run. The finaliser executes at the end of every run
// regardless of earlier outcomes.
package surround
