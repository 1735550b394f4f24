package surround

import "github.com/agbru/surround/pkg/config"

// Validator checks a carrier for malformed input before the pipeline body
// runs. A non-nil error aborts the pipeline body; only the finaliser still
// executes.
type Validator[S Carrier] interface {
	// Validate returns a non-nil error when the input carrier is malformed.
	Validate(state S, cfg *config.Config) error
}

// Filter is a pipeline stage that transforms the carrier in place. Filters
// run in list order inside a pre- or post-filter batch; the finaliser is also
// a Filter.
type Filter[S Carrier] interface {
	// Name identifies the stage in timing records, logs, and metrics.
	Name() string
	// Initialise is called once, before any run, with the pipeline
	// configuration.
	Initialise(cfg *config.Config) error
	// Operate applies the filter to the carrier.
	Operate(state S, cfg *config.Config) error
}

// OutputDumper is an optional capability of filters and estimators. When the
// configuration enables stage output dumping, the assembler calls DumpOutput
// after each successful stage invocation. Stages that do not implement it are
// simply skipped.
type OutputDumper[S Carrier] interface {
	DumpOutput(state S, cfg *config.Config) error
}

// Estimator is the central stage of a pipeline: Filter-shaped, plus the two
// mode-dependent operations. Exactly one of Estimate or Fit is invoked per
// run, never both.
type Estimator[S Carrier] interface {
	// Name identifies the stage in timing records, logs, and metrics.
	Name() string
	// Initialise is called once, before any run, with the pipeline
	// configuration.
	Initialise(cfg *config.Config) error
	// Estimate runs inference on the carrier (predict and batch-predict
	// modes).
	Estimate(state S, cfg *config.Config) error
	// Fit trains on the carrier (training mode).
	Fit(state S, cfg *config.Config) error
}

// Visualiser renders results after all other stages in training or batch
// mode.
type Visualiser[S Carrier] interface {
	Visualise(state S, cfg *config.Config) error
}

// filterFunc adapts a plain function to the Filter contract with a no-op
// Initialise.
type filterFunc[S Carrier] struct {
	name string
	op   func(state S, cfg *config.Config) error
}

// FilterFunc wraps a function as a named Filter. This allows passing a
// function directly where a Filter is expected, e.g. as a finaliser.
func FilterFunc[S Carrier](name string, op func(state S, cfg *config.Config) error) Filter[S] {
	return &filterFunc[S]{name: name, op: op}
}

// Name returns the name given to FilterFunc.
func (f *filterFunc[S]) Name() string { return f.name }

// Initialise is a no-op.
func (f *filterFunc[S]) Initialise(*config.Config) error { return nil }

// Operate calls the underlying function.
func (f *filterFunc[S]) Operate(state S, cfg *config.Config) error { return f.op(state, cfg) }
