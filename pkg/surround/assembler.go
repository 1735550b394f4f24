package surround

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/agbru/surround/internal/format"
	"github.com/agbru/surround/internal/logging"
	"github.com/agbru/surround/pkg/config"
)

// Assembler composes and executes a pipeline over carriers of type S.
//
// A run passes the carrier through the stages in strict order:
//
//	Validator -> pre-Filters -> Estimator -> post-Filters -> Visualiser -> Finaliser
//
// with the estimator branching between Estimate (predict mode) and Fit
// (training mode), the visualiser gated on training or batch mode, and the
// finaliser guaranteed to execute regardless of earlier outcomes.
//
// Composition is finished before the first run via the setters and Init;
// stages are never replaced mid-run. Runs are strictly sequential: concurrent
// Run calls on one Assembler are not supported and callers must serialize
// them.
type Assembler[S Carrier] struct {
	name        string
	cfg         *config.Config
	validator   Validator[S]
	estimator   Estimator[S]
	preFilters  []Filter[S]
	postFilters []Filter[S]
	visualiser  Visualiser[S]
	finaliser   Filter[S]
	batchMode   bool

	log     logging.Logger
	metrics *Metrics
}

// New creates an Assembler with the given name, validator, estimator and
// configuration. The validator is required; the estimator and configuration
// may be supplied later via SetEstimator and SetConfig but must be in place
// before Init and Run.
func New[S Carrier](name string, validator Validator[S], estimator Estimator[S], cfg *config.Config) (*Assembler[S], error) {
	if validator == nil {
		return nil, NewCompositionError("a validator is required to run an assembler")
	}
	return &Assembler[S]{
		name:      name,
		validator: validator,
		estimator: estimator,
		cfg:       cfg,
		log:       logging.NewDefaultLogger(),
	}, nil
}

// Name returns the assembler's name.
func (a *Assembler[S]) Name() string { return a.name }

// SetConfig sets the configuration used during pipeline execution.
// Must be called before Init.
func (a *Assembler[S]) SetConfig(cfg *config.Config) error {
	if cfg == nil {
		return NewCompositionError("config must not be nil")
	}
	a.cfg = cfg
	return nil
}

// SetEstimator sets the estimator and the ordered pre- and post-filter lists.
// Must be called before Init. A nil estimator or a nil filter element is a
// composition error.
func (a *Assembler[S]) SetEstimator(estimator Estimator[S], preFilters, postFilters []Filter[S]) error {
	if estimator == nil {
		return NewCompositionError("estimator must not be nil")
	}
	for i, f := range preFilters {
		if f == nil {
			return NewCompositionError("pre-filter %d must not be nil", i)
		}
	}
	for i, f := range postFilters {
		if f == nil {
			return NewCompositionError("post-filter %d must not be nil", i)
		}
	}
	a.estimator = estimator
	a.preFilters = preFilters
	a.postFilters = postFilters
	return nil
}

// SetVisualiser sets the visualiser executed after all other stages during
// training and batch-predict runs.
func (a *Assembler[S]) SetVisualiser(visualiser Visualiser[S]) error {
	if visualiser == nil {
		return NewCompositionError("visualiser must not be nil")
	}
	a.visualiser = visualiser
	return nil
}

// SetFinaliser sets the stage executed at the end of every run, no matter how
// the run went.
func (a *Assembler[S]) SetFinaliser(finaliser Filter[S]) error {
	if finaliser == nil {
		return NewCompositionError("finaliser must not be nil")
	}
	a.finaliser = finaliser
	return nil
}

// SetLogger replaces the assembler's log sink. A nil logger disables logging.
func (a *Assembler[S]) SetLogger(log logging.Logger) {
	if log == nil {
		a.log = logging.NopLogger{}
		return
	}
	a.log = log
}

// SetMetrics attaches optional prometheus instrumentation. A nil Metrics
// disables instrumentation.
func (a *Assembler[S]) SetMetrics(m *Metrics) { a.metrics = m }

// Init initialises every pre-filter, the estimator, every post-filter and the
// finaliser, in that order, and records the batch-mode flag used to decide
// whether the visualiser runs after predict runs.
//
// Initialisation failures are logged and swallowed; the first failure aborts
// the remaining initialisers but the assembler stays usable. A broken stage
// therefore surfaces in the logs here and again when Run executes it.
func (a *Assembler[S]) Init(batchMode bool) {
	a.batchMode = batchMode
	if err := a.initStages(); err != nil {
		a.log.Error("failed initialising assembler", err, logging.String("assembler", a.name))
	}
}

func (a *Assembler[S]) initStages() error {
	for _, f := range a.preFilters {
		if err := a.guard(func() error { return f.Initialise(a.cfg) }); err != nil {
			return &StageError{Stage: f.Name(), Cause: err}
		}
	}

	if a.estimator == nil {
		return NewCompositionError("estimator is not set")
	}
	if err := a.guard(func() error { return a.estimator.Initialise(a.cfg) }); err != nil {
		return &StageError{Stage: a.estimator.Name(), Cause: err}
	}

	for _, f := range a.postFilters {
		if err := a.guard(func() error { return f.Initialise(a.cfg) }); err != nil {
			return &StageError{Stage: f.Name(), Cause: err}
		}
	}

	if a.finaliser != nil {
		if err := a.guard(func() error { return a.finaliser.Initialise(a.cfg) }); err != nil {
			return &StageError{Stage: a.finaliser.Name(), Cause: err}
		}
	}
	return nil
}

// Run executes the pipeline over the given carrier. When isTraining is true
// the estimator's Fit operation is used instead of Estimate, and the
// visualiser (if set) runs after the other stages; batch mode enables the
// visualiser for predict runs as well.
//
// Run never reports stage failures through its return value: every failure
// inside the pipeline body is contained, logged, and recorded on the carrier,
// and the finaliser still executes. The only error Run returns is the
// precondition failure for a nil carrier, raised before any stage executes.
// Results are observed through the carrier's fields, Errors, Failures and
// StageMetadata records.
func (a *Assembler[S]) Run(state S, isTraining bool) error {
	if isNilCarrier(state) {
		return NewCompositionError("a state carrier is required to run assembler %q", a.name)
	}

	runID := uuid.New()
	state.setRunID(runID)
	mode := runMode(isTraining, a.batchMode)
	a.log.Info("starting assembler",
		logging.String("assembler", a.name),
		logging.String("run_id", runID.String()),
		logging.String("mode", mode))
	a.metrics.incRun(a.name, mode)
	start := time.Now()

	if err := a.guard(func() error { return a.validator.Validate(state, a.cfg) }); err != nil {
		// A failed validation aborts the pipeline body; only the finaliser
		// still runs.
		a.contain(state, "validate", err)
	} else {
		a.runPipeline(state, isTraining)
	}

	if a.finaliser != nil {
		if err := a.guard(func() error { return a.finaliser.Operate(state, a.cfg) }); err != nil {
			a.contain(state, a.finaliser.Name(), err)
		}
	}

	a.log.Info("assembler finished",
		logging.String("assembler", a.name),
		logging.String("run_id", runID.String()),
		logging.String("took", format.StageDuration(time.Since(start))),
		logging.Int("failures", len(state.Failures())))
	return nil
}

// runPipeline executes the pipeline body: pre-filters, the estimator, then
// post-filters and the conditional visualiser. An estimator failure aborts
// the post-filter and visualiser steps, mirroring the abort-to-finalise
// behaviour of a failed validation.
func (a *Assembler[S]) runPipeline(state S, isTraining bool) {
	if len(a.preFilters) > 0 {
		a.executeFilters("pre", a.preFilters, state)
	}

	if a.estimator == nil {
		a.contain(state, "estimator", errors.New("estimator is not set"))
		return
	}
	if err := a.executeEstimator(state, isTraining); err != nil {
		return
	}

	if len(a.postFilters) > 0 {
		a.executeFilters("post", a.postFilters, state)
	}

	if (isTraining || a.batchMode) && a.visualiser != nil {
		if err := a.guard(func() error { return a.visualiser.Visualise(state, a.cfg) }); err != nil {
			a.contain(state, "visualise", err)
		}
	}
}

// executeFilters runs one filter batch under a freeze/thaw scope. The carrier
// is frozen before the first filter and thawed when the batch ends, early
// stop or not. A filter failure or a non-empty carrier error list stops the
// batch; the batch's total wall time overwrites the carrier's execution time.
func (a *Assembler[S]) executeFilters(batch string, filters []Filter[S], state S) {
	state.Freeze()
	defer state.Thaw()
	start := time.Now()

	for _, f := range filters {
		if err := a.executeFilter(f, state); err != nil {
			a.contain(state, f.Name(), err)
			break
		}
		if errs := state.Errors(); len(errs) > 0 {
			a.log.Error("errors reported during filter batch", errors.Join(errs...),
				logging.String("assembler", a.name),
				logging.String("batch", batch),
				logging.Int("errors", len(errs)))
			break
		}
	}

	elapsed := time.Since(start)
	state.SetExecutionTime(elapsed)
	a.log.Info("filter batch complete",
		logging.String("assembler", a.name),
		logging.String("batch", batch),
		logging.String("took", format.StageDuration(elapsed)))
}

// executeFilter runs a single filter, dumping its output when enabled and
// recording its elapsed time. Failed filters get no timing record.
func (a *Assembler[S]) executeFilter(f Filter[S], state S) error {
	start := time.Now()
	if err := a.guard(func() error { return f.Operate(state, a.cfg) }); err != nil {
		return err
	}
	if err := a.dumpOutput(f, state); err != nil {
		return err
	}

	elapsed := time.Since(start)
	state.RecordStage(f.Name(), elapsed)
	a.metrics.observeStage(a.name, f.Name(), elapsed)
	a.log.Info("filter complete",
		logging.String("stage", f.Name()),
		logging.String("took", format.StageDuration(elapsed)))
	return nil
}

// executeEstimator invokes exactly one of Estimate or Fit depending on the
// training flag, with the same timing, dumping and metadata treatment as a
// filter. No carrier-error short-circuit check follows: post-filters run next
// regardless of error records the estimator left on the carrier.
func (a *Assembler[S]) executeEstimator(state S, isTraining bool) error {
	op, label := a.estimator.Estimate, "estimate"
	if isTraining {
		op, label = a.estimator.Fit, "fit"
	}

	start := time.Now()
	if err := a.guard(func() error { return op(state, a.cfg) }); err != nil {
		a.contain(state, a.estimator.Name(), err)
		return err
	}
	if err := a.dumpOutput(a.estimator, state); err != nil {
		a.contain(state, a.estimator.Name(), err)
		return err
	}

	elapsed := time.Since(start)
	state.RecordStage(a.estimator.Name(), elapsed)
	a.metrics.observeStage(a.name, a.estimator.Name(), elapsed)
	a.log.Info("estimator complete",
		logging.String("stage", a.estimator.Name()),
		logging.String("op", label),
		logging.String("took", format.StageDuration(elapsed)))
	return nil
}

// dumpOutput calls the stage's DumpOutput when output dumping is enabled and
// the stage implements the optional capability.
func (a *Assembler[S]) dumpOutput(stage any, state S) error {
	if a.cfg == nil || !a.cfg.DumpEnabled() {
		return nil
	}
	dumper, ok := stage.(OutputDumper[S])
	if !ok {
		return nil
	}
	return a.guard(func() error { return dumper.DumpOutput(state, a.cfg) })
}

// contain records a contained stage failure on the carrier, the metrics, and
// the log sink.
func (a *Assembler[S]) contain(state S, stage string, err error) {
	state.recordFailure(&StageError{Stage: stage, Cause: err})
	a.metrics.incFailure(a.name, stage)
	a.log.Error("stage failure contained", err,
		logging.String("assembler", a.name),
		logging.String("stage", stage))
}

// guard invokes a stage operation, converting panics into errors so that a
// misbehaving stage degrades the run instead of crashing the caller.
func (a *Assembler[S]) guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("stage panic: %v", r)
		}
	}()
	return fn()
}

// runMode names the run mode for logs and metrics labels.
func runMode(isTraining, batchMode bool) string {
	switch {
	case isTraining:
		return "train"
	case batchMode:
		return "batch"
	default:
		return "predict"
	}
}

// isNilCarrier reports whether the carrier is nil, either as an interface or
// as a typed nil pointer.
func isNilCarrier(c Carrier) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
