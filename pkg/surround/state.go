package surround

import (
	"time"

	"github.com/google/uuid"
)

// StageMetadatum records the elapsed wall time of one executed stage.
// The assembler appends exactly one record per executed filter and one per
// estimator call, in execution order.
type StageMetadatum struct {
	// StageName is the identifying name of the executed stage.
	StageName string
	// Duration is the elapsed wall time of the stage invocation.
	Duration time.Duration
}

// Carrier is the contract the assembler requires of the data object threaded
// through every stage. It is satisfied by embedding State in a user payload
// type; the unexported methods seal the interface so orchestration metadata
// is always managed by State itself.
//
// The carrier is borrowed by the assembler for the duration of Run: the
// caller creates it, every stage mutates it in sequence, and the caller
// inspects it afterwards.
type Carrier interface {
	// Freeze forbids introducing new dynamic fields until Thaw is called.
	Freeze()
	// Thaw lifts the restriction imposed by Freeze.
	Thaw()
	// Frozen reports whether the carrier is currently frozen.
	Frozen() bool

	// AddError appends a stage-reported error record. A non-empty error list
	// short-circuits the remainder of the current filter batch.
	AddError(err error)
	// Errors returns the stage-reported error records in insertion order.
	Errors() []error
	// ClearErrors discards all stage-reported error records.
	ClearErrors()

	// Failures returns the stage failures contained by the assembler during
	// the last runs, in occurrence order.
	Failures() []*StageError

	// RecordStage appends a stage timing record.
	RecordStage(name string, d time.Duration)
	// StageMetadata returns the stage timing records in execution order.
	StageMetadata() []StageMetadatum

	// SetExecutionTime records the wall time of the most recent filter batch.
	SetExecutionTime(d time.Duration)
	// ExecutionTime returns the wall time of the most recent filter batch.
	ExecutionTime() time.Duration

	// RunID returns the identifier stamped by the assembler at run start.
	RunID() uuid.UUID

	recordFailure(e *StageError)
	setRunID(id uuid.UUID)
}

// State is the mutable data carrier threaded through every pipeline stage.
// User pipelines embed it in their own payload struct:
//
//	type TextState struct {
//		surround.State
//		Text string
//	}
//
// Compiled-in payload fields are always writable. Additional dynamic fields
// go through Set/Get and are subject to the freeze/thaw discipline: while the
// carrier is frozen (during a filter batch), introducing a new dynamic field
// fails with a FrozenStateError, while existing fields remain mutable.
// Freezing exists to stop filters from silently introducing undeclared state
// during the most error-prone phase of a run.
type State struct {
	frozen        bool
	fields        map[string]any
	errors        []error
	failures      []*StageError
	stageMetadata []StageMetadatum
	executionTime time.Duration
	runID         uuid.UUID
}

// Freeze forbids introducing new dynamic fields until Thaw is called.
func (s *State) Freeze() { s.frozen = true }

// Thaw lifts the restriction imposed by Freeze.
func (s *State) Thaw() { s.frozen = false }

// Frozen reports whether the carrier is currently frozen.
func (s *State) Frozen() bool { return s.frozen }

// Set writes a dynamic field. Introducing a new field while the carrier is
// frozen fails with a FrozenStateError; updating an existing field succeeds
// regardless of freeze state.
func (s *State) Set(name string, value any) error {
	if _, exists := s.fields[name]; !exists && s.frozen {
		return FrozenStateError{Field: name}
	}
	if s.fields == nil {
		s.fields = map[string]any{}
	}
	s.fields[name] = value
	return nil
}

// Get returns the dynamic field with the given name and whether it exists.
func (s *State) Get(name string) (any, bool) {
	v, ok := s.fields[name]
	return v, ok
}

// AddError appends a stage-reported error record. Stages use this to signal
// soft failures that stop the current filter batch without aborting the rest
// of the pipeline.
func (s *State) AddError(err error) {
	s.errors = append(s.errors, err)
}

// Errors returns the stage-reported error records in insertion order.
func (s *State) Errors() []error { return s.errors }

// ClearErrors discards all stage-reported error records.
func (s *State) ClearErrors() { s.errors = nil }

// Failures returns the stage failures contained by the assembler.
func (s *State) Failures() []*StageError { return s.failures }

func (s *State) recordFailure(e *StageError) {
	s.failures = append(s.failures, e)
}

// RecordStage appends a stage timing record.
func (s *State) RecordStage(name string, d time.Duration) {
	s.stageMetadata = append(s.stageMetadata, StageMetadatum{StageName: name, Duration: d})
}

// StageMetadata returns the stage timing records in execution order.
func (s *State) StageMetadata() []StageMetadatum { return s.stageMetadata }

// SetExecutionTime records the wall time of the most recent filter batch.
// Pre- and post-filter batches overwrite rather than accumulate.
func (s *State) SetExecutionTime(d time.Duration) { s.executionTime = d }

// ExecutionTime returns the wall time of the most recent filter batch.
func (s *State) ExecutionTime() time.Duration { return s.executionTime }

// RunID returns the identifier stamped by the assembler at run start.
func (s *State) RunID() uuid.UUID { return s.runID }

func (s *State) setRunID(id uuid.UUID) { s.runID = id }
