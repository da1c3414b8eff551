package replay

import (
	"context"
	"errors"
	"fmt"

	"github.com/npillmayer/forest/forest"
)

// Report summarizes a replay.
type Report struct {
	Name   string           `json:"name,omitempty"`
	Steps  int              `json:"steps"`  // number of steps applied
	Deltas [][]forest.Delta `json:"deltas"` // one feed per begin/end pair
	Final  []forest.Delta   `json:"final"`  // state of the forest after the last step
	Forest *forest.Forest   `json:"-"`
}

// StepError reports the step at which a replay failed.
type StepError struct {
	Step int // 1-based
	Op   string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("replay: step %d (%s): %v", e.Step, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *StepError) Unwrap() error { return e.Err }

// ErrUnexpected is wrapped by step errors whose outcome did not match the
// step's expectation.
var ErrUnexpected = errors.New("unexpected outcome")

// Run replays script on a fresh forest. After every step the forest is
// validated; replay stops at the first step which fails unexpectedly or
// leaves the forest inconsistent. The report covers all steps applied
// so far, also in case of an error.
func Run(ctx context.Context, script *Script) (*Report, error) {
	logger := loggerFrom(ctx)
	f := forest.New(forest.Capacity(script.Capacity))
	rep := &Report{Name: script.Name, Forest: f}
	defer func() {
		if f.IsRecording() {
			rep.Deltas = append(rep.Deltas, f.EndRecord())
		}
		rep.Final = f.AsDeltas()
	}()
	if script.Name != "" {
		logger.Info("replaying", "script", script.Name, "steps", len(script.Steps))
	}
	for i, step := range script.Steps {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		err := apply(f, step, rep)
		want := expectations[step.Expect]
		switch {
		case want == nil && err != nil:
			return rep, &StepError{Step: i + 1, Op: step.String(), Err: err}
		case want != nil && !errors.Is(err, want):
			return rep, &StepError{Step: i + 1, Op: step.String(),
				Err: fmt.Errorf("%w: expected %v, got %v", ErrUnexpected, want, err)}
		case err != nil:
			logger.Debug("step failed as expected", "step", i+1, "op", step, "err", err)
		default:
			logger.Debug("step", "step", i+1, "op", step, "len", f.Len())
		}
		rep.Steps++
		if err := f.Validate(); err != nil {
			logger.Error("forest corrupted", "step", i+1, "op", step, "err", err)
			return rep, &StepError{Step: i + 1, Op: step.String(), Err: err}
		}
	}
	logger.Info("replay done", "steps", rep.Steps, "nodes", f.Len())
	return rep, nil
}

func apply(f *forest.Forest, step Step, rep *Report) error {
	switch step.Op {
	case OpInsert:
		return f.Insert(step.ID)
	case OpReparent:
		return f.Reparent(step.ID, *step.Parent)
	case OpReposition:
		return f.Reposition(step.ID, *step.Index)
	case OpRemove:
		return f.PromoteAndRemove(step.ID)
	case OpBegin:
		if f.IsRecording() {
			rep.Deltas = append(rep.Deltas, f.EndRecord())
		}
		f.BeginRecord()
	case OpEnd:
		if f.IsRecording() {
			rep.Deltas = append(rep.Deltas, f.EndRecord())
		}
	case OpWarm:
		f.WarmAncestry()
	}
	return nil
}
