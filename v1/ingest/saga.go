package ingest

import (
	"context"
	"fmt"

	"github.com/Aleph-Alpha/catalog-ingest/v1/logger"
)

// Step is one forward action of a run and the action that undoes it.
type Step struct {
	Name string

	// Reason is reported when Forward fails.
	Reason string

	Forward func(ctx context.Context) error

	// Compensate is optional. It runs when this step fails, to undo partial
	// effects, and when a later step fails.
	Compensate func(ctx context.Context) error
}

// StepError reports which step failed and why.
type StepError struct {
	Step   string
	Reason string
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s failed: %s: %v", e.Step, e.Reason, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// runSaga executes steps in order. When one fails, its own compensation
// runs first, then those of the completed steps in reverse order.
// Compensation failures are logged and do not stop the rollback.
func runSaga(ctx context.Context, log logger.Logger, steps []Step) error {
	for i, step := range steps {
		err := step.Forward(ctx)
		if err == nil {
			continue
		}

		for j := i; j >= 0; j-- {
			if steps[j].Compensate == nil {
				continue
			}
			if cerr := steps[j].Compensate(ctx); cerr != nil {
				log.ErrorWithContext(ctx, "compensation failed", cerr, map[string]interface{}{
					"step":        steps[j].Name,
					"failed_step": step.Name,
					"critical":    true,
				})
			}
		}
		return &StepError{Step: step.Name, Reason: step.Reason, Err: err}
	}
	return nil
}
