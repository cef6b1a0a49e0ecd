// Package workflow implements the Workflow Orchestrator of spec §4.7:
// concurrent fan-out across engines, partial-success semantics, and
// cross-engine synthesis (themes/alignments/tensions).
package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/R3E-Network/consciousness-core/internal/apierrors"
	"github.com/R3E-Network/consciousness-core/internal/apitypes"
	"github.com/R3E-Network/consciousness-core/internal/calculation"
	"github.com/R3E-Network/consciousness-core/internal/logger"
)

// Orchestrator dispatches one call per requested engine concurrently,
// awaits all of them, and synthesizes their results (spec §4.7). Each
// dispatched call goes through the Calculation Orchestrator (spec.md
// component #7), so gating, fingerprinting, and cache cascade behavior are
// identical whether an engine is invoked standalone or as part of a
// workflow.
type Orchestrator struct {
	calc *calculation.Orchestrator
	log  *logger.Logger
}

// New builds an Orchestrator over a Calculation Orchestrator.
func New(calc *calculation.Orchestrator, log *logger.Logger) *Orchestrator {
	return &Orchestrator{calc: calc, log: log}
}

type engineResult struct {
	id       string
	output   apitypes.EngineOutput
	err      error
	duration time.Duration
}

// Run executes every engine id in engineIDs concurrently against input
// (with EngineID overridden per call), collects successes and failures
// into a Workflow Envelope, and synthesizes themes/alignments/tensions
// (spec §4.7). It fails only if every engine call fails.
func (o *Orchestrator) Run(ctx context.Context, engineIDs []string, input apitypes.EngineInput) (*apitypes.WorkflowEnvelope, error) {
	start := time.Now()
	workflowID := uuid.NewString()

	results := make(chan engineResult, len(engineIDs))
	var wg sync.WaitGroup

	for _, id := range engineIDs {
		wg.Add(1)
		go func(engineID string) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results <- engineResult{id: engineID, err: ctx.Err()}
				return
			default:
			}

			callStart := time.Now()
			callInput := input
			callInput.EngineID = engineID

			output, err := o.calc.Calculate(ctx, callInput)
			results <- engineResult{id: engineID, output: output, err: err, duration: time.Since(callStart)}
		}(id)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	engines := make(map[string]interface{}, len(engineIDs))
	keywordsByEngine := make(map[string][]string, len(engineIDs))
	perEngineMs := make(map[string]float64, len(engineIDs))
	successCount := 0
	var merr *multierror.Error

	for res := range results {
		perEngineMs[res.id] = res.duration.Seconds() * 1000
		if res.err != nil {
			merr = multierror.Append(merr, res.err)
			engines[res.id] = toEngineError(res.err)
			continue
		}
		successCount++
		engines[res.id] = res.output
		if e, err := o.calc.Registry().Get(res.id); err == nil {
			keywordsByEngine[res.id] = e.Keywords(res.output)
		}
	}

	if successCount == 0 && len(engineIDs) > 0 {
		return nil, apierrors.Wrap(apierrors.CalculationError, "workflow: all engines failed", merr)
	}

	return &apitypes.WorkflowEnvelope{
		WorkflowID: workflowID,
		Engines:    engines,
		Synthesis:  Synthesize(keywordsByEngine),
		Timing: apitypes.Timing{
			TotalMs:   time.Since(start).Seconds() * 1000,
			PerEngine: perEngineMs,
		},
	}, nil
}

func toEngineError(err error) apitypes.EngineError {
	if svcErr, ok := err.(*apierrors.Error); ok {
		env := svcErr.ToEnvelope()
		return apitypes.EngineError{
			ErrorKind:    env.ErrorKind,
			ErrorMessage: env.ErrorMessage,
			ErrorDetails: env.ErrorDetails,
		}
	}
	return apitypes.EngineError{
		ErrorKind:    string(apierrors.InternalError),
		ErrorMessage: err.Error(),
	}
}
