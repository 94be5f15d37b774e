// Package stages composes the extraction stages that run after
// tokenization: fields, items, reconcile and assemble.
package stages

import (
	"context"
	"fmt"

	"github.com/pktechnic/erpdoc/internal/core/domain"
	"github.com/pktechnic/erpdoc/internal/core/ports/driven"
	"github.com/pktechnic/erpdoc/internal/logger"
)

// Ensure Pipeline implements the interface.
var _ driven.StagePipeline = (*Pipeline)(nil)

// Pipeline chains stages and runs them in order over one Extraction.
type Pipeline struct {
	stages []driven.Stage
}

// NewPipeline creates a pipeline with the given stages.
// Stages are executed in the order provided.
func NewPipeline(stages ...driven.Stage) *Pipeline {
	return &Pipeline{
		stages: stages,
	}
}

// Run applies every stage to ex. A stage that errors or panics is
// recorded as a stage_failure diagnostic and the next stage still runs.
// Only a nil workspace or a cancelled context returns an error.
func (p *Pipeline) Run(ctx context.Context, ex *domain.Extraction) error {
	if ex == nil {
		return fmt.Errorf("extraction is nil")
	}

	for _, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("before stage %s: %w", stage.Name(), err)
		}
		if err := apply(ctx, stage, ex); err != nil {
			logger.Warn("stage %s failed: %v", stage.Name(), err)
			ex.Diagnose(domain.KindStageFailure, stage.Name(), "%v", err)
		}
	}
	return nil
}

func apply(ctx context.Context, stage driven.Stage, ex *domain.Extraction) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return stage.Apply(ctx, ex)
}

// Add appends a stage to the pipeline.
func (p *Pipeline) Add(stage driven.Stage) {
	p.stages = append(p.stages, stage)
}

// Len returns the number of stages in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.stages)
}

// Names returns the stage names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}
