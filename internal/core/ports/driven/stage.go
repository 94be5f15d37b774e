package driven

import (
	"context"

	"github.com/pktechnic/erpdoc/internal/core/domain"
)

// Stage is one step of the extraction pipeline.
// Stages run in a fixed order over a shared per-document workspace
// (fields, items, reconcile, assemble).
type Stage interface {
	// Name returns the stage name for logging and diagnostics.
	Name() string

	// Apply reads and updates the workspace. An error aborts only this
	// stage; the pipeline records it and moves on.
	Apply(ctx context.Context, ex *domain.Extraction) error
}

// StagePipeline chains stages.
type StagePipeline interface {
	// Run applies every stage in order to the workspace.
	Run(ctx context.Context, ex *domain.Extraction) error
}
