package domain

import "fmt"

// DiagnosticKind classifies a diagnostic.
type DiagnosticKind string

const (
	// KindEncodingFailure: no configured encoding decoded the input.
	KindEncodingFailure DiagnosticKind = "encoding_failure"

	// KindStructuralAnchor: no document number and no item table header.
	KindStructuralAnchor DiagnosticKind = "structural_anchor_missing"

	// KindPartial: optional or key fields were left unset.
	KindPartial DiagnosticKind = "partial_extraction"

	// KindMismatch: financial fields disagree arithmetically.
	KindMismatch DiagnosticKind = "reconciliation_mismatch"

	// KindStageFailure: a stage aborted and its fields were left empty.
	KindStageFailure DiagnosticKind = "stage_failure"
)

// Diagnostic records something the engine noticed but did not treat as fatal.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Stage   string         `json:"stage,omitempty"`
	Message string         `json:"message"`
}

// String renders the diagnostic as "kind: message".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

// NewDiagnostic formats a diagnostic message.
func NewDiagnostic(kind DiagnosticKind, stage, format string, args ...any) Diagnostic {
	return Diagnostic{Kind: kind, Stage: stage, Message: fmt.Sprintf(format, args...)}
}
