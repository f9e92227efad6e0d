package app

import "errors"

// Typed errors for the pricing app layer.
var (
	// ErrInvalidPlan indicates plan configuration that cannot be priced.
	ErrInvalidPlan = errors.New("invalid plan")
	// ErrOrchestration wraps an unexpected failure recovered inside the pipeline.
	ErrOrchestration = errors.New("pricing orchestration failed")
)
