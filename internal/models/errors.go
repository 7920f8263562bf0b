package models

import "errors"

// Custom errors
var (
	// ErrNotTrained indicates inference was requested before training
	ErrNotTrained = errors.New("meta-learner not trained")

	// ErrInsufficientData indicates an empty training batch or an empty
	// stacked record with no base-model signal
	ErrInsufficientData = errors.New("insufficient data")

	// ErrDegenerateLabels indicates labels contain fewer than 2 distinct classes
	ErrDegenerateLabels = errors.New("labels contain fewer than 2 distinct classes")

	// ErrAdapterNotReady indicates a base model is not trained yet
	ErrAdapterNotReady = errors.New("adapter not ready")

	// ErrDegenerateDistribution indicates a probability vector could not be normalized
	ErrDegenerateDistribution = errors.New("degenerate probability distribution")

	// ErrNoOddsData indicates no bookmaker quotes were available
	ErrNoOddsData = errors.New("no odds data available")

	// ErrNotFound indicates a record was not found
	ErrNotFound = errors.New("record not found")
)
