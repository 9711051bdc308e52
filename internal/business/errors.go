package business

import "errors"

var (
	// ErrEmptyFrequencies is returned by Overlap when one of the mappings has no occurrences.
	ErrEmptyFrequencies = errors.New("frequency mapping has no occurrences")

	// ErrUnknownMetric is returned when a metric name is not registered
	ErrUnknownMetric = errors.New("unknown similarity metric")

	ErrUnknownPolicy  = errors.New("unknown empty level policy")
	ErrInvalidWeights = errors.New("invalid n-gram weights")
)
