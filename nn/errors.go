package nn

import "github.com/pkg/errors"

// Precondition failures returned by Network methods. Returned errors wrap one
// of these; test with errors.Is or errors.Cause.
var (
	ErrEmptyTopology   = errors.New("network needs at least one layer")
	ErrInvalidTopology = errors.New("layer sizes must be positive")
	ErrShapeMismatch   = errors.New("vector length does not match network topology")
	ErrLayerIndex      = errors.New("layer index out of range")
	ErrLearningRate    = errors.New("learning rate must be in (0, 1]")
)
