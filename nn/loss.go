package nn

import "gonum.org/v1/gonum/floats"

// SquaredError returns the sum of squared differences between outputs and
// targets. It panics if the lengths differ.
func SquaredError(outputs, targets []float64) float64 {
	diff := make([]float64, len(targets))
	floats.SubTo(diff, targets, outputs)
	return floats.Dot(diff, diff)
}
