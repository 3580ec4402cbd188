package nn

import "math"

// Activation is tanh shifted and scaled onto (0, 1).
func Activation(x float64) float64 {
	return 0.5 * (math.Tanh(x) + 1)
}

// ActivationDerivative is the derivative of Activation expressed through the
// activation's own output y.
func ActivationDerivative(y float64) float64 {
	return 2.0 * y * (1.0 - y)
}
