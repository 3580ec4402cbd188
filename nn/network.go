// Package nn implements a small fully-connected feedforward network with
// single-example online learning.
//
// A Network is built from an input count and a list of layer sizes:
//
//	net, err := nn.New(256, []int{20, 10})
//	if err != nil {
//		return err
//	}
//	net.Randomize(1337)
//
// Parameters start at zero and must be randomized before use. The topology
// never changes after construction.
//
// A Network is not safe for concurrent use. ComputeOutput reuses scratch
// buffers owned by the network, so concurrent readers need their own Clone.
package nn

import (
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"glyphnet/prng"
)

// Network is a fully-connected multilayer perceptron with a fixed topology.
type Network struct {
	// weights[l] has one row per neuron and one column per input of layer l.
	weights []*mat.Dense
	biases  []*mat.VecDense

	maxLayerSize int

	// scratch buffers for ComputeOutput, both maxLayerSize long
	front, back []float64
}

// New allocates a network taking inputCount values and producing the outputs
// of the last entry of layerSizes. All weights and biases are zero.
func New(inputCount int, layerSizes []int) (*Network, error) {
	if len(layerSizes) == 0 {
		return nil, ErrEmptyTopology
	}
	if inputCount <= 0 {
		return nil, errors.Wrapf(ErrInvalidTopology, "input count %d", inputCount)
	}

	net := &Network{
		weights:      make([]*mat.Dense, len(layerSizes)),
		biases:       make([]*mat.VecDense, len(layerSizes)),
		maxLayerSize: inputCount,
	}

	prev := inputCount
	for i, size := range layerSizes {
		if size <= 0 {
			return nil, errors.Wrapf(ErrInvalidTopology, "layer %d has size %d", i, size)
		}
		net.weights[i] = mat.NewDense(size, prev, nil)
		net.biases[i] = mat.NewVecDense(size, nil)
		prev = size

		if size > net.maxLayerSize {
			net.maxLayerSize = size
		}
	}

	net.front = make([]float64, net.maxLayerSize)
	net.back = make([]float64, net.maxLayerSize)
	return net, nil
}

// Randomize fills every weight, then every bias, with quantized uniform draws
// from [-1, 1) seeded by seed. Weights are visited by layer, neuron and input;
// biases by layer and neuron.
func (net *Network) Randomize(seed uint64) {
	rng := prng.New(seed)
	for _, w := range net.weights {
		rows, _ := w.Dims()
		for n := 0; n < rows; n++ {
			row := w.RawRowView(n)
			for k := range row {
				row[k] = rng.NextFloat(-1, 1, prng.DefaultSteps)
			}
		}
	}
	for _, b := range net.biases {
		data := b.RawVector().Data
		for n := 0; n < b.Len(); n++ {
			data[n] = rng.NextFloat(-1, 1, prng.DefaultSteps)
		}
	}
}

// RandomizeFromClock randomizes with the current Unix time in seconds as the
// seed. A nil clock means time.Now. Calls within the same second produce the
// same parameters.
func (net *Network) RandomizeFromClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	net.Randomize(uint64(now().Unix()))
}

// ComputeOutputForLayer writes the activations of layer into outputs, reading
// the layer's inputs from inputs. inputs must hold at least the layer's input
// count and outputs at least its neuron count; extra entries are ignored.
// It depends only on the layer's own parameters.
func (net *Network) ComputeOutputForLayer(layer int, inputs, outputs []float64) error {
	if layer < 0 || layer >= len(net.weights) {
		return errors.Wrapf(ErrLayerIndex, "layer %d of %d", layer, len(net.weights))
	}
	rows, cols := net.weights[layer].Dims()
	if len(inputs) < cols {
		return errors.Wrapf(ErrShapeMismatch, "layer %d: got %d inputs, want at least %d", layer, len(inputs), cols)
	}
	if len(outputs) < rows {
		return errors.Wrapf(ErrShapeMismatch, "layer %d: output buffer holds %d values, want at least %d", layer, len(outputs), rows)
	}

	net.computeLayer(layer, inputs, outputs)
	return nil
}

func (net *Network) computeLayer(layer int, inputs, outputs []float64) {
	w := net.weights[layer]
	bias := net.biases[layer].RawVector().Data
	rows, _ := w.Dims()
	for n := 0; n < rows; n++ {
		row := w.RawRowView(n)
		sum := 0.0
		for k, weight := range row {
			sum += inputs[k] * weight
		}
		sum += bias[n]
		outputs[n] = Activation(sum)
	}
}

// ComputeOutput runs inputs through every layer and returns the last layer's
// activations. len(inputs) must equal InputCount.
func (net *Network) ComputeOutput(inputs []float64) ([]float64, error) {
	if len(inputs) != net.InputCount() {
		return nil, errors.Wrapf(ErrShapeMismatch, "got %d inputs, want %d", len(inputs), net.InputCount())
	}

	in, out := net.front, net.back
	copy(in, inputs)
	for layer := range net.weights {
		net.computeLayer(layer, in, out)
		// this layer's outputs feed the next one
		in, out = out, in
	}

	result := make([]float64, net.OutputCount())
	copy(result, in)
	return result, nil
}

// Learn performs one step of backpropagation towards targets for a single
// example, updating weights and biases in place. rate must be in (0, 1].
// Nothing is modified when a precondition fails.
func (net *Network) Learn(inputs, targets []float64, rate float64) error {
	if !(rate > 0 && rate <= 1) {
		return errors.Wrapf(ErrLearningRate, "got %v", rate)
	}
	if len(inputs) != net.InputCount() {
		return errors.Wrapf(ErrShapeMismatch, "got %d inputs, want %d", len(inputs), net.InputCount())
	}
	if len(targets) != net.OutputCount() {
		return errors.Wrapf(ErrShapeMismatch, "got %d targets, want %d", len(targets), net.OutputCount())
	}

	// Forward pass, keeping every layer's outputs.
	outputs := make([][]float64, len(net.weights))
	in := inputs
	for layer, w := range net.weights {
		rows, _ := w.Dims()
		outputs[layer] = make([]float64, rows)
		net.computeLayer(layer, in, outputs[layer])
		in = outputs[layer]
	}

	errs, nextErrs := net.front, net.back
	last := outputs[len(outputs)-1]
	for i, target := range targets {
		errs[i] = target - last[i]
	}

	// Backward pass. The error of each layer's inputs is accumulated while
	// its weights are corrected.
	for layer := len(net.weights) - 1; layer >= 0; layer-- {
		in = inputs
		if layer > 0 {
			in = outputs[layer-1]
		}
		w := net.weights[layer]
		bias := net.biases[layer].RawVector().Data
		layerOutputs := outputs[layer]

		rows, cols := w.Dims()
		for k := 0; k < cols; k++ {
			nextErrs[k] = 0
		}
		for n := 0; n < rows; n++ {
			row := w.RawRowView(n)
			derivative := ActivationDerivative(layerOutputs[n])
			e := errs[n]
			for k := range row {
				// read the weight before correcting it
				nextErrs[k] += row[k] * e
				row[k] += rate * e * derivative * in[k]
			}
			bias[n] += rate * e * derivative
		}
		errs, nextErrs = nextErrs, errs
	}
	return nil
}

// Clone returns a deep copy with its own parameters and scratch buffers.
func (net *Network) Clone() *Network {
	c := &Network{
		weights:      make([]*mat.Dense, len(net.weights)),
		biases:       make([]*mat.VecDense, len(net.biases)),
		maxLayerSize: net.maxLayerSize,
		front:        make([]float64, net.maxLayerSize),
		back:         make([]float64, net.maxLayerSize),
	}
	for i := range net.weights {
		c.weights[i] = mat.DenseCopyOf(net.weights[i])
		c.biases[i] = mat.VecDenseCopyOf(net.biases[i])
	}
	return c
}

// Weights returns a copy of all weights indexed by layer, neuron and input.
func (net *Network) Weights() [][][]float64 {
	out := make([][][]float64, len(net.weights))
	for l, w := range net.weights {
		rows, _ := w.Dims()
		out[l] = make([][]float64, rows)
		for n := 0; n < rows; n++ {
			out[l][n] = append([]float64(nil), w.RawRowView(n)...)
		}
	}
	return out
}

// Biases returns a copy of all biases indexed by layer and neuron.
func (net *Network) Biases() [][]float64 {
	out := make([][]float64, len(net.biases))
	for l, b := range net.biases {
		out[l] = append([]float64(nil), b.RawVector().Data[:b.Len()]...)
	}
	return out
}

// LayerWeights returns the weight matrix of layer, one row per neuron. The
// matrix must not be modified.
func (net *Network) LayerWeights(layer int) mat.Matrix {
	return net.weights[layer]
}

// LayerBiases returns the bias vector of layer. It must not be modified.
func (net *Network) LayerBiases(layer int) mat.Vector {
	return net.biases[layer]
}

func (net *Network) MaxLayerSize() int { return net.maxLayerSize }

func (net *Network) LayerCount() int { return len(net.weights) }

// InputCount is the number of inputs of the first layer.
func (net *Network) InputCount() int {
	_, cols := net.weights[0].Dims()
	return cols
}

// OutputCount is the number of neurons of the last layer.
func (net *Network) OutputCount() int {
	rows, _ := net.weights[len(net.weights)-1].Dims()
	return rows
}

// LayerSizes returns the neuron count of every layer.
func (net *Network) LayerSizes() []int {
	sizes := make([]int, len(net.weights))
	for i, w := range net.weights {
		sizes[i], _ = w.Dims()
	}
	return sizes
}
