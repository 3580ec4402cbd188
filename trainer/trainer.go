// Package trainer drives a network through single-example learning: it keeps
// the editable input and target vectors of an interactive session, runs
// epochs over a dataset and classifies inputs.
package trainer

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"glyphnet/dataset"
	"glyphnet/nn"
)

// DefaultRate is the learning rate a new session starts with.
const DefaultRate = 0.1

// Trainer owns the session state around one network. It is not safe for
// concurrent use.
type Trainer struct {
	net     *nn.Network
	rate    float64
	inputs  []float64
	targets []float64

	// Logf, if set, receives one line per finished epoch.
	Logf func(format string, args ...interface{})
}

// EpochResult summarizes one pass over a dataset.
type EpochResult struct {
	Epoch    int
	Loss     float64 // mean squared error after the pass
	Duration time.Duration
}

// Prediction is the most activated output of the network.
type Prediction struct {
	Index     int
	Certainty float64
	Outputs   []float64
}

// New binds a trainer to net. rate must be in (0, 1].
func New(net *nn.Network, rate float64) (*Trainer, error) {
	t := &Trainer{}
	if err := t.SetRate(rate); err != nil {
		return nil, err
	}
	t.Rebind(net)
	return t, nil
}

func (t *Trainer) Network() *nn.Network { return t.net }

func (t *Trainer) Rate() float64 { return t.rate }

// SetRate changes the learning rate used by Step and Epoch.
func (t *Trainer) SetRate(rate float64) error {
	if !(rate > 0 && rate <= 1) {
		return errors.Wrapf(nn.ErrLearningRate, "got %v", rate)
	}
	t.rate = rate
	return nil
}

// Rebind switches the trainer to net. The input and target vectors are
// resized to the new topology, keeping the values that still fit.
func (t *Trainer) Rebind(net *nn.Network) {
	t.net = net
	t.inputs = resize(t.inputs, net.InputCount())
	t.targets = resize(t.targets, net.OutputCount())
}

func resize(v []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, v)
	return out
}

// Inputs returns a copy of the current input vector.
func (t *Trainer) Inputs() []float64 { return append([]float64(nil), t.inputs...) }

// Targets returns a copy of the current target vector.
func (t *Trainer) Targets() []float64 { return append([]float64(nil), t.targets...) }

// SetInputs copies as many of values as fit into the input vector.
func (t *Trainer) SetInputs(values []float64) { copy(t.inputs, values) }

// SetTargets copies as many of values as fit into the target vector.
func (t *Trainer) SetTargets(values []float64) { copy(t.targets, values) }

// Step performs one learning step on the current inputs and targets.
func (t *Trainer) Step() error {
	return t.net.Learn(t.inputs, t.targets, t.rate)
}

// AddRecord appends the current inputs to ds with a one-hot target for label.
func (t *Trainer) AddRecord(ds *dataset.Dataset, label int) error {
	target, err := dataset.OneHot(label, t.net.OutputCount())
	if err != nil {
		return err
	}
	return ds.Add(t.inputs, target)
}

func (t *Trainer) checkShape(ds *dataset.Dataset) error {
	if ds.InputCount != t.net.InputCount() || ds.OutputCount != t.net.OutputCount() {
		return errors.Wrapf(dataset.ErrShape, "dataset is %dx%d, network is %dx%d",
			ds.InputCount, ds.OutputCount, t.net.InputCount(), t.net.OutputCount())
	}
	return nil
}

// Epoch learns every record of ds once, in order, and reports the mean
// squared error afterwards.
func (t *Trainer) Epoch(ds *dataset.Dataset) (EpochResult, error) {
	if err := t.checkShape(ds); err != nil {
		return EpochResult{}, err
	}
	start := time.Now()
	for i, rec := range ds.Records {
		if err := t.net.Learn(rec.Inputs, rec.Outputs, t.rate); err != nil {
			return EpochResult{}, errors.Wrapf(err, "record %d", i)
		}
	}
	loss, err := t.Loss(ds)
	if err != nil {
		return EpochResult{}, err
	}
	return EpochResult{Loss: loss, Duration: time.Since(start)}, nil
}

// Train runs epochs passes over ds. It stops early with ctx.Err() when ctx is
// done; the results of finished epochs are returned either way.
func (t *Trainer) Train(ctx context.Context, ds *dataset.Dataset, epochs int) ([]EpochResult, error) {
	if epochs < 0 {
		epochs = 0
	}
	results := make([]EpochResult, 0, epochs)
	for epoch := 1; epoch <= epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := t.Epoch(ds)
		if err != nil {
			return results, errors.Wrapf(err, "epoch %d", epoch)
		}
		res.Epoch = epoch
		results = append(results, res)
		if t.Logf != nil {
			t.Logf("Epoch %d/%d | Loss: %.6f | Time: %v", epoch, epochs, res.Loss, res.Duration)
		}
	}
	return results, nil
}

// Loss is the mean squared error of the network over ds; 0 for an empty
// dataset.
func (t *Trainer) Loss(ds *dataset.Dataset) (float64, error) {
	if err := t.checkShape(ds); err != nil {
		return 0, err
	}
	if ds.Len() == 0 {
		return 0, nil
	}
	total := 0.0
	for _, rec := range ds.Records {
		out, err := t.net.ComputeOutput(rec.Inputs)
		if err != nil {
			return 0, err
		}
		total += nn.SquaredError(out, rec.Outputs)
	}
	return total / float64(ds.Len()), nil
}

// Classify runs inputs through the network and picks the highest output; the
// first one wins a tie.
func (t *Trainer) Classify(inputs []float64) (Prediction, error) {
	out, err := t.net.ComputeOutput(inputs)
	if err != nil {
		return Prediction{}, err
	}
	idx := floats.MaxIdx(out)
	return Prediction{Index: idx, Certainty: out[idx], Outputs: out}, nil
}

// Accuracy is the fraction of records in ds whose predicted index matches the
// largest target value.
func (t *Trainer) Accuracy(ds *dataset.Dataset) (float64, error) {
	if err := t.checkShape(ds); err != nil {
		return 0, err
	}
	if ds.Len() == 0 {
		return 0, nil
	}
	correct := 0
	for _, rec := range ds.Records {
		p, err := t.Classify(rec.Inputs)
		if err != nil {
			return 0, err
		}
		if p.Index == floats.MaxIdx(rec.Outputs) {
			correct++
		}
	}
	return float64(correct) / float64(ds.Len()), nil
}
