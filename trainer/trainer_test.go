package trainer

import (
	"context"
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glyphnet/dataset"
	"glyphnet/nn"
)

func newNetwork(t *testing.T, inputs int, sizes []int, seed uint64) *nn.Network {
	t.Helper()
	net, err := nn.New(inputs, sizes)
	require.NoError(t, err)
	net.Randomize(seed)
	return net
}

func xorDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds := dataset.New(2, 2)
	require.NoError(t, ds.Add([]float64{0, 0}, []float64{1, 0}))
	require.NoError(t, ds.Add([]float64{0, 1}, []float64{0, 1}))
	require.NoError(t, ds.Add([]float64{1, 0}, []float64{0, 1}))
	require.NoError(t, ds.Add([]float64{1, 1}, []float64{1, 0}))
	return ds
}

func TestNewRejectsBadRate(t *testing.T) {
	net := newNetwork(t, 2, []int{1}, 1)
	_, err := New(net, 0)
	assert.True(t, errors.Is(err, nn.ErrLearningRate), "got %v", err)
	_, err = New(net, 1.01)
	assert.True(t, errors.Is(err, nn.ErrLearningRate), "got %v", err)

	tr, err := New(net, DefaultRate)
	require.NoError(t, err)
	assert.Equal(t, DefaultRate, tr.Rate())
	assert.Error(t, tr.SetRate(-1))
	assert.Equal(t, DefaultRate, tr.Rate())
}

func TestInputsAndTargetsFollowTopology(t *testing.T) {
	tr, err := New(newNetwork(t, 3, []int{4, 2}, 1), DefaultRate)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0}, tr.Inputs())
	assert.Equal(t, []float64{0, 0}, tr.Targets())

	tr.SetInputs([]float64{1, 2, 3, 4, 5})
	assert.Equal(t, []float64{1, 2, 3}, tr.Inputs())
	tr.SetTargets([]float64{7})
	assert.Equal(t, []float64{7, 0}, tr.Targets())

	bigger := newNetwork(t, 5, []int{3}, 2)
	tr.Rebind(bigger)
	assert.Same(t, bigger, tr.Network())
	assert.Equal(t, []float64{1, 2, 3, 0, 0}, tr.Inputs())
	assert.Equal(t, []float64{7, 0, 0}, tr.Targets())

	tr.Rebind(newNetwork(t, 2, []int{1}, 3))
	assert.Equal(t, []float64{1, 2}, tr.Inputs())
	assert.Equal(t, []float64{7}, tr.Targets())
}

func TestStepMatchesLearn(t *testing.T) {
	a := newNetwork(t, 3, []int{5, 1}, 1337)
	b := a.Clone()

	tr, err := New(a, 0.3)
	require.NoError(t, err)
	tr.SetInputs([]float64{0.25, 0.5, 0.75})
	tr.SetTargets([]float64{1})
	require.NoError(t, tr.Step())

	require.NoError(t, b.Learn([]float64{0.25, 0.5, 0.75}, []float64{1}, 0.3))
	assert.Equal(t, b.Weights(), a.Weights())
	assert.Equal(t, b.Biases(), a.Biases())
}

func TestAddRecord(t *testing.T) {
	tr, err := New(newNetwork(t, 2, []int{3}, 1), DefaultRate)
	require.NoError(t, err)
	tr.SetInputs([]float64{0.5, 1})

	ds := dataset.New(2, 3)
	require.NoError(t, tr.AddRecord(ds, 2))
	require.Equal(t, 1, ds.Len())
	assert.Equal(t, []float64{0.5, 1}, ds.Records[0].Inputs)
	assert.Equal(t, []float64{0, 0, 1}, ds.Records[0].Outputs)

	assert.Error(t, tr.AddRecord(ds, 3))
}

func TestTrainXOR(t *testing.T) {
	ds := xorDataset(t)
	tr, err := New(newNetwork(t, 2, []int{4, 2}, 42), 0.5)
	require.NoError(t, err)

	var lines []string
	tr.Logf = func(format string, args ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	results, err := tr.Train(context.Background(), ds, 3000)
	require.NoError(t, err)
	require.Len(t, results, 3000)
	assert.Len(t, lines, 3000)
	assert.Equal(t, 1, results[0].Epoch)
	assert.Equal(t, 3000, results[2999].Epoch)
	assert.Less(t, results[2999].Loss, results[9].Loss)
	assert.Less(t, results[2999].Loss, 0.01)

	acc, err := tr.Accuracy(ds)
	require.NoError(t, err)
	assert.Equal(t, 1.0, acc)

	p, err := tr.Classify([]float64{1, 1})
	require.NoError(t, err)
	assert.Equal(t, 0, p.Index)
	assert.Equal(t, p.Outputs[0], p.Certainty)
	assert.Len(t, p.Outputs, 2)
}

func TestTrainStopsOnCancel(t *testing.T) {
	tr, err := New(newNetwork(t, 2, []int{2}, 1), DefaultRate)
	require.NoError(t, err)
	before := tr.Network().Weights()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := tr.Train(ctx, xorDataset(t), 10)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
	assert.Empty(t, results)
	assert.Equal(t, before, tr.Network().Weights())
}

func TestShapeMismatch(t *testing.T) {
	tr, err := New(newNetwork(t, 3, []int{2}, 1), DefaultRate)
	require.NoError(t, err)
	ds := xorDataset(t)

	_, err = tr.Epoch(ds)
	assert.True(t, errors.Is(err, dataset.ErrShape), "got %v", err)
	_, err = tr.Accuracy(ds)
	assert.True(t, errors.Is(err, dataset.ErrShape), "got %v", err)
	_, err = tr.Loss(ds)
	assert.True(t, errors.Is(err, dataset.ErrShape), "got %v", err)
	_, err = tr.Classify([]float64{1})
	assert.True(t, errors.Is(err, nn.ErrShapeMismatch), "got %v", err)
}

func TestEmptyDataset(t *testing.T) {
	tr, err := New(newNetwork(t, 2, []int{2}, 1), DefaultRate)
	require.NoError(t, err)
	ds := dataset.New(2, 2)

	res, err := tr.Epoch(ds)
	require.NoError(t, err)
	assert.Zero(t, res.Loss)

	acc, err := tr.Accuracy(ds)
	require.NoError(t, err)
	assert.Zero(t, acc)
}
