package train

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/ChizhovVadim/nettrainer/internal/domain"
	"github.com/ChizhovVadim/nettrainer/internal/netshape"
	"github.com/ChizhovVadim/nettrainer/internal/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func separableDataset(rows int) (records.FeatureMatrix, records.LabelVector) {
	var rnd = rand.New(rand.NewSource(1))
	var features = records.NewFeatureMatrix(rows, 2)
	var labels = make(records.LabelVector, rows)
	for i := 0; i < rows; i++ {
		var row = features.Row(i)
		row[0] = int8(2*rnd.Intn(2) - 1)
		row[1] = int8(rnd.Intn(3) - 1)
		if row[0] > 0 {
			labels[i] = 1
		}
	}
	return features, labels
}

func meanCost(t *testing.T, model *Model, features *records.FeatureMatrix, labels records.LabelVector) float64 {
	predictions, err := model.Predict(features, 0, features.Rows)
	require.NoError(t, err)
	var total float64
	for i, p := range predictions {
		var diff = float64(p[0] - labels[i])
		total += diff * diff
	}
	return total / float64(len(predictions))
}

func TestFitReducesCost(t *testing.T) {
	var features, labels = separableDataset(64)
	var shape = netshape.Shape{Inputs: 2, Layers: []int{4, 1}}
	model, err := NewModel(shape, rand.New(rand.NewSource(0)))
	require.NoError(t, err)

	var before = meanCost(t, model, &features, labels)
	var config = Config{
		Epochs:       60,
		BatchSize:    16,
		LearningRate: 0.05,
		DecaySteps:   100,
		DecayRate:    0.96,
	}
	require.NoError(t, Fit(model, &features, labels, config))
	var after = meanCost(t, model, &features, labels)
	assert.Less(t, after, before)
	assert.Less(t, after, 0.2)
}

func TestFitWidthMismatch(t *testing.T) {
	var features, labels = separableDataset(8)
	_, err := Train(netshape.Default(), &features, labels, DefaultConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrExternalLibrary), err)
}

func TestFitLabelMismatch(t *testing.T) {
	var features, labels = separableDataset(8)
	var shape = netshape.Shape{Inputs: 2, Layers: []int{1}}
	_, err := Train(shape, &features, labels[:7], DefaultConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMalformedRecordFile), err)
}

func TestPredictRange(t *testing.T) {
	var features, _ = separableDataset(10)
	var shape = netshape.Shape{Inputs: 2, Layers: []int{3, 1}}
	model, err := NewModel(shape, rand.New(rand.NewSource(0)))
	require.NoError(t, err)

	predictions, err := model.Predict(&features, 2, 7)
	require.NoError(t, err)
	require.Len(t, predictions, 5)
	for _, p := range predictions {
		require.Len(t, p, 1)
		assert.True(t, p[0] > 0 && p[0] < 1, p[0])
	}

	_, err = model.Predict(&features, 5, 11)
	assert.Error(t, err)
}

func TestLayers(t *testing.T) {
	var shape = netshape.Default()
	model, err := NewModel(shape, rand.New(rand.NewSource(0)))
	require.NoError(t, err)

	var layers = model.Layers()
	require.Len(t, layers, len(shape.Layers))
	var inputs = shape.Inputs
	for i, layer := range layers {
		require.Len(t, layer.Arrays, 2)
		var kernel, bias = layer.Arrays[0], layer.Arrays[1]
		rows, cols := kernel.Dims()
		assert.Equal(t, inputs, rows)
		assert.Equal(t, shape.Layers[i], cols)
		assert.True(t, bias.Vector)
		assert.Equal(t, shape.Layers[i], bias.Len())
		inputs = cols
	}
}

func TestLayersKernelOrder(t *testing.T) {
	var shape = netshape.Shape{Inputs: 3, Layers: []int{2}}
	model, err := NewModel(shape, rand.New(rand.NewSource(0)))
	require.NoError(t, err)

	// born keeps [outputs x inputs]
	var w = model.layers[0].Weight().Tensor().Data()
	var kernel = model.Layers()[0].Arrays[0]
	for out := 0; out < 2; out++ {
		for in := 0; in < 3; in++ {
			assert.Equal(t, float64(w[out*3+in]), kernel.Values.At(in, out))
		}
	}
}
