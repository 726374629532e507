package train

import (
	"math/rand"

	"github.com/ChizhovVadim/nettrainer/internal/domain"
	"github.com/ChizhovVadim/nettrainer/internal/netshape"
	"github.com/ChizhovVadim/nettrainer/internal/records"
	"github.com/ChizhovVadim/nettrainer/internal/weights"
	"github.com/born-ml/born/autodiff"
	"github.com/born-ml/born/backend/cpu"
	"github.com/born-ml/born/nn"
	"github.com/born-ml/born/tensor"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

type Backend = *autodiff.Backend[*cpu.Backend]

type Tensor = tensor.Tensor[float32, Backend]

// Model is a dense network: ReLU after every hidden layer, sigmoid after the last one.
type Model struct {
	shape   netshape.Shape
	backend Backend
	layers  []*nn.Linear[Backend]
	relu    *nn.ReLU[Backend]
	sigmoid *nn.Sigmoid[Backend]
}

func NewModel(shape netshape.Shape, rnd *rand.Rand) (*Model, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	var backend = autodiff.New(cpu.New())
	var model = &Model{
		shape:   shape,
		backend: backend,
		relu:    nn.NewReLU[Backend](),
		sigmoid: nn.NewSigmoid[Backend](),
	}
	var inputSize = shape.Inputs
	for _, outputSize := range shape.Layers {
		var layer = nn.NewLinear(inputSize, outputSize, backend)
		initUniform(rnd, layer.Weight().Tensor().Data(), glorotLimit(inputSize, outputSize))
		model.layers = append(model.layers, layer)
		inputSize = outputSize
	}
	return model, nil
}

func (m *Model) Shape() netshape.Shape {
	return m.shape
}

func (m *Model) parameters() []*nn.Parameter[Backend] {
	var result []*nn.Parameter[Backend]
	for _, layer := range m.layers {
		result = append(result, layer.Parameters()...)
	}
	return result
}

func (m *Model) forward(x *Tensor) *Tensor {
	var last = len(m.layers) - 1
	for i, layer := range m.layers {
		x = layer.Forward(x)
		if i < last {
			x = m.relu.Forward(x)
		} else {
			x = m.sigmoid.Forward(x)
		}
	}
	return x
}

func (m *Model) input(data []float32, rows int) (*Tensor, error) {
	var x, err = tensor.FromSlice(data, tensor.Shape{rows, m.shape.Inputs}, m.backend)
	if err != nil {
		return nil, domain.ExternalError("input", err)
	}
	return x, nil
}

func (m *Model) checkWidth(features *records.FeatureMatrix) error {
	if features.Cols != m.shape.Inputs {
		return domain.ExternalError("input",
			errors.Errorf("feature width %v, net %v expects %v", features.Cols, m.shape, m.shape.Inputs))
	}
	return nil
}

// Predict returns the network outputs for rows [from, to).
func (m *Model) Predict(features *records.FeatureMatrix, from, to int) (result [][]float32, err error) {
	if err := m.checkWidth(features); err != nil {
		return nil, err
	}
	if from < 0 || to > features.Rows || from > to {
		return nil, errors.Errorf("bad row range [%v, %v) of %v", from, to, features.Rows)
	}
	if from == to {
		return nil, nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = domain.ExternalError("predict", r)
		}
	}()

	var tape = m.backend.Tape()
	if tape.IsRecording() {
		tape.StopRecording()
		defer tape.StartRecording()
	}

	x, err := m.input(features.Float32Rows(from, to), to-from)
	if err != nil {
		return nil, err
	}
	var output = m.forward(x).Data()
	var outputs = m.shape.Outputs()
	result = make([][]float32, to-from)
	for i := range result {
		result[i] = append([]float32(nil), output[i*outputs:(i+1)*outputs]...)
	}
	return result, nil
}

// Layers returns kernel [inputs x outputs] and bias [outputs] of every layer.
func (m *Model) Layers() []weights.Layer {
	var result = make([]weights.Layer, len(m.layers))
	for i, layer := range m.layers {
		var in, out = layer.InFeatures(), layer.OutFeatures()
		var w = mat.NewDense(out, in, toFloat64(layer.Weight().Tensor().Data()))
		var kernel = mat.DenseCopyOf(w.T())
		result[i] = weights.Layer{
			Arrays: []weights.Array{
				{Name: "kernel", Values: kernel},
				weights.NewVector("bias", toFloat64(layer.Bias().Tensor().Data())),
			},
		}
	}
	return result
}

func toFloat64(data []float32) []float64 {
	var result = make([]float64, len(data))
	for i, v := range data {
		result[i] = float64(v)
	}
	return result
}
