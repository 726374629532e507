package train

import (
	"log"
	"math/rand"

	"github.com/ChizhovVadim/nettrainer/internal/domain"
	"github.com/ChizhovVadim/nettrainer/internal/netshape"
	"github.com/ChizhovVadim/nettrainer/internal/records"
	"github.com/born-ml/born/optim"
	"github.com/born-ml/born/tensor"
)

// Train builds a model of the given shape and fits it.
func Train(
	shape netshape.Shape,
	features *records.FeatureMatrix,
	labels records.LabelVector,
	config Config,
) (*Model, error) {
	var rnd = rand.New(rand.NewSource(config.Seed))
	model, err := NewModel(shape, rnd)
	if err != nil {
		return nil, err
	}
	err = Fit(model, features, labels, config)
	if err != nil {
		return nil, err
	}
	return model, nil
}

// Fit runs Adam over shuffled mini-batches minimizing mean squared error.
func Fit(
	model *Model,
	features *records.FeatureMatrix,
	labels records.LabelVector,
	config Config,
) (err error) {
	if err := model.checkWidth(features); err != nil {
		return err
	}
	if features.Rows != len(labels) {
		return domain.Malformed("dataset", "%v positions, %v labels", features.Rows, len(labels))
	}
	if features.Rows == 0 {
		return domain.ExternalError("fit", "empty dataset")
	}
	if config.BatchSize <= 0 {
		return domain.ExternalError("fit", "non-positive batch size")
	}

	defer func() {
		if r := recover(); r != nil {
			err = domain.ExternalError("fit", r)
		}
	}()

	log.Println("Train started")
	defer log.Println("Train finished")

	var schedule = ExponentialDecay{
		Initial: config.LearningRate,
		Steps:   config.DecaySteps,
		Rate:    config.DecayRate,
	}
	var optimizer = optim.NewAdam(model.parameters(), optim.AdamConfig{
		LR:    float32(schedule.LearningRate(0)),
		Betas: [2]float32{0.9, 0.999},
		Eps:   1e-7,
	}, model.backend)

	var tape = model.backend.Tape()
	tape.StartRecording()
	defer tape.StopRecording()

	var rnd = rand.New(rand.NewSource(config.Seed))
	var order = make([]int, features.Rows)
	for i := range order {
		order[i] = i
	}

	var step int
	for epoch := 1; epoch <= config.Epochs; epoch++ {
		shuffle(rnd, order)
		var totalCost float64
		for i := 0; i < len(order); i += config.BatchSize {
			var batch = order[i:min(i+config.BatchSize, len(order))]
			optimizer.SetLR(float32(schedule.LearningRate(step)))
			cost, err := trainBatch(model, optimizer, features, labels, batch)
			if err != nil {
				return err
			}
			totalCost += cost * float64(len(batch))
			step++
		}
		log.Printf("Finished Epoch %v\n", epoch)
		log.Printf("Current training cost is: %f\n", totalCost/float64(len(order)))
	}
	return nil
}

func trainBatch(
	model *Model,
	optimizer *optim.Adam[Backend],
	features *records.FeatureMatrix,
	labels records.LabelVector,
	batch []int,
) (float64, error) {
	var tape = model.backend.Tape()
	defer tape.Clear()

	var data = make([]float32, 0, len(batch)*features.Cols)
	var targets = make([]float32, len(batch))
	for i, index := range batch {
		for _, v := range features.Row(index) {
			data = append(data, float32(v))
		}
		targets[i] = labels[index]
	}
	x, err := model.input(data, len(batch))
	if err != nil {
		return 0, err
	}

	optimizer.ZeroGrad()
	var prediction = model.forward(x)
	grad, cost, err := costGradient(model, prediction, targets)
	if err != nil {
		return 0, err
	}
	optimizer.Step(tape.Backward(grad, model.backend))
	return cost, nil
}

// costGradient returns d(MSE)/d(prediction) and the MSE itself.
// Every output of a row is compared against the row label.
func costGradient(model *Model, prediction *Tensor, targets []float32) (*tensor.RawTensor, float64, error) {
	var grad, err = tensor.NewRaw(prediction.Shape(), tensor.Float32, model.backend.Device())
	if err != nil {
		return nil, 0, domain.ExternalError("gradient", err)
	}
	var p = prediction.Data()
	var g = grad.AsFloat32()
	var outputs = len(p) / len(targets)
	var n = float32(len(p))
	var cost float64
	for i := range p {
		var diff = p[i] - targets[i/outputs]
		cost += float64(diff * diff)
		g[i] = 2 * diff / n
	}
	return grad, cost / float64(len(p)), nil
}
