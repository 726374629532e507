package train

import (
	"math"
	"math/rand"
)

func initUniform(rnd *rand.Rand, data []float32, max float64) {
	for i := range data {
		data[i] = float32((rnd.Float64() - 0.5) * 2 * max)
	}
}

// glorotLimit is the bound of the Glorot uniform initializer.
func glorotLimit(inputs, outputs int) float64 {
	return math.Sqrt(6 / float64(inputs+outputs))
}

func shuffle(rnd *rand.Rand, order []int) {
	rnd.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
}
