package train

import "math"

// ExponentialDecay gives Initial * Rate^(step/Steps) for optimizer step.
type ExponentialDecay struct {
	Initial float64
	Steps   int
	Rate    float64
}

func (s ExponentialDecay) LearningRate(step int) float64 {
	if s.Steps <= 0 {
		return s.Initial
	}
	return s.Initial * math.Pow(s.Rate, float64(step)/float64(s.Steps))
}
