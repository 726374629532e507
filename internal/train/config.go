package train

// Config holds the fitting parameters. Good values depend somewhat on the number of training positions.
type Config struct {
	Epochs       int
	BatchSize    int
	LearningRate float64
	DecaySteps   int
	DecayRate    float64
	Seed         int64
}

func DefaultConfig() Config {
	return Config{
		Epochs:       30,
		BatchSize:    15000,
		LearningRate: 0.01,
		DecaySteps:   5000,
		DecayRate:    0.96,
	}
}
