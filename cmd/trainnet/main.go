package main

import (
	"flag"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/ChizhovVadim/nettrainer/internal/domain"
	"github.com/ChizhovVadim/nettrainer/internal/netshape"
	"github.com/ChizhovVadim/nettrainer/internal/records"
	"github.com/ChizhovVadim/nettrainer/internal/train"
	"github.com/ChizhovVadim/nettrainer/internal/weights"
	"github.com/klauspost/cpuid/v2"
	"github.com/pkg/errors"
)

type Config struct {
	folder  string
	preview int
	binary  bool
	train   train.Config
}

var config = Config{
	folder:  ".",
	preview: 50,
	train:   train.DefaultConfig(),
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	flag.StringVar(&config.folder, "dir", config.folder, "Folder with <net>Data.dat, <net>Labels.dat and <net>Struct.txt")
	flag.IntVar(&config.train.Epochs, "epochs", config.train.Epochs, "Number of epochs")
	flag.IntVar(&config.train.BatchSize, "batch", config.train.BatchSize, "Mini-batch size")
	flag.Float64Var(&config.train.LearningRate, "lr", config.train.LearningRate, "Initial learning rate")
	flag.IntVar(&config.train.DecaySteps, "decaysteps", config.train.DecaySteps, "Learning rate decay steps")
	flag.Float64Var(&config.train.DecayRate, "decayrate", config.train.DecayRate, "Learning rate decay rate")
	flag.Int64Var(&config.train.Seed, "seed", config.train.Seed, "Random seed")
	flag.IntVar(&config.preview, "preview", config.preview, "Number of predictions to print after training")
	flag.BoolVar(&config.binary, "bin", config.binary, "Also write <net>Weights.bin")
	flag.Parse()

	var netNames = flag.Args()
	if len(netNames) == 0 {
		return
	}

	log.Printf("%+v", config)
	log.Println("CPU", cpuid.CPU.BrandName,
		"PhysicalCores", cpuid.CPU.PhysicalCores,
		"LogicalCores", cpuid.CPU.LogicalCores,
		"AVX2", cpuid.CPU.Supports(cpuid.AVX2),
		"GOARCH", runtime.GOARCH)

	var err = run(netNames, os.Stdout)
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(netNames []string, out io.Writer) error {
	for _, netName := range netNames {
		var err = trainNet(domain.NewNetConfig(config.folder, netName), out)
		if err != nil {
			return errors.WithMessage(err, netName)
		}
	}
	return nil
}

func trainNet(netConfig domain.NetConfig, out io.Writer) error {
	shape, err := netshape.Load(netConfig.StructPath)
	if err != nil {
		return err
	}
	log.Println("Net", netConfig.NetName, shape)

	features, labels, err := records.Load(netConfig, shape.Inputs)
	if err != nil {
		return err
	}
	log.Println("Loaded dataset", features.Rows)

	model, err := train.Train(shape, &features, labels, config.train)
	if err != nil {
		return err
	}

	predictions, err := model.Predict(&features, 0, max(0, min(config.preview, features.Rows)))
	if err != nil {
		return err
	}
	err = train.PrintPredictions(out, predictions, labels, config.preview)
	if err != nil {
		return err
	}

	err = weights.Export(netConfig.OutputPath, model)
	if err != nil {
		return err
	}
	log.Println("Saved", netConfig.OutputPath)

	if config.binary {
		network, err := weights.NewNetwork(0, model.Layers())
		if err != nil {
			return err
		}
		err = network.Save(netConfig.BinaryPath)
		if err != nil {
			return err
		}
		log.Println("Saved", netConfig.BinaryPath)
	}
	return nil
}
