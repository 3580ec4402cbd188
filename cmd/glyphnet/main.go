// glyphnet: train and query the glyph classifier network
//
// Usage:
//
//	glyphnet train   -data records.csv -inputs 256 -arch 20,10 -epochs 10
//	glyphnet predict -query 0.1,0.5,... [-data records.csv]
//	glyphnet demo    -glyph glyph.csv [-data records.csv] [-record 3]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"glyphnet/dataset"
	"glyphnet/nn"
	"glyphnet/trainer"
	"glyphnet/utils"
)

const usage = `usage: glyphnet <command> [flags]

commands:
  train    train a network on a CSV dataset
  predict  classify one input vector
  demo     classify a 16x16 glyph with the default digit network`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch os.Args[1] {
	case "train":
		err = runTrain(ctx, os.Args[2:])
	case "predict":
		err = runPredict(ctx, os.Args[2:])
	case "demo":
		err = runDemo(ctx, os.Args[2:])
	case "-h", "-help", "--help", "help":
		fmt.Println(usage)
		return
	default:
		err = fmt.Errorf("unknown command %q\n%s", os.Args[1], usage)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// networkFlags are the flags shared by every command.
type networkFlags struct {
	inputs    *int
	arch      *string
	seed      *uint64
	clockSeed *bool
	rate      *float64
	epochs    *int
	data      *string
	labels    *string
	verbose   *bool
}

func addNetworkFlags(fs *flag.FlagSet, inputs int, arch string, epochs int) *networkFlags {
	return &networkFlags{
		inputs:    fs.Int("inputs", inputs, "number of network inputs"),
		arch:      fs.String("arch", arch, "layer sizes, comma separated (last is the output layer)"),
		seed:      fs.Uint64("seed", 1337, "randomization seed"),
		clockSeed: fs.Bool("clock-seed", false, "seed from the current time instead of -seed"),
		rate:      fs.Float64("rate", trainer.DefaultRate, "learning rate in (0, 1]"),
		epochs:    fs.Int("epochs", epochs, "number of passes over the dataset"),
		data:      fs.String("data", "", "training records CSV (inputs then targets per row)"),
		labels:    fs.String("labels", "", "comma separated names of the outputs"),
		verbose:   fs.Bool("verbose", false, "print timing statistics"),
	}
}

func (f *networkFlags) config() (*utils.Config, error) {
	arch, err := utils.ParseArchitecture(*f.arch)
	if err != nil {
		return nil, fmt.Errorf("parsing architecture: %w", err)
	}
	config := &utils.Config{
		InputCount:   *f.inputs,
		Architecture: arch,
		Seed:         *f.seed,
		LearningRate: *f.rate,
		Epochs:       *f.epochs,
		DataPath:     *f.data,
		Labels:       utils.ParseLabels(*f.labels),
	}
	if err := utils.ValidateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// session is a randomized network with its trainer and, if configured, the
// loaded dataset.
type session struct {
	config  *utils.Config
	trainer *trainer.Trainer
	data    *dataset.Dataset
	stats   utils.TimingStats
	steps   int
}

func newSession(f *networkFlags) (*session, error) {
	config, err := f.config()
	if err != nil {
		return nil, err
	}
	utils.Verbose = *f.verbose
	s := &session{config: config}

	start := time.Now()
	net, err := nn.New(config.InputCount, config.Architecture)
	if err != nil {
		return nil, err
	}
	if *f.clockSeed {
		net.RandomizeFromClock(nil)
	} else {
		net.Randomize(config.Seed)
	}
	s.trainer, err = trainer.New(net, config.LearningRate)
	if err != nil {
		return nil, err
	}
	s.stats.ModelInitTime = time.Since(start)

	if config.DataPath != "" {
		start = time.Now()
		s.data, err = dataset.LoadFile(config.DataPath, net.InputCount(), net.OutputCount())
		if err != nil {
			return nil, err
		}
		s.stats.DataLoadingTime = time.Since(start)
	}
	return s, nil
}

// train runs the configured epochs over the dataset, if there is one.
func (s *session) train(ctx context.Context) error {
	if s.data == nil || s.config.Epochs == 0 {
		return nil
	}
	fmt.Printf("Training on %d records for %d epochs...\n", s.data.Len(), s.config.Epochs)
	s.trainer.Logf = func(format string, args ...interface{}) {
		fmt.Printf(format+"\n", args...)
	}

	start := time.Now()
	results, err := s.trainer.Train(ctx, s.data, s.config.Epochs)
	s.stats.TrainingTime = time.Since(start)
	s.steps = len(results) * s.data.Len()
	return err
}

func (s *session) printPrediction(p trainer.Prediction) {
	fmt.Printf("Prediction: %s (certainty %.4f)\n", s.config.Label(p.Index), p.Certainty)
	parts := make([]string, len(p.Outputs))
	for i, v := range p.Outputs {
		parts[i] = fmt.Sprintf("%s=%.4f", s.config.Label(i), v)
	}
	fmt.Printf("Outputs: %s\n", strings.Join(parts, " "))
}
