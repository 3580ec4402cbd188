package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"glyphnet/dataset"
	"glyphnet/glyph"
	"glyphnet/utils"
)

func runTrain(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	nf := addNetworkFlags(fs, glyph.DefaultWidth*glyph.DefaultHeight, "20,10", 10)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *nf.data == "" {
		return fmt.Errorf("train needs -data")
	}

	totalStart := time.Now()
	s, err := newSession(nf)
	if err != nil {
		return err
	}
	net := s.trainer.Network()
	fmt.Printf("Network: %d inputs, layers %v\n", net.InputCount(), net.LayerSizes())

	if err := s.train(ctx); err != nil {
		return err
	}

	start := time.Now()
	acc, err := s.trainer.Accuracy(s.data)
	if err != nil {
		return err
	}
	s.stats.EvaluationTime = time.Since(start)
	fmt.Printf("Accuracy: %.2f%%\n", acc*100)

	s.stats.TotalTime = time.Since(totalStart)
	utils.PrintTimingStats(&s.stats, s.steps)
	return nil
}

func runPredict(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("predict", flag.ContinueOnError)
	nf := addNetworkFlags(fs, glyph.DefaultWidth*glyph.DefaultHeight, "20,10", 10)
	query := fs.String("query", "", "input values, comma separated")
	if err := fs.Parse(args); err != nil {
		return err
	}

	inputs, err := utils.ParseValues(*query)
	if err != nil {
		return fmt.Errorf("parsing query: %w", err)
	}

	s, err := newSession(nf)
	if err != nil {
		return err
	}
	if err := s.train(ctx); err != nil {
		return err
	}

	p, err := s.trainer.Classify(inputs)
	if err != nil {
		return err
	}
	s.printPrediction(p)
	return nil
}

func runDemo(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	nf := addNetworkFlags(fs, glyph.DefaultWidth*glyph.DefaultHeight, "20,10", 10)
	glyphPath := fs.String("glyph", "", "file with the glyph brightness values, row by row")
	record := fs.Int("record", -1, "append the glyph to -data with this label index")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *nf.labels == "" {
		*nf.labels = "0,1,2,3,4,5,6,7,8,9"
	}
	if *glyphPath == "" {
		return fmt.Errorf("demo needs -glyph")
	}
	recordPath := *nf.data
	if *record >= 0 {
		if recordPath == "" {
			return fmt.Errorf("-record needs -data")
		}
		// the first recorded glyph creates the dataset
		if _, err := os.Stat(recordPath); errors.Is(err, os.ErrNotExist) {
			*nf.data = ""
		}
	}

	raw, err := os.ReadFile(*glyphPath)
	if err != nil {
		return fmt.Errorf("reading glyph: %w", err)
	}
	values, err := utils.ParseValues(string(raw))
	if err != nil {
		return fmt.Errorf("parsing glyph: %w", err)
	}
	g, err := glyph.FromValues(glyph.DefaultWidth, glyph.DefaultHeight, values)
	if err != nil {
		return err
	}
	fmt.Print(g.String())

	s, err := newSession(nf)
	if err != nil {
		return err
	}
	if err := s.train(ctx); err != nil {
		return err
	}

	p, err := s.trainer.Classify(g.Values())
	if err != nil {
		return err
	}
	s.printPrediction(p)

	if *record < 0 {
		return nil
	}
	if s.data == nil {
		net := s.trainer.Network()
		s.data = dataset.New(net.InputCount(), net.OutputCount())
	}
	s.trainer.SetInputs(g.Values())
	if err := s.trainer.AddRecord(s.data, *record); err != nil {
		return err
	}
	if err := s.data.SaveFile(recordPath); err != nil {
		return err
	}
	fmt.Printf("Saved %d records to %s\n", s.data.Len(), recordPath)
	return nil
}
