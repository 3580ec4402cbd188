package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glyphnet/dataset"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNetworkFlagsConfig(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	nf := addNetworkFlags(fs, 256, "20,10", 10)
	require.NoError(t, fs.Parse([]string{"-inputs", "3", "-arch", "5 1", "-seed", "7", "-rate", "0.2", "-labels", "yes"}))

	config, err := nf.config()
	require.NoError(t, err)
	assert.Equal(t, 3, config.InputCount)
	assert.Equal(t, []int{5, 1}, config.Architecture)
	assert.Equal(t, uint64(7), config.Seed)
	assert.Equal(t, 0.2, config.LearningRate)
	assert.Equal(t, []string{"yes"}, config.Labels)

	fs = flag.NewFlagSet("test", flag.ContinueOnError)
	nf = addNetworkFlags(fs, 256, "20,10", 10)
	require.NoError(t, fs.Parse([]string{"-rate", "3"}))
	_, err = nf.config()
	assert.Error(t, err)
}

func TestRunTrain(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "xor.csv", "0,0,1,0\n0,1,0,1\n1,0,0,1\n1,1,1,0\n")

	err := runTrain(context.Background(), []string{
		"-data", data, "-inputs", "2", "-arch", "4,2", "-seed", "42", "-rate", "0.5", "-epochs", "50",
	})
	require.NoError(t, err)

	err = runTrain(context.Background(), []string{"-inputs", "2", "-arch", "4,2"})
	assert.Error(t, err)
}

func TestRunPredictWrongQueryLength(t *testing.T) {
	err := runPredict(context.Background(), []string{"-inputs", "3", "-arch", "5,1", "-query", "0.25,0.5"})
	assert.Error(t, err)

	err = runPredict(context.Background(), []string{"-inputs", "3", "-arch", "5,1", "-query", "0.25,0.5,0.75"})
	assert.NoError(t, err)
}

func TestRunDemoRecords(t *testing.T) {
	dir := t.TempDir()
	values := make([]string, 256)
	for i := range values {
		values[i] = "0"
		if i%17 == 0 {
			values[i] = "1"
		}
	}
	glyphPath := writeFile(t, dir, "glyph.csv", strings.Join(values, ","))
	dataPath := filepath.Join(dir, "records.csv")

	require.NoError(t, runDemo(context.Background(), []string{"-glyph", glyphPath, "-data", dataPath, "-record", "3"}))
	require.NoError(t, runDemo(context.Background(), []string{"-glyph", glyphPath, "-data", dataPath, "-record", "4", "-epochs", "1"}))

	ds, err := dataset.LoadFile(dataPath, 256, 10)
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, 1.0, ds.Records[0].Outputs[3])
	assert.Equal(t, 1.0, ds.Records[1].Outputs[4])
	assert.Equal(t, 1.0, ds.Records[1].Inputs[17])

	err = runDemo(context.Background(), []string{"-glyph", glyphPath, "-record", "1"})
	assert.Error(t, err)
}
