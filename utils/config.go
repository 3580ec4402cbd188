package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// Config holds the network and training configuration shared by the commands.
type Config struct {
	InputCount   int
	Architecture []int
	Seed         uint64
	LearningRate float64
	Epochs       int
	DataPath     string
	Labels       []string
}

func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}

// ParseArchitecture parses layer sizes separated by commas or spaces, e.g.
// "20,10" or "20 10".
func ParseArchitecture(archStr string) ([]int, error) {
	parts := splitList(archStr)
	arch := make([]int, len(parts))
	for i, s := range parts {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, err
		}
		arch[i] = n
	}
	return arch, nil
}

// ParseValues parses numbers separated by commas or whitespace.
func ParseValues(s string) ([]float64, error) {
	parts := splitList(s)
	values := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing value %d: %w", i+1, err)
		}
		values[i] = v
	}
	return values, nil
}

// ParseLabels splits a comma separated label list, trimming spaces.
func ParseLabels(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	labels := strings.Split(s, ",")
	for i := range labels {
		labels[i] = strings.TrimSpace(labels[i])
	}
	return labels
}

// ValidateConfig validates training configuration
func ValidateConfig(config *Config) error {
	if config.InputCount <= 0 {
		return fmt.Errorf("input count must be positive")
	}

	if len(config.Architecture) == 0 {
		return fmt.Errorf("architecture must have at least one layer")
	}
	for i, size := range config.Architecture {
		if size <= 0 {
			return fmt.Errorf("layer %d has non-positive size %d", i, size)
		}
	}

	if !(config.LearningRate > 0 && config.LearningRate <= 1) {
		return fmt.Errorf("learning rate must be in (0, 1]")
	}

	if config.Epochs < 0 {
		return fmt.Errorf("epochs must not be negative")
	}

	outputs := config.Architecture[len(config.Architecture)-1]
	if len(config.Labels) != 0 && len(config.Labels) != outputs {
		return fmt.Errorf("expected %d labels, got %d", outputs, len(config.Labels))
	}

	return nil
}

// Label returns the name of output index, or the index itself when no labels
// are configured.
func (c *Config) Label(index int) string {
	if index >= 0 && index < len(c.Labels) {
		return c.Labels[index]
	}
	return strconv.Itoa(index)
}
