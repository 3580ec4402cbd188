// Package glyph holds the rasterized form of a hand-drawn glyph: a row-major
// grid of brightness values in [0, 1], flattened into network inputs.
package glyph

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Default dimensions of the rasterized glyph.
const (
	DefaultWidth  = 16
	DefaultHeight = 16
)

// levels used by String, darkest first
var levels = []string{"  ", "`,", "::", "[]", "WM"}

// Buffer is a Width x Height brightness grid backed by a flat slice.
type Buffer struct {
	Width  int
	Height int
	Data   []float64
}

// New allocates a zeroed buffer.
func New(width, height int) *Buffer {
	return &Buffer{Width: width, Height: height, Data: make([]float64, width*height)}
}

// FromValues wraps a copy of values, which must hold width*height entries.
func FromValues(width, height int, values []float64) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("invalid glyph size %dx%d", width, height)
	}
	if len(values) != width*height {
		return nil, errors.Errorf("glyph %dx%d needs %d values, got %d", width, height, width*height, len(values))
	}
	return &Buffer{Width: width, Height: height, Data: append([]float64(nil), values...)}, nil
}

func (b *Buffer) index(x, y int) int {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		panic(fmt.Sprintf("glyph: (%d, %d) out of bounds for %dx%d", x, y, b.Width, b.Height))
	}
	return y*b.Width + x
}

// At returns the brightness of cell (x, y).
func (b *Buffer) At(x, y int) float64 {
	return b.Data[b.index(x, y)]
}

// Set sets the brightness of cell (x, y).
func (b *Buffer) Set(x, y int, v float64) {
	b.Data[b.index(x, y)] = v
}

// Values returns a copy of the cells in row-major order, suitable as network
// inputs.
func (b *Buffer) Values() []float64 {
	return append([]float64(nil), b.Data...)
}

// String draws the buffer with two characters per cell.
func (b *Buffer) String() string {
	var sb strings.Builder
	sb.Grow((2*b.Width + 1) * b.Height)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			sb.WriteString(levels[level(b.At(x, y))])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func level(v float64) int {
	l := int(v * float64(len(levels)))
	if l < 0 {
		return 0
	}
	if l >= len(levels) {
		return len(levels) - 1
	}
	return l
}
