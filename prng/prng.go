// Package prng is a small deterministic generator used to initialize network
// parameters reproducibly from a seed.
//
// The generator is SplitMix64 (http://xoroshiro.di.unimi.it/splitmix64.c).
// The same seed always yields the same sequence of draws.
package prng

import "fmt"

// DefaultSteps is the number of buckets used by Float.
const DefaultSteps uint64 = 1024

const (
	golden = 0x9e3779b97f4a7c15
	mix1   = 0xbf58476d1ce4e5b9
	mix2   = 0x94d049bb133111eb
)

// Prng holds the 64-bit generator state.
type Prng struct {
	state uint64
}

// New returns a generator seeded with seed. Any value is valid, including 0.
func New(seed uint64) *Prng {
	return &Prng{state: seed}
}

func step(state *uint64) uint64 {
	*state += golden
	z := *state
	z = (z ^ (z >> 30)) * mix1
	z = (z ^ (z >> 27)) * mix2
	return z ^ (z >> 31)
}

// Next advances the state and returns the next value.
func (p *Prng) Next() uint64 {
	return step(&p.state)
}

// Peek returns the value Next would return without consuming it.
func (p *Prng) Peek() uint64 {
	s := p.state
	return step(&s)
}

// NextInt returns a value in [from, to). It panics if to <= from.
func (p *Prng) NextInt(from, to int) int {
	return boundInt(p.Next(), from, to)
}

// PeekInt is NextInt without consuming the draw.
func (p *Prng) PeekInt(from, to int) int {
	return boundInt(p.Peek(), from, to)
}

// NextFloat returns one of steps evenly spaced values in [from, to):
// from + (Next() mod steps) * (to-from) / steps.
// It panics if to <= from or steps == 0.
func (p *Prng) NextFloat(from, to float64, steps uint64) float64 {
	return boundFloat(p.Next(), from, to, steps)
}

// PeekFloat is NextFloat without consuming the draw.
func (p *Prng) PeekFloat(from, to float64, steps uint64) float64 {
	return boundFloat(p.Peek(), from, to, steps)
}

// Float is NextFloat(0, 1, DefaultSteps).
func (p *Prng) Float() float64 {
	return p.NextFloat(0, 1, DefaultSteps)
}

func boundInt(v uint64, from, to int) int {
	if to <= from {
		panic(fmt.Sprintf("prng: empty integer range [%d, %d)", from, to))
	}
	return from + int(v%uint64(to-from))
}

func boundFloat(v uint64, from, to float64, steps uint64) float64 {
	if steps == 0 {
		panic("prng: zero steps")
	}
	if !(to > from) {
		panic(fmt.Sprintf("prng: empty float range [%g, %g)", from, to))
	}
	return from + float64(v%steps)*(to-from)/float64(steps)
}
