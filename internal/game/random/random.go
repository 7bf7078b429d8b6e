// Package random provides the deterministic randomness used while generating
// battle deltas. One Generator exists per battle; outcomes are baked into the
// deltas it helps produce, so replaying a log never draws from it.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// Source yields uniformly distributed values in [0, 1).
//
// Implementations are not required to be safe for concurrent use; a battle
// is only ever mutated by one request at a time.
type Source interface {
	Float64() float64
}

// pcgStream is fixed so that a seed alone identifies the whole sequence.
const pcgStream = 0x9e3779b97f4a7c15

// Generator is a seeded Source. Two generators built from the same seed
// return identical sequences.
type Generator struct {
	seed int64
	rng  *rand.Rand
}

// New returns a Generator seeded with seed.
//
// Postcondition: New(s) and New(s) produce identical Float64 sequences.
func New(seed int64) *Generator {
	return &Generator{
		seed: seed,
		rng:  rand.New(rand.NewPCG(uint64(seed), pcgStream)),
	}
}

// Seed returns the seed the generator was built from.
func (g *Generator) Seed() int64 { return g.seed }

// Float64 returns the next value in [0, 1).
func (g *Generator) Float64() float64 { return g.rng.Float64() }

// NewSeed returns a high-entropy seed from crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Intn returns a value in [0, n).
//
// Precondition: n > 0.
func Intn(src Source, n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("random: Intn precondition violated: n=%d", n))
	}
	v := int(src.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}

// Chance reports true with probability p.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// Pick returns one uniformly chosen element of items.
//
// Precondition: len(items) > 0.
func Pick[T any](src Source, items []T) T {
	return items[Intn(src, len(items))]
}

// PickN returns n distinct elements of items in draw order without modifying
// items. When n exceeds len(items) every element is returned.
func PickN[T any](src Source, items []T, n int) []T {
	pool := make([]T, len(items))
	copy(pool, items)
	return PickNInPlace(src, &pool, n)
}

// PickNInPlace draws n distinct elements, removing each drawn element from
// *items. The relative order of the remaining elements is preserved.
func PickNInPlace[T any](src Source, items *[]T, n int) []T {
	if n > len(*items) {
		n = len(*items)
	}
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		idx := Intn(src, len(*items))
		out = append(out, (*items)[idx])
		*items = append((*items)[:idx], (*items)[idx+1:]...)
	}
	return out
}

// WeightedPickN draws up to n distinct elements where each remaining element
// is chosen with probability proportional to its weight. Elements with a
// non-positive weight are never drawn.
//
// Precondition: len(weights) == len(items).
func WeightedPickN[T any](src Source, items []T, weights []float64, n int) []T {
	if len(weights) != len(items) {
		panic("random: WeightedPickN precondition violated: len(weights) != len(items)")
	}
	idx := make([]int, 0, len(items))
	for i, w := range weights {
		if w > 0 {
			idx = append(idx, i)
		}
	}
	var out []T
	for len(out) < n && len(idx) > 0 {
		total := 0.0
		for _, i := range idx {
			total += weights[i]
		}
		r := src.Float64() * total
		chosen := len(idx) - 1
		for k, i := range idx {
			r -= weights[i]
			if r < 0 {
				chosen = k
				break
			}
		}
		out = append(out, items[idx[chosen]])
		idx = append(idx[:chosen], idx[chosen+1:]...)
	}
	return out
}
