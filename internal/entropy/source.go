package entropy

import "math/rand"

// MaxLoops caps every randomized search and growth loop in map generation.
// Randomized placement can fail indefinitely on a crowded grid, so every
// loop that retries on failure stops after this many iterations.
const MaxLoops = 10000

// Source is the randomness capability passed through every generation step.
type Source interface {
	// Int returns a uniform integer in [min, max], both ends inclusive.
	Int(min, max int) int
	// Float64 returns a uniform float in [0, 1).
	Float64() float64
}

// Rand is a seedable Source backed by math/rand.
type Rand struct {
	rng *rand.Rand
}

// New returns a Source seeded with seed. Equal seeds yield equal sequences.
func New(seed int64) *Rand {
	return &Rand{rng: rand.New(rand.NewSource(seed))}
}

// Int returns a uniform integer in [min, max]. If max < min it returns min.
func (r *Rand) Int(min, max int) int {
	if max <= min {
		return min
	}
	return min + r.rng.Intn(max-min+1)
}

// Float64 returns a uniform float in [0, 1).
func (r *Rand) Float64() float64 {
	return r.rng.Float64()
}

// Sequence replays fixed values, for tests that need exact control over
// every random decision. Ints are reduced into the requested range.
type Sequence struct {
	Ints   []int
	Floats []float64

	i, f int
}

// Int returns the next fixed value folded into [min, max].
func (s *Sequence) Int(min, max int) int {
	if max <= min || len(s.Ints) == 0 {
		return min
	}
	v := s.Ints[s.i%len(s.Ints)]
	s.i++
	span := max - min + 1
	v %= span
	if v < 0 {
		v += span
	}
	return min + v
}

// Float64 returns the next fixed float, or 0 if none were given.
func (s *Sequence) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0
	}
	v := s.Floats[s.f%len(s.Floats)]
	s.f++
	return v
}

// Shuffle permutes items in place with a Fisher-Yates walk.
func Shuffle[T any](src Source, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := src.Int(0, i)
		items[i], items[j] = items[j], items[i]
	}
}

// Chance reports true with probability n/10, the coarse odds used by the
// climate passes.
func Chance(src Source, n int) bool {
	return src.Int(0, 9) < n
}

// Retry calls attempt until it reports success or max attempts are spent.
// The zero value of T is returned when every attempt fails.
func Retry[T any](max int, attempt func() (T, bool)) (T, bool) {
	for i := 0; i < max; i++ {
		if v, ok := attempt(); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
