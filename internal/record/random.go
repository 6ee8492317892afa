package record

import (
	"math/rand"
	"sync"

	"github.com/bft-labs/deltaship/internal/domain"
)

// DefaultMaxChanges bounds how many records a random step touches.
const DefaultMaxChanges = 20

// RandomGenerator changes a handful of random records per step and bumps the
// sequence number in record 0. The same seed yields the same sequence.
type RandomGenerator struct {
	rng *rand.Rand

	mu         sync.Mutex
	maxChanges int
}

// NewRandomGenerator returns a generator seeded with seed.
func NewRandomGenerator(seed int64, maxChanges int) *RandomGenerator {
	if maxChanges <= 0 {
		maxChanges = DefaultMaxChanges
	}
	return &RandomGenerator{
		rng:        rand.New(rand.NewSource(seed)),
		maxChanges: maxChanges,
	}
}

// SetMaxChanges changes the per-step bound; safe to call from any goroutine.
func (g *RandomGenerator) SetMaxChanges(n int) {
	if n <= 0 {
		return
	}
	g.mu.Lock()
	g.maxChanges = n
	g.mu.Unlock()
}

// MaxChanges returns the per-step bound.
func (g *RandomGenerator) MaxChanges() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.maxChanges
}

// Advance mutates state. It never runs out.
func (g *RandomGenerator) Advance(state domain.Frame) (bool, error) {
	t, err := NewTable(state)
	if err != nil {
		return false, err
	}

	// Slot 0 is reserved for the sequence number.
	if t.Len() > 1 {
		for n := g.rng.Intn(g.MaxChanges()); n > 0; n-- {
			slot := 1 + g.rng.Intn(t.Len()-1)
			t.Set(slot, Record{
				Topic: int16((g.rng.Int() & 0xFFFF) + 1),
				Data:  int32(g.rng.Int() & 0xFFFF),
			})
		}
	}
	t.BumpSequence()
	return true, nil
}
