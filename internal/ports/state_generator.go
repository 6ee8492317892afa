package ports

import "github.com/bft-labs/deltaship/internal/domain"

// StateGenerator mutates the sender's state in place between frames.
type StateGenerator interface {
	// Advance applies the next round of changes to state.
	// It returns false once the generator has nothing more to apply.
	Advance(state domain.Frame) (bool, error)
}
