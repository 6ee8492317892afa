package record

import (
	"fmt"

	"github.com/bft-labs/deltaship/internal/domain"
)

// Assignment sets one record.
type Assignment struct {
	Slot   int
	Record Record
}

// Step is a group of assignments applied before one frame.
type Step []Assignment

// ScriptedGenerator replays a fixed list of steps.
type ScriptedGenerator struct {
	steps []Step
	next  int
}

// NewScriptedGenerator returns a generator replaying steps in order.
func NewScriptedGenerator(steps ...Step) *ScriptedGenerator {
	return &ScriptedGenerator{steps: steps}
}

// ManualScript returns the two hand-written states used to check a table of
// at least 1000 records by eye.
func ManualScript() []Step {
	return []Step{
		{
			{0, Record{0, 0}},
			{1, Record{2, 55}},
			{2, Record{8, 310}},
			{3, Record{99, 0}},
			{800, Record{800, 801}},
			{999, Record{9999, -9999}},
		},
		{
			{0, Record{0, 1}},
			{1, Record{2, 55}},
			{2, Record{8, 311}},
			{3, Record{99, 77}},
			{800, Record{801, 799}},
			{999, Record{9999, 9999}},
		},
	}
}

// Remaining returns the number of steps not yet applied.
func (g *ScriptedGenerator) Remaining() int {
	return len(g.steps) - g.next
}

// Advance applies the next step; it returns false once the script is done.
func (g *ScriptedGenerator) Advance(state domain.Frame) (bool, error) {
	if g.next >= len(g.steps) {
		return false, nil
	}
	t, err := NewTable(state)
	if err != nil {
		return false, err
	}

	step := g.steps[g.next]
	for _, a := range step {
		if a.Slot < 0 || a.Slot >= t.Len() {
			return false, fmt.Errorf("step %d: slot %d outside table of %d records", g.next, a.Slot, t.Len())
		}
	}
	for _, a := range step {
		t.Set(a.Slot, a.Record)
	}
	g.next++
	return true, nil
}
