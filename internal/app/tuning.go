package app

import "sync"

// Tuning carries settings changed while a run is in progress.
// Nil fields are left as they are.
type Tuning struct {
	XOR        *bool
	MaxChanges *int
}

// Empty reports whether the tuning changes nothing.
func (t Tuning) Empty() bool {
	return t.XOR == nil && t.MaxChanges == nil
}

// merge overlays the fields set in newer.
func (t Tuning) merge(newer Tuning) Tuning {
	if newer.XOR != nil {
		t.XOR = newer.XOR
	}
	if newer.MaxChanges != nil {
		t.MaxChanges = newer.MaxChanges
	}
	return t
}

// tuningQueue collects tunings from any goroutine until the run loop takes
// them on a frame boundary. Later values win.
type tuningQueue struct {
	mu      sync.Mutex
	pending Tuning
}

func (q *tuningQueue) push(t Tuning) {
	q.mu.Lock()
	q.pending = q.pending.merge(t)
	q.mu.Unlock()
}

func (q *tuningQueue) take() Tuning {
	q.mu.Lock()
	defer q.mu.Unlock()
	t := q.pending
	q.pending = Tuning{}
	return t
}
