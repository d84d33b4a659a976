package ticket

import (
	"sort"

	"github.com/holiman/uint256"
)

// MaxSecrets bounds the retained set, and with it both the encoded payment
// size and the cost of verifying it.
const MaxSecrets = 10

// AccumulatorStats counts how offered candidates were handled.
type AccumulatorStats struct {
	Accepted   uint64 // inserted, with or without an eviction
	Rejected   uint64 // below the minimum of a full set
	Evicted    uint64 // retained entries pushed out
	Duplicates uint64 // already retained
}

// Accumulator keeps the highest-valued candidates offered to it, up to a
// fixed capacity, together with the running total of their values. The
// total uses wrapping 256-bit arithmetic and always equals the sum of the
// retained values. It is not safe for concurrent use.
type Accumulator struct {
	entries  []Candidate // ascending by (value, secret)
	total    uint256.Int
	capacity int
	stats    AccumulatorStats
}

// NewAccumulator returns an empty accumulator holding at most MaxSecrets.
func NewAccumulator() *Accumulator {
	return newAccumulator(MaxSecrets)
}

func newAccumulator(capacity int) *Accumulator {
	return &Accumulator{
		entries:  make([]Candidate, 0, capacity),
		capacity: capacity,
	}
}

// Offer presents c for retention and reports whether it was inserted.
//
// While the set has room every candidate is inserted. Once full, a
// candidate valued strictly below the current minimum is rejected;
// otherwise the minimum is evicted to make room. A candidate already
// retained is rejected without touching the total.
func (a *Accumulator) Offer(c Candidate) bool {
	if c.Value == nil {
		return false
	}
	idx := sort.Search(len(a.entries), func(i int) bool {
		return !a.entries[i].Less(&c)
	})
	if idx < len(a.entries) && a.entries[idx].same(&c) {
		a.stats.Duplicates++
		return false
	}

	if len(a.entries) >= a.capacity {
		lowest := &a.entries[0]
		if c.Value.Lt(lowest.Value) {
			a.stats.Rejected++
			return false
		}
		a.total.Sub(&a.total, lowest.Value)
		copy(a.entries, a.entries[1:])
		a.entries = a.entries[:len(a.entries)-1]
		a.stats.Evicted++
		if idx > 0 {
			idx--
		}
	}

	c = c.Copy()
	a.entries = append(a.entries, Candidate{})
	copy(a.entries[idx+1:], a.entries[idx:])
	a.entries[idx] = c
	a.total.Add(&a.total, c.Value)
	a.stats.Accepted++
	return true
}

// Reached reports whether the running total is at least target.
func (a *Accumulator) Reached(target *uint256.Int) bool {
	return !a.total.Lt(target)
}

// Total returns a copy of the running total.
func (a *Accumulator) Total() *uint256.Int {
	return new(uint256.Int).Set(&a.total)
}

// Len returns the number of retained candidates.
func (a *Accumulator) Len() int { return len(a.entries) }

// Min returns the lowest retained candidate.
func (a *Accumulator) Min() (Candidate, bool) {
	if len(a.entries) == 0 {
		return Candidate{}, false
	}
	return a.entries[0].Copy(), true
}

// Stats returns the offer counters.
func (a *Accumulator) Stats() AccumulatorStats { return a.stats }

// Candidates returns a copy of the retained set in ascending order.
func (a *Accumulator) Candidates() []Candidate {
	out := make([]Candidate, len(a.entries))
	for i, c := range a.entries {
		out[i] = c.Copy()
	}
	return out
}

// Drain returns the retained set in ascending order and resets the
// accumulator to empty.
func (a *Accumulator) Drain() []Candidate {
	out := a.entries
	a.entries = make([]Candidate, 0, a.capacity)
	a.total.Clear()
	return out
}
