package engine

import "sync/atomic"

// Stats aggregates counters mutated concurrently by all workers. Increments
// are atomic and independent; no compound transaction is ever needed. The
// total is fixed at construction.
type Stats struct {
	checked atomic.Int64
	updated atomic.Int64
	unclean atomic.Int64
	total   int64
}

type StatsSnapshot struct {
	Checked int
	Updated int
	Unclean int
	Total   int
}

func NewStats(total int) *Stats {
	return &Stats{total: int64(total)}
}

// IncChecked marks one task as dequeued and returns the running count, used
// to derive the completion percentage.
func (s *Stats) IncChecked() int {
	return int(s.checked.Add(1))
}

func (s *Stats) IncUpdated() {
	s.updated.Add(1)
}

func (s *Stats) IncUnclean() {
	s.unclean.Add(1)
}

func (s *Stats) Total() int {
	return int(s.total)
}

func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Checked: int(s.checked.Load()),
		Updated: int(s.updated.Load()),
		Unclean: int(s.unclean.Load()),
		Total:   int(s.total),
	}
}
