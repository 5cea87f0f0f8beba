package convergence

import "strings"

// TargetState is the status text a resource must report to count as done.
// Provider status text carries prefixes and varies between API versions, so
// matching is substring containment rather than equality.
type TargetState string

const (
	TargetRunning     TargetState = "VM running"
	TargetDeallocated TargetState = "VM deallocated"
)

// MatchedBy reports whether a reported status satisfies the target.
func (t TargetState) MatchedBy(status string) bool {
	return t != "" && strings.Contains(status, string(t))
}

// Set tracks which resources of a batch still await the target state.
// Completed()+len(Remaining()) == Total() holds at every observation point
// and names only ever leave the remaining list.
type Set struct {
	total     int
	completed int
	remaining []string
}

// NewSet builds a set from names in the given order. Duplicates and empty
// names are dropped.
func NewSet(names []string) *Set {
	seen := make(map[string]struct{}, len(names))
	remaining := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		remaining = append(remaining, n)
	}
	return &Set{total: len(remaining), remaining: remaining}
}

func (s *Set) Total() int {
	return s.total
}

func (s *Set) Completed() int {
	return s.completed
}

// Remaining returns a copy of the names still pending, in initial order.
func (s *Set) Remaining() []string {
	return append([]string(nil), s.remaining...)
}

func (s *Set) Done() bool {
	return len(s.remaining) == 0
}

// complete moves the given names out of remaining. Names that are not
// pending are ignored, so a resource can never be counted twice.
func (s *Set) complete(names []string) int {
	if len(names) == 0 {
		return 0
	}
	done := make(map[string]struct{}, len(names))
	for _, n := range names {
		done[n] = struct{}{}
	}
	kept := s.remaining[:0]
	moved := 0
	for _, n := range s.remaining {
		if _, ok := done[n]; ok {
			moved++
			continue
		}
		kept = append(kept, n)
	}
	s.remaining = kept
	s.completed += moved
	return moved
}
