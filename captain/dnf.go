package captain

import "github.com/spookygames/captain/board"

// DNF is a disjunction-of-conjunctions of defender locations whose removal
// would open at least one path from a source to a destination (spec.md
// §3, "Removal DNF"). Free means the destination is already reachable
// without any removal ("None" in the spec's terms). A DNF with Free=false
// and no conjunctions is unreachable regardless of removals.
type DNF struct {
	Free         bool
	Conjunctions [][]board.Loc
}

// freeDNF is the "None" / always-true removal requirement.
func freeDNF() DNF { return DNF{Free: true} }

// unreachableDNF is the empty-disjunction / always-false requirement.
func unreachableDNF() DNF { return DNF{} }

// addConjunction inserts a conjunction into d, dropping it if a subset
// conjunction is already present (the spec's DNF is "any conjunction
// lists a set..."; keeping only minimal sets avoids redundant assumptions
// downstream) and dropping any existing supersets it replaces.
func (d DNF) addConjunction(locs []board.Loc) DNF {
	if d.Free {
		return d
	}
	if len(locs) == 0 {
		return freeDNF()
	}
	cand := dedupSortLocs(locs)
	var kept [][]board.Loc
	for _, c := range d.Conjunctions {
		if isSubsetLocs(c, cand) {
			// existing conjunction already dominates the candidate.
			return d
		}
		if !isSubsetLocs(cand, c) {
			kept = append(kept, c)
		}
	}
	kept = append(kept, cand)
	return DNF{Conjunctions: kept}
}

// Evaluate reports whether the DNF is satisfied given the set of locations
// assumed removed.
func (d DNF) Evaluate(removed map[board.Loc]bool) bool {
	if d.Free {
		return true
	}
	for _, conj := range d.Conjunctions {
		ok := true
		for _, l := range conj {
			if !removed[l] {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// SatisfiedConjunction returns the first conjunction of d, in stored
// order, that is fully satisfied by removed — the "chosen path" spec.md
// §4.7 step 6 asks the generator to tag timing edges against. ok is false
// when d is Free (no removal is required in the first place, so there is
// no conjunction to report) or when no conjunction is currently satisfied.
func (d DNF) SatisfiedConjunction(removed map[board.Loc]bool) (conj []board.Loc, ok bool) {
	if d.Free {
		return nil, false
	}
	for _, c := range d.Conjunctions {
		satisfied := true
		for _, l := range c {
			if !removed[l] {
				satisfied = false
				break
			}
		}
		if satisfied {
			return c, true
		}
	}
	return nil, false
}

// Filtered returns d with every conjunction mentioning a location in
// `surviving` (assumed NOT removed) dropped, the per-iteration rebuild
// described in spec.md §4.7 step 3.
func (d DNF) Filtered(surviving map[board.Loc]bool) DNF {
	if d.Free {
		return d
	}
	var kept [][]board.Loc
	for _, conj := range d.Conjunctions {
		blocked := false
		for _, l := range conj {
			if surviving[l] {
				blocked = true
				break
			}
		}
		if !blocked {
			kept = append(kept, conj)
		}
	}
	return DNF{Conjunctions: kept}
}

func dedupSortLocs(in []board.Loc) []board.Loc {
	seen := make(map[board.Loc]bool, len(in))
	out := make([]board.Loc, 0, len(in))
	for _, l := range in {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].Idx() > out[j].Idx(); j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func isSubsetLocs(a, b []board.Loc) bool {
	set := make(map[board.Loc]bool, len(b))
	for _, l := range b {
		set[l] = true
	}
	for _, l := range a {
		if !set[l] {
			return false
		}
	}
	return true
}
