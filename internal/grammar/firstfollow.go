package grammar

// FirstSets maps every grammar symbol (terminal and non-terminal) to its
// FIRST set, computed over a finalized Grammar by iterative fixpoint.
type FirstSets map[string]map[string]bool

// FollowSets maps every non-terminal to its FOLLOW set, which may contain
// EndOfInput when that non-terminal can be the last symbol derived from the
// start symbol.
type FollowSets map[string]map[string]bool

// First computes FIRST(X) for every symbol X appearing in g: every terminal
// has FIRST(t) = {t}; FIRST(ε)'s sentinel is never placed in a FIRST set
// directly, but a non-terminal that can derive ε carries "ε" as a member of
// its own FIRST set so First and Follow below can detect nullability.
func First(g *Grammar) FirstSets {
	first := FirstSets{}

	for t := range g.terminals {
		first[t] = map[string]bool{t: true}
	}
	for _, nt := range g.headOrder {
		first[nt] = map[string]bool{}
	}

	changed := true
	for changed {
		changed = false
		for _, head := range g.headOrder {
			for _, body := range g.productions[head] {
				if body.IsEpsilon() {
					if !first[head][Epsilon[0]] {
						first[head][Epsilon[0]] = true
						changed = true
					}
					continue
				}

				allNullableSoFar := true
				for _, sym := range body {
					symFirst := first[sym]
					for f := range symFirst {
						if f == Epsilon[0] {
							continue
						}
						if !first[head][f] {
							first[head][f] = true
							changed = true
						}
					}
					if !symFirst[Epsilon[0]] {
						allNullableSoFar = false
						break
					}
				}
				if allNullableSoFar {
					if !first[head][Epsilon[0]] {
						first[head][Epsilon[0]] = true
						changed = true
					}
				}
			}
		}
	}

	return first
}

// firstOfSequence computes FIRST of a string of symbols (used internally by
// Follow): the union of FIRST of each symbol up to and including the first
// non-nullable one, including ε if the whole sequence is nullable.
func firstOfSequence(seq []string, first FirstSets) map[string]bool {
	result := map[string]bool{}
	allNullable := true
	for _, sym := range seq {
		symFirst := first[sym]
		for f := range symFirst {
			if f != Epsilon[0] {
				result[f] = true
			}
		}
		if !symFirst[Epsilon[0]] {
			allNullable = false
			break
		}
	}
	if allNullable {
		result[Epsilon[0]] = true
	}
	return result
}

// Follow computes FOLLOW(A) for every non-terminal A in g, given its
// precomputed FirstSets, by iterative fixpoint per spec.md §4.2. The start
// symbol's FOLLOW set always contains EndOfInput.
func Follow(g *Grammar, first FirstSets) FollowSets {
	follow := FollowSets{}
	for _, nt := range g.headOrder {
		follow[nt] = map[string]bool{}
	}
	follow[g.StartSymbol()][EndOfInput] = true

	changed := true
	for changed {
		changed = false
		for _, head := range g.headOrder {
			for _, body := range g.productions[head] {
				if body.IsEpsilon() {
					continue
				}
				for i, sym := range body {
					if !g.nonTerminals[sym] {
						continue
					}
					rest := body[i+1:]
					restFirst := firstOfSequence(rest, first)
					for f := range restFirst {
						if f == Epsilon[0] {
							continue
						}
						if !follow[sym][f] {
							follow[sym][f] = true
							changed = true
						}
					}
					if len(rest) == 0 || restFirst[Epsilon[0]] {
						for f := range follow[head] {
							if !follow[sym][f] {
								follow[sym][f] = true
								changed = true
							}
						}
					}
				}
			}
		}
	}

	return follow
}
