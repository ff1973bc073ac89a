package solver

// maxPropagationRounds bounds the bound-consistency fixpoint loop; every
// round either tightens at least one domain or the loop stops, so this is a
// generous safety cap rather than a tuning knob.
const maxPropagationRounds = 10000

// propagate runs every linear and min/max constraint to a bound-consistency
// fixpoint, tightening m.vs in place. Returns false if any domain wiped out
// (a sound proof of infeasibility for the constraints propagated so far).
func propagate(m *model) bool {
	for round := 0; round < maxPropagationRounds; round++ {
		changed := false

		for _, lc := range m.linear {
			var c bool
			if lc.rel == relEq {
				c = tightenEq(m.vs, lc.terms, lc.rhs)
			} else {
				c = tightenLe(m.vs, lc.terms, lc.rhs)
			}
			changed = changed || c
			if m.vs.anyEmpty() {
				return false
			}
		}

		for _, mm := range m.minmax {
			c := mm.tighten(m.vs)
			changed = changed || c
			if m.vs.anyEmpty() {
				return false
			}
		}

		if !changed {
			break
		}
	}
	return !m.vs.anyEmpty()
}

// validate re-evaluates every constraint against a fully-assigned solution
// and reports whether it genuinely satisfies them. Used as a final guard
// after search concludes with every variable singleton: the bound-consistency
// propagation above is sound but not globally complete for arbitrary
// min/max/linear combinations, so this catches (rather than silently
// accepts) the rare assignment it failed to fully pin down.
func validate(m *model, values []int64) bool {
	for _, lc := range m.linear {
		sum := evaluateLinear(lc.terms, values)
		switch lc.rel {
		case relEq:
			if sum != lc.rhs {
				return false
			}
		case relLe:
			if sum > lc.rhs {
				return false
			}
		}
	}
	for _, mm := range m.minmax {
		best := values[mm.operands[0]]
		for _, o := range mm.operands[1:] {
			if mm.isMax && values[o] > best {
				best = values[o]
			}
			if !mm.isMax && values[o] < best {
				best = values[o]
			}
		}
		if values[mm.result] != best {
			return false
		}
	}
	return true
}
