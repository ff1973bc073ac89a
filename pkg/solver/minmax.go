package solver

// minMaxConstraint expresses the native bounding-box aggregation invariant:
// result = min(operands...) or result = max(operands...), enforced as a
// single constraint rather than expanded into one inequality per operand, so
// cost stays O(children) per container instead of O(children^2) and so the
// equality (not just the one-sided bound) is actually enforced.
type minMaxConstraint struct {
	result   int
	operands []int
	isMax    bool
}

// tighten applies bound consistency for a min/max aggregation constraint.
// The one-sided bound (result <= min of upper bounds, for example) always
// holds and is cheap to maintain incrementally. The reverse direction (an
// operand must actually attain the aggregate) is only closed precisely once
// every operand is a singleton, at which point result is pinned exactly;
// until then a conservative bound keeps result from drifting arbitrarily
// far from its operands.
func (m minMaxConstraint) tighten(vs *varStore) bool {
	if m.isMax {
		return tightenMax(vs, m.result, m.operands)
	}
	return tightenMin(vs, m.result, m.operands)
}

func tightenMin(vs *varStore, result int, operands []int) bool {
	changed := false

	allSingleton := true
	minUB := vs.ub[operands[0]]
	minLB := vs.lb[operands[0]]
	for _, o := range operands {
		if vs.ub[o] < minUB {
			minUB = vs.ub[o]
		}
		if vs.lb[o] < minLB {
			minLB = vs.lb[o]
		}
		if !vs.singleton(o) {
			allSingleton = false
		}
	}

	if allSingleton {
		v := vs.lb[operands[0]]
		for _, o := range operands[1:] {
			if vs.lb[o] < v {
				v = vs.lb[o]
			}
		}
		if vs.lb[result] != v || vs.ub[result] != v {
			vs.lb[result], vs.ub[result] = v, v
			changed = true
		}
		return changed
	}

	if minUB < vs.ub[result] {
		vs.ub[result] = minUB
		changed = true
	}
	if minLB > vs.lb[result] {
		vs.lb[result] = minLB
		changed = true
	}
	for _, o := range operands {
		if vs.lb[result] > vs.lb[o] {
			vs.lb[o] = vs.lb[result]
			changed = true
		}
	}
	return changed
}

func tightenMax(vs *varStore, result int, operands []int) bool {
	changed := false

	allSingleton := true
	maxUB := vs.ub[operands[0]]
	maxLB := vs.lb[operands[0]]
	for _, o := range operands {
		if vs.ub[o] > maxUB {
			maxUB = vs.ub[o]
		}
		if vs.lb[o] > maxLB {
			maxLB = vs.lb[o]
		}
		if !vs.singleton(o) {
			allSingleton = false
		}
	}

	if allSingleton {
		v := vs.lb[operands[0]]
		for _, o := range operands[1:] {
			if vs.lb[o] > v {
				v = vs.lb[o]
			}
		}
		if vs.lb[result] != v || vs.ub[result] != v {
			vs.lb[result], vs.ub[result] = v, v
			changed = true
		}
		return changed
	}

	if maxLB > vs.lb[result] {
		vs.lb[result] = maxLB
		changed = true
	}
	if maxUB < vs.ub[result] {
		vs.ub[result] = maxUB
		changed = true
	}
	for _, o := range operands {
		if vs.ub[result] < vs.ub[o] {
			vs.ub[o] = vs.ub[result]
			changed = true
		}
	}
	return changed
}
