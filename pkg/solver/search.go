package solver

import "context"

// searcher drives branch-and-bound search for the assignment of every
// variable in a model that satisfies its constraints and minimizes its
// compound objective, tracking the best complete assignment found so far
// (the incumbent) so later branches can be pruned once they can no longer
// improve on it.
type searcher struct {
	ctx context.Context
	m   *model

	bestFound bool
	bestObj   int64
	best      []int64
}

// search finds the assignment minimizing m.objective among every
// satisfying assignment of m's constraints.
//
// Variable selection always prefers the lowest-indexed free auxiliary
// variable (a soft-centering deviation introduced by postConstraint) over
// any ordinary cell corner variable. A deviation variable's own feasible
// minimum is invisible to propagation until it is branched -- its dependent
// position variable (the x1/y1/x2/y2 of whatever cell the centering
// constraint mentions) only collapses to the exact value that realizes that
// minimum once the deviation itself has a value to propagate from. Branching
// the position variable first, before its deviation is resolved, pins it to
// an arbitrary domain endpoint and then simply accepts whatever deviation
// that guess produces.
//
// Each free variable is branched by bisecting its current domain rather
// than trying only its two endpoints. A deviation variable's resolution
// generally narrows its dependent position variable to an interior range
// (see propagate's bound consistency on the pair of equalities a center
// constraint produces), and the point realizing zero deviation commonly
// sits at neither endpoint of that range; bisection combined with
// propagate's bound tightening converges onto it directly.
//
// Search does not stop at the first complete assignment: every objective
// coefficient is non-negative, so a partial assignment's lower bound is the
// sum of coefficient*currentLowerBound over the objective's variables, and
// once an incumbent exists, any branch whose lower bound already meets or
// exceeds it is abandoned without being explored further.
func search(ctx context.Context, m *model) ([]int64, error) {
	s := &searcher{ctx: ctx, m: m}
	if err := s.explore(); err != nil {
		return nil, err
	}
	if !s.bestFound {
		return nil, &InfeasibleError{Msg: "no feasible value for a free variable", ConstraintCount: len(m.linear) + len(m.minmax)}
	}
	return s.best, nil
}

// explore visits the current domain state in m.vs depth-first. A non-nil
// error reports timeout or an internal backend failure; an infeasible
// branch is reported by simply returning without improving the incumbent,
// not as an error.
func (s *searcher) explore() error {
	if err := s.ctx.Err(); err != nil {
		return &TimeoutError{Elapsed: err.Error()}
	}
	if s.m.vs.anyEmpty() {
		return nil
	}
	if s.bestFound && s.lowerBound() >= s.bestObj {
		return nil
	}

	idx, ok := nextFreeVar(s.m.vs)
	if !ok {
		values := make([]int64, s.m.vs.len())
		copy(values, s.m.vs.lb)
		if !validate(s.m, values) {
			return newBackendError("complete assignment failed final validation")
		}
		if obj := s.objectiveValue(values); !s.bestFound || obj < s.bestObj {
			s.bestFound = true
			s.bestObj = obj
			s.best = values
		}
		return nil
	}

	lbSnap, ubSnap := s.m.vs.snapshot()
	lb, ub := s.m.vs.lb[idx], s.m.vs.ub[idx]
	mid := lb + (ub-lb)/2
	halves := [2][2]int64{{lb, mid}, {mid + 1, ub}}

	for _, half := range halves {
		s.m.vs.restore(lbSnap, ubSnap)
		s.m.vs.lb[idx] = half[0]
		s.m.vs.ub[idx] = half[1]
		if !propagate(s.m) {
			continue
		}
		if err := s.explore(); err != nil {
			return err
		}
	}

	s.m.vs.restore(lbSnap, ubSnap)
	return nil
}

// lowerBound returns the smallest objective value reachable from the
// current domain state.
func (s *searcher) lowerBound() int64 {
	var bound int64
	for idx, coeff := range s.m.objective {
		bound += coeff * s.m.vs.lb[idx]
	}
	return bound
}

func (s *searcher) objectiveValue(values []int64) int64 {
	var total int64
	for idx, coeff := range s.m.objective {
		total += coeff * values[idx]
	}
	return total
}

// nextFreeVar returns the lowest-indexed non-singleton auxiliary variable,
// if one remains, otherwise the lowest-indexed non-singleton variable of
// any kind. Auxiliary variables are the soft-centering deviations allocated
// by allocAux; resolving them before the position variables that feed them
// lets those position variables be pinned by propagation instead of guessed.
func nextFreeVar(vs *varStore) (int, bool) {
	for i := range vs.lb {
		if vs.lb[i] != vs.ub[i] && vs.kind[i].isAux {
			return i, true
		}
	}
	for i := range vs.lb {
		if vs.lb[i] != vs.ub[i] {
			return i, true
		}
	}
	return 0, false
}
