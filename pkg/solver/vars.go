package solver

import "github.com/StevenJWChen/layout-automation/pkg/cellmodel"

// component identifies which corner of a cell's block a variable represents.
type component int

const (
	compX1 component = iota
	compY1
	compX2
	compY2
)

func (c component) String() string {
	switch c {
	case compX1:
		return "x1"
	case compY1:
		return "y1"
	case compX2:
		return "x2"
	case compY2:
		return "y2"
	}
	return "?"
}

// varKind records what a variable index stands for, purely for diagnostics.
type varKind struct {
	cell  cellmodel.ID
	comp  component
	isAux bool
	label string
}

// varStore is the flat array of integer variable domains the model is built
// over. Domains are closed intervals [lb,ub] of DB-unit coordinates; every
// domain starts non-negative, matching the engine's convention that DB-unit
// coordinates are drawn from [0, CoordMax] (see model.go for why this
// deviates from a symmetric bound).
type varStore struct {
	lb, ub []int64
	kind   []varKind
}

func newVarStore() *varStore {
	return &varStore{}
}

func (vs *varStore) alloc(lb, ub int64, kind varKind) int {
	idx := len(vs.lb)
	vs.lb = append(vs.lb, lb)
	vs.ub = append(vs.ub, ub)
	vs.kind = append(vs.kind, kind)
	return idx
}

func (vs *varStore) len() int { return len(vs.lb) }

func (vs *varStore) singleton(i int) bool { return vs.lb[i] == vs.ub[i] }

func (vs *varStore) allSingleton() bool {
	for i := range vs.lb {
		if vs.lb[i] > vs.ub[i] {
			return false
		}
		if vs.lb[i] != vs.ub[i] {
			return false
		}
	}
	return true
}

func (vs *varStore) empty(i int) bool { return vs.lb[i] > vs.ub[i] }

func (vs *varStore) anyEmpty() bool {
	for i := range vs.lb {
		if vs.lb[i] > vs.ub[i] {
			return true
		}
	}
	return false
}

// snapshot returns an independent copy of the current domains, used to take a
// checkpoint before a speculative branch assignment.
func (vs *varStore) snapshot() ([]int64, []int64) {
	lb := make([]int64, len(vs.lb))
	ub := make([]int64, len(vs.ub))
	copy(lb, vs.lb)
	copy(ub, vs.ub)
	return lb, ub
}

func (vs *varStore) restore(lb, ub []int64) {
	copy(vs.lb, lb)
	copy(vs.ub, ub)
}
