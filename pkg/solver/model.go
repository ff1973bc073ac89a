package solver

import "github.com/StevenJWChen/layout-automation/pkg/cellmodel"

// DefaultCoordMax is the default magnitude bound for every corner variable,
// on the order of the 10^8 DB-unit range a real physical-design layout
// operates in (pkg/config exposes this as Solver.CoordMax).
const DefaultCoordMax = 100_000_000

// DefaultCenterWeight is the default penalty weight W_c applied to soft
// centering deviations in the compound objective: one DB unit of centering
// deviation costs as much as 10,000 DB units of the x2+y2 compactness sum.
// It is a fixed constant and does not change with CoordMax.
const DefaultCenterWeight = 10_000

// Options configures one Solve call.
type Options struct {
	// CoordMax bounds every corner variable's domain to [0, CoordMax].
	// Coordinates are modeled as non-negative: DB units conventionally
	// originate at the die/cell origin, and a symmetric [-CoordMax,CoordMax]
	// domain would let the compactness objective drift the whole layout
	// toward the negative boundary instead of hugging the origin.
	CoordMax int64
	// CenterWeight is W_c, the soft-centering penalty weight.
	CenterWeight int64
}

func (o Options) withDefaults() Options {
	if o.CoordMax <= 0 {
		o.CoordMax = DefaultCoordMax
	}
	if o.CenterWeight <= 0 {
		o.CenterWeight = DefaultCenterWeight
	}
	return o
}

// cellVars holds the four corner-variable indices for one modeled cell
// block, in component order X1,Y1,X2,Y2.
type cellVars [4]int

// model is the flat CP model built by build.go from a cell tree, consumed by
// propagate.go and search.go.
type model struct {
	opts Options

	vs *varStore

	linear []linConstraint
	minmax []minMaxConstraint

	// objective maps a variable index to its non-negative coefficient in the
	// compound objective (sum of x2/y2 over every modeled block, plus
	// W_c * every soft-centering deviation variable).
	objective map[int]int64

	// cellVars maps every cell visited during construction (mobile or
	// frozen/fixed rigid block) to its four variable indices. Lookup misses
	// during constraint translation indicate the referenced cell is not a
	// descendant of the container that owns the constraint: a ScopeError.
	cellVars map[cellmodel.ID]cellVars

	// order preserves DFS visitation order of cellVars' keys, for
	// deterministic iteration (tests, diagnostics).
	order []cellmodel.ID
}

func newModel(opts Options) *model {
	return &model{
		opts:      opts.withDefaults(),
		vs:        newVarStore(),
		objective: make(map[int]int64),
		cellVars:  make(map[cellmodel.ID]cellVars),
	}
}

func (m *model) allocBlock(id cellmodel.ID, label string) cellVars {
	var cv cellVars
	cv[compX1] = m.vs.alloc(0, m.opts.CoordMax, varKind{cell: id, comp: compX1, label: label})
	cv[compY1] = m.vs.alloc(0, m.opts.CoordMax, varKind{cell: id, comp: compY1, label: label})
	cv[compX2] = m.vs.alloc(0, m.opts.CoordMax, varKind{cell: id, comp: compX2, label: label})
	cv[compY2] = m.vs.alloc(0, m.opts.CoordMax, varKind{cell: id, comp: compY2, label: label})
	m.cellVars[id] = cv
	m.order = append(m.order, id)
	m.objective[cv[compX2]] += 1
	m.objective[cv[compY2]] += 1
	return cv
}

func (m *model) allocAux(label string) int {
	idx := m.vs.alloc(0, 2*m.opts.CoordMax, varKind{isAux: true, label: label})
	m.objective[idx] += m.opts.CenterWeight
	return idx
}

func (m *model) addMinSize(cv cellVars) {
	m.linear = append(m.linear, newGe(map[int]int64{cv[compX2]: 1, cv[compX1]: -1}, 1))
	m.linear = append(m.linear, newGe(map[int]int64{cv[compY2]: 1, cv[compY1]: -1}, 1))
}

func (m *model) addSizeLock(cv cellVars, w, h int32) {
	m.linear = append(m.linear, newEq(map[int]int64{cv[compX2]: 1, cv[compX1]: -1}, int64(w)))
	m.linear = append(m.linear, newEq(map[int]int64{cv[compY2]: 1, cv[compY1]: -1}, int64(h)))
}

func (m *model) addAggregation(parent cellVars, children []cellVars) {
	xs1 := make([]int, len(children))
	ys1 := make([]int, len(children))
	xs2 := make([]int, len(children))
	ys2 := make([]int, len(children))
	for i, c := range children {
		xs1[i] = c[compX1]
		ys1[i] = c[compY1]
		xs2[i] = c[compX2]
		ys2[i] = c[compY2]
	}
	m.minmax = append(m.minmax, minMaxConstraint{result: parent[compX1], operands: xs1, isMax: false})
	m.minmax = append(m.minmax, minMaxConstraint{result: parent[compY1], operands: ys1, isMax: false})
	m.minmax = append(m.minmax, minMaxConstraint{result: parent[compX2], operands: xs2, isMax: true})
	m.minmax = append(m.minmax, minMaxConstraint{result: parent[compY2], operands: ys2, isMax: true})
}
