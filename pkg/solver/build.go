package solver

import (
	"fmt"

	"github.com/StevenJWChen/layout-automation/pkg/cellmodel"
	"github.com/StevenJWChen/layout-automation/pkg/constraint"
)

// buildModel performs a DFS model construction: every mobile cell becomes
// four free corner variables; every frozen/fixed cell becomes a size-locked
// rigid block with its interior left unmodeled (the solver never descends
// past a frozen/fixed boundary); every container with visible children and
// no self-constraint of its own gets a native min/max aggregation constraint
// over its direct children's corners (see visit); every constraint on a cell's own list is translated into linear
// (or soft-penalty) form once its subject/object variables exist.
//
// Constraints are processed in post-order per cell (children fully visited,
// then the cell's own constraint list, then its aggregation), so a
// constraint's subject/object lookups can only hit cells already present in
// cellVars: self, or something inside the subtree just visited. A lookup
// miss at that point means the referenced cell lies outside the owning
// container's subtree entirely, which is exactly the ScopeError condition.
func buildModel(root *cellmodel.Cell, opts Options) (*model, error) {
	m := newModel(opts)
	if _, err := m.visit(root); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *model) visit(c *cellmodel.Cell) (cellVars, error) {
	if c.FreezeState() != cellmodel.StateNormal {
		bb, ok := c.CachedBBox()
		if !ok {
			return cellVars{}, newBackendError("cell %q is frozen/fixed but has no cached bbox", c.Name())
		}
		cv := m.allocBlock(c.ID(), c.Name())
		m.addSizeLock(cv, bb.Width(), bb.Height())
		return cv, nil
	}

	cv := m.allocBlock(c.ID(), c.Name())
	m.addMinSize(cv)

	var childVars []cellVars
	for _, child := range c.Children() {
		chv, err := m.visit(child)
		if err != nil {
			return cellVars{}, err
		}
		childVars = append(childVars, chv)
	}

	hasSelfConstraint := false
	for _, rc := range c.Constraints() {
		if rc.Shape == constraint.ShapeSelf {
			hasSelfConstraint = true
		}
		if err := m.postConstraint(c, rc); err != nil {
			return cellVars{}, err
		}
	}

	// A container that explicitly self-constrains its own extent (e.g. a
	// fixed "width = 100, height = 100") is not also tightly aggregated from
	// its children: the two would generally conflict whenever the children
	// don't happen to fill the explicit extent exactly, as in a centered
	// child smaller than its parent. Bounding-box aggregation is the default
	// sizing behavior for a container that leaves its own extent
	// unconstrained; an explicit self-constraint overrides it.
	if c.Kind() == cellmodel.KindContainer && len(childVars) > 0 && !hasSelfConstraint {
		m.addAggregation(cv, childVars)
	}

	return cv, nil
}

func (m *model) postConstraint(owner *cellmodel.Cell, rc cellmodel.RawConstraint) error {
	exprs, err := constraint.Parse(rc.Expr, rc.Shape)
	if err != nil {
		return err
	}

	subjectVars, ok := m.cellVars[rc.Subject.ID()]
	if !ok {
		return constraint.NewScopeError("constraint owned by %q references %q, which is not one of its descendants", owner.Name(), rc.Subject.Name())
	}
	var objectVars cellVars
	if rc.Object != nil {
		objectVars, ok = m.cellVars[rc.Object.ID()]
		if !ok {
			return constraint.NewScopeError("constraint owned by %q references %q, which is not one of its descendants", owner.Name(), rc.Object.Name())
		}
	}

	for i, e := range exprs {
		terms := make(map[int]int64, len(e.Terms))
		for v, coeff := range e.Terms {
			idx, err := m.varIndex(v, subjectVars, objectVars)
			if err != nil {
				return err
			}
			terms[idx] += int64(coeff)
		}

		if e.Soft {
			d := m.allocAux(fmt.Sprintf("%s[%d].dev", owner.Name(), i))
			pos := make(map[int]int64, len(terms)+1)
			neg := make(map[int]int64, len(terms)+1)
			for idx, coeff := range terms {
				pos[idx] = coeff
				neg[idx] = -coeff
			}
			pos[d] = -1
			neg[d] = -1
			// -d <= terms.x - rhs <= d, i.e. the deviation from centered is
			// bounded by the auxiliary penalty variable in both directions.
			m.linear = append(m.linear, newLe(pos, int64(e.RHS)))
			m.linear = append(m.linear, newLe(neg, -int64(e.RHS)))
			continue
		}

		switch e.Rel {
		case constraint.RelEq:
			m.linear = append(m.linear, newEq(terms, int64(e.RHS)))
		case constraint.RelLe:
			m.linear = append(m.linear, newLe(terms, int64(e.RHS)))
		case constraint.RelGe:
			m.linear = append(m.linear, newGe(terms, int64(e.RHS)))
		case constraint.RelLt:
			// Strict relations translate to a non-strict bound tightened by
			// one DB unit; every quantity here is integral.
			m.linear = append(m.linear, newLe(terms, int64(e.RHS)-1))
		case constraint.RelGt:
			m.linear = append(m.linear, newGe(terms, int64(e.RHS)+1))
		}
	}
	return nil
}

func (m *model) varIndex(v constraint.Var, subject, object cellVars) (int, error) {
	switch v {
	case constraint.SX1:
		return subject[compX1], nil
	case constraint.SY1:
		return subject[compY1], nil
	case constraint.SX2:
		return subject[compX2], nil
	case constraint.SY2:
		return subject[compY2], nil
	case constraint.OX1:
		return object[compX1], nil
	case constraint.OY1:
		return object[compY1], nil
	case constraint.OX2:
		return object[compX2], nil
	case constraint.OY2:
		return object[compY2], nil
	}
	return 0, newBackendError("unknown constraint variable %v", v)
}
