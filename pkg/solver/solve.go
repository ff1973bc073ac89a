package solver

import (
	"context"

	"github.com/StevenJWChen/layout-automation/pkg/cellmodel"
)

// Solve builds a CP model from root's subtree and constraint lists, finds an
// assignment minimizing the compound compactness/centering objective, and
// commits the result back onto the tree via Cell.SetSolved. The tree is left
// untouched on any error (Infeasible, Timeout, or Backend) -- the commit
// step only runs after search has produced a complete, validated assignment.
//
// Re-solving an already-solved tree is idempotent: model construction and
// propagation never read a cell's existing Pos, so the same tree and
// constraints always produce the same committed result.
func Solve(ctx context.Context, root *cellmodel.Cell, opts Options) error {
	m, err := buildModel(root, opts)
	if err != nil {
		return err
	}

	if !propagate(m) {
		return &InfeasibleError{Msg: "no assignment satisfies the posted constraints", ConstraintCount: len(m.linear) + len(m.minmax)}
	}

	values, err := search(ctx, m)
	if err != nil {
		return err
	}

	commit(root, m, values)
	return nil
}

// commit mirrors buildModel's visit: it writes every modeled cell's solved
// rectangle, recurses into mobile children, and for a fixed cell additionally
// rewrites every descendant's position from its snapshotted fix offset
// (frozen descendants are left untouched entirely, matching their opaque,
// non-participating role in the model).
func commit(c *cellmodel.Cell, m *model, values []int64) {
	cv, ok := m.cellVars[c.ID()]
	if !ok {
		return
	}

	r := cellmodel.Rect{
		X1: int32(values[cv[compX1]]),
		Y1: int32(values[cv[compY1]]),
		X2: int32(values[cv[compX2]]),
		Y2: int32(values[cv[compY2]]),
	}
	c.SetSolved(r)

	switch c.FreezeState() {
	case cellmodel.StateFixed:
		for _, d := range c.Descendants() {
			off, ok := c.FixOffset(d.ID())
			if !ok {
				continue
			}
			d.SetSolved(cellmodel.Rect{
				X1: r.X1 + off.X1,
				Y1: r.Y1 + off.Y1,
				X2: r.X1 + off.X2,
				Y2: r.Y1 + off.Y2,
			})
		}
	case cellmodel.StateNormal:
		for _, child := range c.Children() {
			commit(child, m, values)
		}
	}
}
