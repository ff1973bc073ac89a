package solver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StevenJWChen/layout-automation/pkg/cellmodel"
	"github.com/StevenJWChen/layout-automation/pkg/constraint"
)

func TestScenarioA_CenteredChildInFixedParent(t *testing.T) {
	p := cellmodel.NewContainer("P")
	c := cellmodel.NewLeaf("C", "metal1")
	require.NoError(t, p.ConstrainSelf("width = 100, height = 100"))
	require.NoError(t, p.ConstrainRel(c, "swidth = 30, sheight = 40, center", p))

	require.NoError(t, Solve(context.Background(), p, Options{}))

	pr, ok := p.Pos()
	require.True(t, ok)
	assert.Equal(t, cellmodel.Rect{X1: 0, Y1: 0, X2: 100, Y2: 100}, pr)

	cr, ok := c.Pos()
	require.True(t, ok)
	assert.Equal(t, cellmodel.Rect{X1: 35, Y1: 30, X2: 65, Y2: 70}, cr)
}

func TestScenarioB_EdgeDistanceAlignment(t *testing.T) {
	top := cellmodel.NewContainer("top")
	a := cellmodel.NewLeaf("A", "metal1")
	b := cellmodel.NewLeaf("B", "metal1")
	c := cellmodel.NewLeaf("C", "metal1")

	require.NoError(t, top.ConstrainAbs(a, "sx1 = 0, sy1 = 0, sx2 = 10, sy2 = 10"))
	require.NoError(t, top.ConstrainRel(b, "ll_edge = 0, bt_edge = 5, swidth = 10, sheight = 10", a))
	require.NoError(t, top.ConstrainRel(c, "ll_edge = 0, bt_edge = 5, swidth = 10, sheight = 10", b))

	require.NoError(t, Solve(context.Background(), top, Options{}))

	ar, _ := a.Pos()
	assert.Equal(t, cellmodel.Rect{X1: 0, Y1: 0, X2: 10, Y2: 10}, ar)
	br, _ := b.Pos()
	assert.Equal(t, cellmodel.Rect{X1: 0, Y1: 15, X2: 10, Y2: 25}, br)
	cr, _ := c.Pos()
	assert.Equal(t, cellmodel.Rect{X1: 0, Y1: 30, X2: 10, Y2: 40}, cr)

	topr, ok := top.Pos()
	require.True(t, ok)
	assert.Equal(t, cellmodel.Rect{X1: 0, Y1: 0, X2: 10, Y2: 40}, topr)
}

func TestScenarioC_StrictInequality(t *testing.T) {
	r := cellmodel.NewLeaf("R", "metal1")
	require.NoError(t, r.ConstrainSelf("x1 > 10, y1 > 10, width = 5, height = 5"))

	require.NoError(t, Solve(context.Background(), r, Options{}))

	rr, ok := r.Pos()
	require.True(t, ok)
	assert.Equal(t, cellmodel.Rect{X1: 11, Y1: 11, X2: 16, Y2: 16}, rr)
}

func TestScenarioD_FrozenBlockTranslation(t *testing.T) {
	b := cellmodel.NewContainer("B")
	d1 := cellmodel.NewLeaf("D1", "metal1")
	d2 := cellmodel.NewLeaf("D2", "metal1")
	require.NoError(t, b.ConstrainAbs(d1, "sx1 = 0, sy1 = 0, swidth = 20, sheight = 10"))
	require.NoError(t, b.ConstrainAbs(d2, "sx1 = 0, sy1 = 10, swidth = 20, sheight = 10"))

	require.NoError(t, Solve(context.Background(), b, Options{}))
	br, ok := b.Pos()
	require.True(t, ok)
	assert.Equal(t, cellmodel.Rect{X1: 0, Y1: 0, X2: 20, Y2: 20}, br)

	require.NoError(t, b.FreezeLayout())

	p := cellmodel.NewContainer("P")
	require.NoError(t, p.ConstrainAbs(b, "sx1 = 100, sy1 = 50"))
	require.NoError(t, Solve(context.Background(), p, Options{}))

	newBR, ok := b.Pos()
	require.True(t, ok)
	assert.Equal(t, cellmodel.Rect{X1: 100, Y1: 50, X2: 120, Y2: 70}, newBR)

	// Frozen subtree is opaque: descendants keep their pre-freeze positions,
	// they do not translate with B.
	d1r, _ := d1.Pos()
	assert.Equal(t, cellmodel.Rect{X1: 0, Y1: 0, X2: 20, Y2: 10}, d1r)
	d2r, _ := d2.Pos()
	assert.Equal(t, cellmodel.Rect{X1: 0, Y1: 10, X2: 20, Y2: 20}, d2r)
}

func TestScenarioE_FixedBlockTranslation(t *testing.T) {
	b := cellmodel.NewContainer("B")
	d1 := cellmodel.NewLeaf("D1", "metal1")
	d2 := cellmodel.NewLeaf("D2", "metal1")
	require.NoError(t, b.ConstrainAbs(d1, "sx1 = 0, sy1 = 0, swidth = 20, sheight = 10"))
	require.NoError(t, b.ConstrainAbs(d2, "sx1 = 0, sy1 = 10, swidth = 20, sheight = 10"))
	require.NoError(t, Solve(context.Background(), b, Options{}))
	require.NoError(t, b.FixLayout())

	p := cellmodel.NewContainer("P")
	require.NoError(t, p.ConstrainAbs(b, "sx1 = 100, sy1 = 50"))
	require.NoError(t, Solve(context.Background(), p, Options{}))

	newBR, ok := b.Pos()
	require.True(t, ok)
	assert.Equal(t, cellmodel.Rect{X1: 100, Y1: 50, X2: 120, Y2: 70}, newBR)

	// Fixed subtree translates rigidly: every descendant is shifted by
	// (100-0, 50-0) relative to its pre-fix position.
	d1r, _ := d1.Pos()
	assert.Equal(t, cellmodel.Rect{X1: 100, Y1: 50, X2: 120, Y2: 60}, d1r)
	d2r, _ := d2.Pos()
	assert.Equal(t, cellmodel.Rect{X1: 100, Y1: 60, X2: 120, Y2: 70}, d2r)
}

func TestScenarioG_ConflictingSelfConstraintsAreInfeasible(t *testing.T) {
	r := cellmodel.NewLeaf("R", "metal1")
	require.NoError(t, r.ConstrainSelf("width = 100"))
	require.NoError(t, r.ConstrainSelf("width = 50"))

	err := Solve(context.Background(), r, Options{})
	require.Error(t, err)
	var infeasible *InfeasibleError
	require.ErrorAs(t, err, &infeasible)

	_, ok := r.Pos()
	assert.False(t, ok, "an infeasible solve must not write a position")
}

func TestSolveRejectsReferenceOutsideScope(t *testing.T) {
	other := cellmodel.NewContainer("Other")
	foreign := cellmodel.NewLeaf("F", "metal1")
	require.NoError(t, other.AddChild(foreign))

	// foreign already belongs to "other", so referencing it from an
	// unrelated container only auto-adds the local cell; foreign is never
	// part of p's subtree and is never visited while building p's model.
	p := cellmodel.NewContainer("P")
	local := cellmodel.NewLeaf("L", "metal1")
	require.NoError(t, p.ConstrainRel(local, "left", foreign))

	err := Solve(context.Background(), p, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, constraint.ErrScope)
}

func TestSolveIsIdempotent(t *testing.T) {
	r := cellmodel.NewLeaf("R", "metal1")
	require.NoError(t, r.ConstrainSelf("x1 = 5, y1 = 5, width = 10, height = 10"))

	require.NoError(t, Solve(context.Background(), r, Options{}))
	first, _ := r.Pos()

	require.NoError(t, Solve(context.Background(), r, Options{}))
	second, _ := r.Pos()

	assert.Equal(t, first, second)
}
