package cellmodel

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddChildRejectsDuplicateIdentity(t *testing.T) {
	p := NewContainer("P")
	leaf := NewLeaf("L", "metal1")
	require.NoError(t, p.AddChild(leaf))
	err := p.AddChild(leaf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateIdentity))
}

func TestAddChildAllowsDuplicateNames(t *testing.T) {
	p := NewContainer("P")
	require.NoError(t, p.AddChild(NewLeaf("L", "metal1")))
	require.NoError(t, p.AddChild(NewLeaf("L", "metal1")))
	assert.Len(t, p.Children(), 2)
}

func TestConstrainAutoAddsChild(t *testing.T) {
	p := NewContainer("P")
	c := NewLeaf("C", "metal1")
	require.NoError(t, p.ConstrainAbs(c, "swidth = 30"))
	assert.Len(t, p.Children(), 1)
	assert.Equal(t, c.ID(), p.Children()[0].ID())
}

func TestConstrainRelAutoAddsBothChildren(t *testing.T) {
	p := NewContainer("P")
	a := NewLeaf("A", "metal1")
	b := NewLeaf("B", "metal1")
	require.NoError(t, p.ConstrainRel(a, "left", b))
	assert.Len(t, p.Children(), 2)
}

func TestSelfConstraintNeverAutoAdds(t *testing.T) {
	p := NewContainer("P")
	require.NoError(t, p.ConstrainSelf("width = 100, height = 100"))
	assert.Len(t, p.Children(), 0)
}

func TestFreezeRequiresSolvedCell(t *testing.T) {
	c := NewContainer("C")
	err := c.FreezeLayout()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidState))
}

func TestFreezeLocksExtentAndHidesChildren(t *testing.T) {
	c := NewContainer("C")
	c.SetSolved(Rect{0, 0, 20, 20})
	require.NoError(t, c.FreezeLayout())
	assert.True(t, c.IsFrozen())
	bb, ok := c.CachedBBox()
	require.True(t, ok)
	assert.Equal(t, Rect{0, 0, 20, 20}, bb)

	err := c.AddChild(NewLeaf("X", "metal1"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidState))
}

func TestFixLayoutSnapshotsDescendantOffsets(t *testing.T) {
	c := NewContainer("B")
	child := NewLeaf("D", "metal1")
	require.NoError(t, c.AddChild(child))
	c.SetSolved(Rect{0, 0, 20, 20})
	child.SetSolved(Rect{5, 5, 15, 15})

	require.NoError(t, c.FixLayout())
	assert.True(t, c.IsFixed())
	off, ok := c.FixOffset(child.ID())
	require.True(t, ok)
	assert.Equal(t, Rect{5, 5, 15, 15}, off)
}

func TestCopyProducesFreshIdentitiesAndSuffixedNames(t *testing.T) {
	p := NewContainer("P")
	child := NewLeaf("L", "metal1")
	require.NoError(t, p.AddChild(child))
	require.NoError(t, p.ConstrainAbs(child, "swidth = 30"))

	clone := p.Copy("")
	require.Len(t, clone.Children(), 1)
	assert.NotEqual(t, p.ID(), clone.ID())
	assert.NotEqual(t, child.ID(), clone.Children()[0].ID())
	assert.Equal(t, "L_c1", clone.Children()[0].Name())
	assert.Equal(t, "P", clone.Name())

	require.Len(t, clone.Constraints(), 1)
	assert.Equal(t, clone.Children()[0].ID(), clone.Constraints()[0].Subject.ID())
}

func TestCopyWithNewRootName(t *testing.T) {
	p := NewContainer("P")
	clone := p.Copy("P2")
	assert.Equal(t, "P2", clone.Name())
}
