// Package cellmodel implements the hierarchical rectangle tree: cells with
// ownership, layer tagging, freeze/fix immutability modes, and the
// bounding-box and minimum-size invariants the solver is responsible for
// establishing.
package cellmodel

import (
	"sync/atomic"

	"github.com/StevenJWChen/layout-automation/pkg/constraint"
)

// ID is a stable identifier for a cell, distinct from its (possibly
// duplicated) name. Constraints, variable tables and fix-offset tables are
// keyed on ID, never on name.
type ID uint64

var nextID uint64

func allocID() ID {
	return ID(atomic.AddUint64(&nextID, 1))
}

// Kind distinguishes a leaf rectangle from a container of children.
type Kind int

const (
	KindLeaf Kind = iota
	KindContainer
)

// FreezeState is a cell's immutability mode (§3.3).
type FreezeState int

const (
	StateNormal FreezeState = iota
	StateFrozen
	StateFixed
)

// Rect is a solved position tuple in integer DB units.
type Rect struct {
	X1, Y1, X2, Y2 int32
}

func (r Rect) Width() int32  { return r.X2 - r.X1 }
func (r Rect) Height() int32 { return r.Y2 - r.Y1 }
func (r Rect) CX() int32     { return (r.X1 + r.X2) / 2 }
func (r Rect) CY() int32     { return (r.Y1 + r.Y2) / 2 }

// RawConstraint is one entry of a container's constraint list, stored on the
// parent that owns it regardless of which cell(s) it references.
type RawConstraint struct {
	Subject *Cell
	Expr    string
	Object  *Cell // nil for self- and absolute-style constraints
	Shape   constraint.Shape
}

// Cell is the single entity of the object model: either a leaf rectangle
// tagged with a process layer, or a container owning an ordered list of
// children.
type Cell struct {
	id   ID
	name string
	kind Kind

	layer string // leaf only

	children    []*Cell
	constraints []RawConstraint
	parent      *Cell

	pos    *Rect
	freeze FreezeState

	// cachedBBox is the cell's extent at the moment it was frozen or fixed.
	cachedBBox *Rect
	// fixOffsets maps every descendant's ID (at any depth) to its corner
	// offset relative to this cell's (x1, y1) corner, captured at fix_layout().
	fixOffsets map[ID]Rect

	copyCounter int // used by Copy() to disambiguate cloned descendant names
}

// NewLeaf creates a leaf cell carrying a process-layer tag.
func NewLeaf(name, layer string) *Cell {
	return &Cell{id: allocID(), name: name, kind: KindLeaf, layer: layer}
}

// NewContainer creates a container cell, optionally with initial children.
func NewContainer(name string, children ...*Cell) *Cell {
	c := &Cell{id: allocID(), name: name, kind: KindContainer}
	for _, ch := range children {
		_ = c.AddChild(ch)
	}
	return c
}

func (c *Cell) ID() ID        { return c.id }
func (c *Cell) Name() string  { return c.name }
func (c *Cell) Kind() Kind    { return c.kind }
func (c *Cell) Layer() string { return c.layer }
func (c *Cell) IsLeaf() bool  { return c.kind == KindLeaf }

// Children returns the cell's direct children (nil for a leaf). The
// returned slice must not be mutated by the caller.
func (c *Cell) Children() []*Cell { return c.children }

// Constraints returns the cell's raw constraint list in authoring order.
func (c *Cell) Constraints() []RawConstraint { return c.constraints }

func (c *Cell) Parent() *Cell { return c.parent }

func (c *Cell) FreezeState() FreezeState { return c.freeze }
func (c *Cell) IsFrozen() bool           { return c.freeze == StateFrozen }
func (c *Cell) IsFixed() bool            { return c.freeze == StateFixed }

// CachedBBox returns the extent snapshotted at freeze/fix time, and whether
// the cell is currently frozen or fixed.
func (c *Cell) CachedBBox() (Rect, bool) {
	if c.cachedBBox == nil {
		return Rect{}, false
	}
	return *c.cachedBBox, true
}

// FixOffset returns the stored corner offset of descendant d relative to
// this (fixed) cell, captured at fix_layout() time.
func (c *Cell) FixOffset(d ID) (Rect, bool) {
	if c.fixOffsets == nil {
		return Rect{}, false
	}
	r, ok := c.fixOffsets[d]
	return r, ok
}

// FixOffsets exposes the full descendant-ID -> offset map (read-only use by
// the solver's commit step).
func (c *Cell) FixOffsets() map[ID]Rect { return c.fixOffsets }

// --- Position accessors (§4.2) -------------------------------------------

// Pos returns the solved rectangle and whether the cell has been solved.
func (c *Cell) Pos() (Rect, bool) {
	if c.pos == nil {
		return Rect{}, false
	}
	return *c.pos, true
}

func (c *Cell) X1() (int32, bool) { r, ok := c.Pos(); return r.X1, ok }
func (c *Cell) Y1() (int32, bool) { r, ok := c.Pos(); return r.Y1, ok }
func (c *Cell) X2() (int32, bool) { r, ok := c.Pos(); return r.X2, ok }
func (c *Cell) Y2() (int32, bool) { r, ok := c.Pos(); return r.Y2, ok }

func (c *Cell) Width() (int32, bool) {
	r, ok := c.Pos()
	if !ok {
		return 0, false
	}
	return r.Width(), true
}

func (c *Cell) Height() (int32, bool) {
	r, ok := c.Pos()
	if !ok {
		return 0, false
	}
	return r.Height(), true
}

func (c *Cell) CX() (int32, bool) {
	r, ok := c.Pos()
	if !ok {
		return 0, false
	}
	return r.CX(), true
}

func (c *Cell) CY() (int32, bool) {
	r, ok := c.Pos()
	if !ok {
		return 0, false
	}
	return r.CY(), true
}

func (c *Cell) BBox() (Rect, bool) { return c.Pos() }

// SetSolved is used by the solver's commit step to write back a solved
// position. It is not part of the public object-model API surface used by
// client code.
func (c *Cell) SetSolved(r Rect) { c.pos = &r }

// ClearSolved resets a cell to the unsolved state (used before a re-solve).
func (c *Cell) ClearSolved() { c.pos = nil }
