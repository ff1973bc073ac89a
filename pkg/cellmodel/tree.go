package cellmodel

import "github.com/StevenJWChen/layout-automation/pkg/constraint"

// AddChild appends child to c's children list. Rejected if c is a leaf, if c
// is frozen/fixed (its structure is locked once opaque), or if child's
// identity is already present among c's children. Duplicate names are
// allowed; only identity collisions are rejected.
func (c *Cell) AddChild(child *Cell) error {
	if c.kind != KindContainer {
		return newInvalidStateError("cannot add children to leaf cell %q", c.name)
	}
	if c.freeze != StateNormal {
		return newInvalidStateError("cannot add children to frozen/fixed cell %q", c.name)
	}
	for _, existing := range c.children {
		if existing.id == child.id {
			return newDuplicateIdentityError("cell %q already has child with identity %d", c.name, child.id)
		}
	}
	c.children = append(c.children, child)
	child.parent = c
	return nil
}

// AddChildren appends multiple children atomically: either all are added, or
// (on the first duplicate-identity conflict) none are, leaving c unchanged.
func (c *Cell) AddChildren(children []*Cell) error {
	if c.kind != KindContainer {
		return newInvalidStateError("cannot add children to leaf cell %q", c.name)
	}
	if c.freeze != StateNormal {
		return newInvalidStateError("cannot add children to frozen/fixed cell %q", c.name)
	}
	seen := make(map[ID]bool, len(c.children))
	for _, existing := range c.children {
		seen[existing.id] = true
	}
	for _, child := range children {
		if seen[child.id] {
			return newDuplicateIdentityError("cell %q already has child with identity %d", c.name, child.id)
		}
		seen[child.id] = true
	}
	for _, child := range children {
		c.children = append(c.children, child)
		child.parent = c
	}
	return nil
}

// autoAdd adds child to c's children list if it is not already a direct
// child and does not yet belong to another parent; this implements the
// "auto-added at first mention" behavior of constrain()'s child/binary
// forms. If child already belongs to some other cell in the tree (possibly
// a deeper descendant), it is left as-is; ScopeError is raised later, at
// solve time, if it turns out not to be a descendant of c after all.
func (c *Cell) autoAdd(child *Cell) error {
	if child.id == c.id {
		// The owning container itself, referenced as subject/object (e.g. a
		// child centered against its own parent) -- already in scope by
		// definition, never an actual child of itself.
		return nil
	}
	for _, existing := range c.children {
		if existing.id == child.id {
			return nil
		}
	}
	if child.parent != nil {
		return nil
	}
	return c.AddChild(child)
}

// ConstrainSelf appends a self-constraint (subject = c itself) to c's
// constraint list. Parsing is eager: ParseError/DimensionError surface
// immediately.
func (c *Cell) ConstrainSelf(expr string) error {
	if c.freeze != StateNormal {
		return newInvalidStateError("cannot constrain frozen/fixed cell %q", c.name)
	}
	if _, err := constraint.Parse(expr, constraint.ShapeSelf); err != nil {
		return err
	}
	c.constraints = append(c.constraints, RawConstraint{Subject: c, Expr: expr, Shape: constraint.ShapeSelf})
	return nil
}

// ConstrainAbs appends an absolute-style constraint on one child, auto-
// adding child to c's children on first mention.
func (c *Cell) ConstrainAbs(child *Cell, expr string) error {
	if c.freeze != StateNormal {
		return newInvalidStateError("cannot add constraints to frozen/fixed cell %q", c.name)
	}
	if _, err := constraint.Parse(expr, constraint.ShapeAbs); err != nil {
		return err
	}
	if err := c.autoAdd(child); err != nil {
		return err
	}
	c.constraints = append(c.constraints, RawConstraint{Subject: child, Expr: expr, Shape: constraint.ShapeAbs})
	return nil
}

// ConstrainRel appends a binary constraint between two children of c,
// auto-adding either child on first mention.
func (c *Cell) ConstrainRel(a *Cell, expr string, b *Cell) error {
	if c.freeze != StateNormal {
		return newInvalidStateError("cannot add constraints to frozen/fixed cell %q", c.name)
	}
	if _, err := constraint.Parse(expr, constraint.ShapeBinary); err != nil {
		return err
	}
	if err := c.autoAdd(a); err != nil {
		return err
	}
	if err := c.autoAdd(b); err != nil {
		return err
	}
	c.constraints = append(c.constraints, RawConstraint{Subject: a, Expr: expr, Object: b, Shape: constraint.ShapeBinary})
	return nil
}

// IsDescendant reports whether d is c itself or a (possibly deep)
// descendant of c, by DFS over children.
func (c *Cell) IsDescendant(d *Cell) bool {
	if c.id == d.id {
		return true
	}
	for _, child := range c.children {
		if child.IsDescendant(d) {
			return true
		}
	}
	return false
}

// Walk invokes fn for c and every descendant, in DFS pre-order.
func (c *Cell) Walk(fn func(*Cell)) {
	fn(c)
	for _, child := range c.children {
		child.Walk(fn)
	}
}

// Descendants returns every descendant of c (not including c itself), in
// DFS order.
func (c *Cell) Descendants() []*Cell {
	var out []*Cell
	for _, child := range c.children {
		child.Walk(func(x *Cell) { out = append(out, x) })
	}
	return out
}
