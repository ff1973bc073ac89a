package cellmodel

import "fmt"

// Copy produces a deep duplicate of the subtree rooted at c: every cell
// receives a fresh identity, descendant names receive a "_cN" disambiguating
// suffix (N is c's own copy count: 1 on its first Copy, 2 on its second, and
// so on), and constraints/position/freeze state are carried over unchanged
// in meaning. If newName is empty, the root keeps its original name.
func (c *Cell) Copy(newName string) *Cell {
	idMap := make(map[ID]*Cell)
	c.copyCounter++
	root := c.cloneStructure(newName, true, c.copyCounter, idMap)
	c.cloneConstraints(root, idMap)
	return root
}

func (c *Cell) cloneStructure(newName string, isRoot bool, n int, idMap map[ID]*Cell) *Cell {
	name := c.name
	if isRoot && newName != "" {
		name = newName
	} else if !isRoot {
		name = fmt.Sprintf("%s_c%d", c.name, n)
	}

	clone := &Cell{
		id:    allocID(),
		name:  name,
		kind:  c.kind,
		layer: c.layer,
	}
	idMap[c.id] = clone

	if c.pos != nil {
		r := *c.pos
		clone.pos = &r
	}
	clone.freeze = c.freeze
	if c.cachedBBox != nil {
		r := *c.cachedBBox
		clone.cachedBBox = &r
	}

	for _, child := range c.children {
		childClone := child.cloneStructure("", false, n, idMap)
		clone.children = append(clone.children, childClone)
		childClone.parent = clone
	}

	if c.fixOffsets != nil {
		clone.fixOffsets = make(map[ID]Rect, len(c.fixOffsets))
		for id, off := range c.fixOffsets {
			// Remapped once every descendant of this subtree has been
			// cloned, in cloneConstraints below (ids discovered bottom-up
			// here aren't complete until the whole subtree is walked).
			clone.fixOffsets[id] = off
		}
	}

	return clone
}

// cloneConstraints performs the second pass: remap constraint subject/object
// pointers (and fix-offset keys) from original cell identities to their
// clones, now that idMap is fully populated.
func (c *Cell) cloneConstraints(clone *Cell, idMap map[ID]*Cell) {
	for _, rc := range c.constraints {
		newRC := RawConstraint{
			Subject: idMap[rc.Subject.id],
			Expr:    rc.Expr,
			Shape:   rc.Shape,
		}
		if rc.Object != nil {
			newRC.Object = idMap[rc.Object.id]
		}
		clone.constraints = append(clone.constraints, newRC)
	}

	if clone.fixOffsets != nil {
		remapped := make(map[ID]Rect, len(clone.fixOffsets))
		for oldID, off := range clone.fixOffsets {
			if newCell, ok := idMap[oldID]; ok {
				remapped[newCell.id] = off
			}
		}
		clone.fixOffsets = remapped
	}

	for i, child := range c.children {
		child.cloneConstraints(clone.children[i], idMap)
	}
}
