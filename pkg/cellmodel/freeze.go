package cellmodel

// FreezeLayout enters the frozen immutability mode (§3.3): the cell's
// current extent is locked and its subtree becomes opaque to the solver.
// Requires a solved cell; otherwise InvalidState.
func (c *Cell) FreezeLayout() error {
	r, ok := c.Pos()
	if !ok {
		return newInvalidStateError("freeze_layout() requires a solved cell, %q is unsolved", c.name)
	}
	if c.freeze != StateNormal {
		return newInvalidStateError("cell %q is already frozen or fixed", c.name)
	}
	c.freeze = StateFrozen
	c.cachedBBox = &r
	return nil
}

// UnfreezeLayout reverses FreezeLayout.
func (c *Cell) UnfreezeLayout() error {
	if c.freeze != StateFrozen {
		return newInvalidStateError("cell %q is not frozen", c.name)
	}
	c.freeze = StateNormal
	c.cachedBBox = nil
	return nil
}

// FixLayout enters the fixed immutability mode (§3.3): the cell's current
// extent is locked and every descendant's corner offset relative to it is
// snapshotted, so the whole subtree translates rigidly with the cell on
// subsequent solves. Requires a solved cell; otherwise InvalidState.
func (c *Cell) FixLayout() error {
	r, ok := c.Pos()
	if !ok {
		return newInvalidStateError("fix_layout() requires a solved cell, %q is unsolved", c.name)
	}
	if c.freeze != StateNormal {
		return newInvalidStateError("cell %q is already frozen or fixed", c.name)
	}

	offsets := make(map[ID]Rect)
	for _, d := range c.Descendants() {
		dr, ok := d.Pos()
		if !ok {
			return newInvalidStateError("fix_layout() requires every descendant to be solved, %q is unsolved", d.name)
		}
		offsets[d.id] = Rect{
			X1: dr.X1 - r.X1,
			Y1: dr.Y1 - r.Y1,
			X2: dr.X2 - r.X1,
			Y2: dr.Y2 - r.Y1,
		}
	}

	c.freeze = StateFixed
	c.cachedBBox = &r
	c.fixOffsets = offsets
	return nil
}
