package model

import (
	"fmt"

	"github.com/StevenJWChen/layout-automation/pkg/cellmodel"
)

// CellDoc is the JSON wire form of one cellmodel.Cell, used by the job
// document format (the Job Service's input) and by the tree dump produced
// after a solve (the Job Service's output, and layoutctl import/export's
// intermediate tree file).
type CellDoc struct {
	Name        string          `json:"name"`
	Kind        string          `json:"kind"` // "leaf" or "container"
	Layer       string          `json:"layer,omitempty"`
	Freeze      string          `json:"freeze,omitempty"` // "", "frozen", "fixed"
	Children    []*CellDoc      `json:"children,omitempty"`
	Constraints []ConstraintDoc `json:"constraints,omitempty"`
	Pos         *RectDoc        `json:"pos,omitempty"`
}

// ConstraintDoc is one entry of a container's constraint list.
type ConstraintDoc struct {
	Type    string `json:"type"` // "self", "abs", or "rel"
	Subject string `json:"subject,omitempty"`
	Object  string `json:"object,omitempty"`
	Expr    string `json:"expr"`
}

// RectDoc is a solved rectangle in the wire format.
type RectDoc struct {
	X1 int32 `json:"x1"`
	Y1 int32 `json:"y1"`
	X2 int32 `json:"x2"`
	Y2 int32 `json:"y2"`
}

// JobDocument is the full input document a solve job is submitted with:
// the unsolved (or partially frozen/fixed) cell tree plus its constraints.
type JobDocument struct {
	Root *CellDoc `json:"root"`
}

// BuildCellTree reconstructs a cellmodel.Cell tree from its document form,
// applying constraints and re-entering any frozen/fixed state the document
// carries. Children are built depth-first so that a container's
// constraints, which may reference its own children by name, can resolve
// against an already-populated children list.
func BuildCellTree(doc *CellDoc) (*cellmodel.Cell, error) {
	if doc == nil {
		return nil, fmt.Errorf("model: nil cell document")
	}

	var c *cellmodel.Cell
	switch doc.Kind {
	case "leaf":
		c = cellmodel.NewLeaf(doc.Name, doc.Layer)
	case "container":
		c = cellmodel.NewContainer(doc.Name)
	default:
		return nil, fmt.Errorf("model: cell %q has unknown kind %q", doc.Name, doc.Kind)
	}

	byName := make(map[string]*cellmodel.Cell, len(doc.Children))
	for _, childDoc := range doc.Children {
		child, err := BuildCellTree(childDoc)
		if err != nil {
			return nil, err
		}
		if err := c.AddChild(child); err != nil {
			return nil, fmt.Errorf("model: cell %q: %w", doc.Name, err)
		}
		byName[childDoc.Name] = child
	}

	for _, cd := range doc.Constraints {
		if err := applyConstraint(c, byName, cd); err != nil {
			return nil, fmt.Errorf("model: cell %q: %w", doc.Name, err)
		}
	}

	if doc.Pos != nil {
		c.SetSolved(cellmodel.Rect{X1: doc.Pos.X1, Y1: doc.Pos.Y1, X2: doc.Pos.X2, Y2: doc.Pos.Y2})
	}

	switch doc.Freeze {
	case "", "normal":
	case "frozen":
		if err := c.FreezeLayout(); err != nil {
			return nil, fmt.Errorf("model: cell %q: %w", doc.Name, err)
		}
	case "fixed":
		if err := c.FixLayout(); err != nil {
			return nil, fmt.Errorf("model: cell %q: %w", doc.Name, err)
		}
	default:
		return nil, fmt.Errorf("model: cell %q has unknown freeze state %q", doc.Name, doc.Freeze)
	}

	return c, nil
}

func applyConstraint(owner *cellmodel.Cell, byName map[string]*cellmodel.Cell, cd ConstraintDoc) error {
	switch cd.Type {
	case "self":
		return owner.ConstrainSelf(cd.Expr)
	case "abs":
		subject, ok := byName[cd.Subject]
		if !ok {
			return fmt.Errorf("constraint references unknown child %q", cd.Subject)
		}
		return owner.ConstrainAbs(subject, cd.Expr)
	case "rel":
		subject, ok := byName[cd.Subject]
		if !ok {
			return fmt.Errorf("constraint references unknown child %q", cd.Subject)
		}
		object, ok := byName[cd.Object]
		if !ok {
			return fmt.Errorf("constraint references unknown child %q", cd.Object)
		}
		return owner.ConstrainRel(subject, cd.Expr, object)
	default:
		return fmt.Errorf("unknown constraint type %q", cd.Type)
	}
}

// CountTree returns the total cell count and constraint count of c's
// subtree, for telemetry span attributes.
func CountTree(c *cellmodel.Cell) (cells, constraints int) {
	cells = 1
	constraints = len(c.Constraints())
	for _, child := range c.Children() {
		cc, ccons := CountTree(child)
		cells += cc
		constraints += ccons
	}
	return cells, constraints
}

// DumpCellTree renders a cellmodel.Cell tree (solved or not) back to its
// document form, for persisting a Job Service result or for layoutctl
// import's tree-file output. Constraints are not round-tripped: once a
// tree is solved they no longer have any bearing on its positions, and a
// re-solve of a dumped tree is only meaningful for already-frozen/fixed
// subtrees (which carry no further constraints of their own anyway).
func DumpCellTree(c *cellmodel.Cell) *CellDoc {
	doc := &CellDoc{
		Name:  c.Name(),
		Layer: c.Layer(),
	}
	if c.IsLeaf() {
		doc.Kind = "leaf"
	} else {
		doc.Kind = "container"
	}

	switch c.FreezeState() {
	case cellmodel.StateFrozen:
		doc.Freeze = "frozen"
	case cellmodel.StateFixed:
		doc.Freeze = "fixed"
	}

	if r, ok := c.Pos(); ok {
		doc.Pos = &RectDoc{X1: r.X1, Y1: r.Y1, X2: r.X2, Y2: r.Y2}
	}

	for _, child := range c.Children() {
		doc.Children = append(doc.Children, DumpCellTree(child))
	}

	return doc
}
