// Package constraint implements the linear-arithmetic constraint DSL used to
// describe spatial relationships between cells: a comma-separated list of
// relational expressions over the four corner variables of a subject cell
// and, for binary constraints, an object cell.
package constraint

// Var identifies one of the eight corner variables a clause can reference.
// Unprefixed self-constraint variables (x1,y1,x2,y2) are normalized to the
// S* forms at parse time, so the solver only ever deals with S*/O*.
type Var int

const (
	SX1 Var = iota
	SY1
	SX2
	SY2
	OX1
	OY1
	OX2
	OY2
)

func (v Var) String() string {
	switch v {
	case SX1:
		return "sx1"
	case SY1:
		return "sy1"
	case SX2:
		return "sx2"
	case SY2:
		return "sy2"
	case OX1:
		return "ox1"
	case OY1:
		return "oy1"
	case OX2:
		return "ox2"
	case OY2:
		return "oy2"
	}
	return "?"
}

// IsObject reports whether v belongs to the object cell's corner set.
func (v Var) IsObject() bool { return v >= OX1 }

// Shape describes which of the three constrain() calling conventions
// produced the expression text, which in turn governs which variable
// prefixes are legal.
type Shape int

const (
	// ShapeSelf is a self-constraint: only unprefixed x1/y1/x2/y2 allowed.
	ShapeSelf Shape = iota
	// ShapeAbs is an absolute-style constraint on one child: only s-prefixed
	// variables allowed, no object.
	ShapeAbs
	// ShapeBinary is a constraint between two children: both s- and
	// o-prefixed variables allowed.
	ShapeBinary
)

// Relation is the relational operator of one parsed expression.
type Relation int

const (
	RelEq Relation = iota
	RelLt
	RelGt
	RelLe
	RelGe
)

func (r Relation) String() string {
	switch r {
	case RelEq:
		return "="
	case RelLt:
		return "<"
	case RelGt:
		return ">"
	case RelLe:
		return "<="
	case RelGe:
		return ">="
	}
	return "?"
}

// Expression is one parsed clause: linear_form ⊕ rhs_constant.
type Expression struct {
	Terms map[Var]int32
	Rel   Relation
	RHS   int32
	// Soft marks a centering expression (from the xcenter/ycenter/center
	// keywords) that the solver should install as a penalty term rather
	// than a hard constraint.
	Soft bool
}

// Parse expands keywords in expr and parses the resulting comma-separated
// clauses into a list of linear expressions, validating them against shape.
func Parse(expr string, shape Shape) ([]Expression, error) {
	clauses, err := splitTopLevelCommas(expr)
	if err != nil {
		return nil, err
	}

	var out []Expression
	for _, clause := range clauses {
		expanded, err := expandClause(clause)
		if err != nil {
			return nil, err
		}
		for _, ec := range expanded {
			e, err := parseLinearRelation(ec.text, shape)
			if err != nil {
				return nil, err
			}
			e.Soft = ec.soft
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		return nil, newParseError("empty constraint expression")
	}
	return out, nil
}
