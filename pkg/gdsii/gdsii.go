package gdsii

import "github.com/StevenJWChen/layout-automation/pkg/utils"

// Options configures a single import or export pass.
type Options struct {
	// LibName is emitted in the LIBNAME record on export; on import it is
	// parsed and discarded (not retained on the tree).
	LibName string
	// UserUnitsPerDBUnit and MetersPerDBUnit are the two UNITS fields.
	// Defaults (1e-3, 1e-9) match a 1nm database unit under a micron user
	// unit, the conventional IC-layout choice.
	UserUnitsPerDBUnit float64
	MetersPerDBUnit    float64
	// Logger receives warning diagnostics for lossy translations (unknown
	// layer, non-rectangular polygon reduced to bbox, default-layer
	// fallback on export). Defaults to a no-op logger.
	Logger utils.Logger
}

func (o Options) withDefaults() Options {
	if o.LibName == "" {
		o.LibName = "LIB"
	}
	if o.UserUnitsPerDBUnit == 0 {
		o.UserUnitsPerDBUnit = 1e-3
	}
	if o.MetersPerDBUnit == 0 {
		o.MetersPerDBUnit = 1e-9
	}
	if o.Logger == nil {
		o.Logger = &utils.NullLogger{}
	}
	return o
}

// point is a plain DB-unit coordinate pair, used internally for both parsed
// XY records and accumulated placement offsets.
type point struct{ x, y int32 }

func (p point) add(q point) point { return point{p.x + q.x, p.y + q.y} }
func (p point) sub(q point) point { return point{p.x - q.x, p.y - q.y} }

type boundaryElem struct {
	layer, datatype int16
	xy              []point
}

func (b boundaryElem) bbox() (x1, y1, x2, y2 int32) {
	x1, y1 = b.xy[0].x, b.xy[0].y
	x2, y2 = x1, y1
	for _, p := range b.xy[1:] {
		if p.x < x1 {
			x1 = p.x
		}
		if p.x > x2 {
			x2 = p.x
		}
		if p.y < y1 {
			y1 = p.y
		}
		if p.y > y2 {
			y2 = p.y
		}
	}
	return
}

// isAxisAlignedRectangle reports whether the polygon is exactly its own
// bounding box: either 4 corners, or 5 points with the last repeating the
// first (the closed-ring form most GDSII writers emit).
func (b boundaryElem) isAxisAlignedRectangle() bool {
	corners := b.xy
	switch len(corners) {
	case 4:
	case 5:
		if corners[0] != corners[4] {
			return false
		}
		corners = corners[:4]
	default:
		return false
	}
	x1, y1, x2, y2 := b.bbox()
	want := map[point]bool{{x1, y1}: true, {x1, y2}: true, {x2, y1}: true, {x2, y2}: true}
	for _, p := range corners {
		if !want[p] {
			return false
		}
	}
	return true
}

type refElem struct {
	isArray  bool
	sname    string
	xy       []point
	hasTrans bool // STRANS/MAG/ANGLE present; always rejected on import
}

// elemKind distinguishes the two element kinds a structure body can
// contain. A single ordered list (rather than separate boundary/ref
// slices) preserves the original file's element order across a round
// trip, which matters whenever a structure mixes boundaries and
// references rather than holding only one kind.
type elemKind int

const (
	elemBoundary elemKind = iota
	elemRef
)

type rawElem struct {
	kind     elemKind
	boundary boundaryElem
	ref      refElem
}

type rawStruct struct {
	name  string
	elems []rawElem
}
