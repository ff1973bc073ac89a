package gdsii

import (
	"fmt"
	"io"
	"os"

	"github.com/StevenJWChen/layout-automation/pkg/cellmodel"
)

// FromGDS parses a GDSII stream and returns the single top-level structure
// as a fixed Cell tree: structures are resolved top-down,
// accumulating each SREF's placement offset into its target's own local
// coordinates to produce absolute DB-unit positions; every container's own
// extent is then computed bottom-up as the min/max over its children (step
// 4); finally fix_layout() is invoked on the root (step 5), so the whole
// imported subtree is immediately immutable and ready to be embedded in a
// still-mobile design.
//
// A GDSII structure referenced more than once would require a DAG, which
// the single-owner Cell tree cannot represent; this codec assumes (and
// does not verify beyond cycle detection) that the input stream references
// every structure at most once, the case every export from this package
// produces.
func FromGDS(path string, lm *LayerMap, opts Options) (*cellmodel.Cell, error) {
	opts = opts.withDefaults()
	if lm == nil {
		lm = NewEmptyLayerMap()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, newImportError("opening %q: %v", path, err)
	}
	defer f.Close()

	structs, order, err := parseStream(f)
	if err != nil {
		return nil, err
	}

	rootStruct, err := pickRootStruct(structs, order)
	if err != nil {
		return nil, err
	}

	b := &builder{
		structs:    structs,
		lm:         lm,
		opts:       opts,
		visiting:   make(map[string]bool),
		nameCounts: make(map[string]int),
	}
	root, err := b.build(rootStruct, point{0, 0})
	if err != nil {
		return nil, err
	}

	if err := computeBBoxesBottomUp(root); err != nil {
		return nil, err
	}
	if err := root.FixLayout(); err != nil {
		return nil, newImportError("fix_layout() on imported root %q: %v", root.Name(), err)
	}
	return root, nil
}

// parseStream reads every record in the stream and assembles the flat table
// of structures it defines, without resolving references yet.
func parseStream(r io.Reader) (map[string]*rawStruct, []string, error) {
	sr := newStreamReader(r)
	structs := make(map[string]*rawStruct)
	var order []string

	var cur *rawStruct
	var curElem *boundaryElem
	var curRef *refElem

	for {
		rec, err := sr.readRecord()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		switch rec.rtype {
		case recHEADER, recBGNLIB, recLIBNAME, recUNITS:
			// Library-level metadata; not retained on the tree.
		case recBGNSTR:
			cur = &rawStruct{}
		case recSTRNAME:
			cur.name = gdsString(rec.data)
			structs[cur.name] = cur
			order = append(order, cur.name)
		case recENDSTR:
			cur = nil
		case recBOUNDARY:
			curElem = &boundaryElem{}
		case recPATH, recTEXT:
			// Ignored on read: with no open boundary or reference, the
			// element's records are read and dropped through to ENDEL.
			curElem = nil
		case recLAYER:
			if vals := int16s(rec.data); curElem != nil && len(vals) > 0 {
				curElem.layer = vals[0]
			}
		case recDATATYPE, recTEXTTYPE:
			if vals := int16s(rec.data); curElem != nil && len(vals) > 0 {
				curElem.datatype = vals[0]
			}
		case recSREF:
			curRef = &refElem{}
		case recAREF:
			curRef = &refElem{isArray: true}
		case recSNAME:
			if curRef != nil {
				curRef.sname = gdsString(rec.data)
			}
		case recSTRANS:
			if curRef != nil {
				curRef.hasTrans = true
			}
		case recMAG:
			if vals := real8s(rec.data); curRef != nil && len(vals) > 0 && vals[0] != 1 {
				curRef.hasTrans = true
			}
		case recANGLE:
			if vals := real8s(rec.data); curRef != nil && len(vals) > 0 && vals[0] != 0 {
				curRef.hasTrans = true
			}
		case recCOLROW:
			// Array repeat counts; the codec materializes a single
			// placement per AREF (AREF is treated like SREF, as producing
			// a single child cell instance, not a fanned-out array), so
			// COLROW is parsed only to stay record-synchronized.
		case recXY:
			pts := int32s(rec.data)
			xy := make([]point, 0, len(pts)/2)
			for i := 0; i+1 < len(pts); i += 2 {
				xy = append(xy, point{pts[i], pts[i+1]})
			}
			switch {
			case curElem != nil:
				curElem.xy = xy
			case curRef != nil:
				curRef.xy = xy
			}
		case recWIDTH:
			// Ignored: only boundary geometry is represented in the model.
		case recENDEL:
			if curElem != nil {
				if curElem.xy != nil {
					cur.elems = append(cur.elems, rawElem{kind: elemBoundary, boundary: *curElem})
				}
				curElem = nil
			}
			if curRef != nil {
				if curRef.hasTrans {
					return nil, nil, newUnsupportedGeometryError("structure reference to %q has a non-identity transform", curRef.sname)
				}
				cur.elems = append(cur.elems, rawElem{kind: elemRef, ref: *curRef})
				curRef = nil
			}
		case recENDLIB:
			// Stream complete; trailing bytes (if any) are ignored.
		default:
			// Outside the supported record set; surfaced rather than
			// silently skipped, so a malformed or exotic stream never
			// produces a silently-wrong tree.
			return nil, nil, newImportError("unsupported record type 0x%02x", byte(rec.rtype))
		}
	}
	return structs, order, nil
}

// pickRootStruct returns the one structure never referenced by another
// (the top-level design); from_gds has no further way to disambiguate if
// more than one candidate exists.
func pickRootStruct(structs map[string]*rawStruct, order []string) (*rawStruct, error) {
	referenced := make(map[string]bool, len(structs))
	for _, s := range structs {
		for _, e := range s.elems {
			if e.kind == elemRef {
				referenced[e.ref.sname] = true
			}
		}
	}
	var roots []string
	for _, name := range order {
		if !referenced[name] {
			roots = append(roots, name)
		}
	}
	switch len(roots) {
	case 0:
		return nil, newImportError("no top-level structure found (every structure is referenced)")
	case 1:
		return structs[roots[0]], nil
	default:
		return nil, newImportError("ambiguous top-level structure: %v", roots)
	}
}

// builder carries the state threaded through the recursive top-down
// placement walk: the parsed structure table, cycle detection, and the
// disambiguation counters used when a structure name collides with an
// already-built cell (the second instance of a name becomes "<name>_2", the
// third "<name>_3", and so on).
type builder struct {
	structs    map[string]*rawStruct
	lm         *LayerMap
	opts       Options
	visiting   map[string]bool
	nameCounts map[string]int
}

// build instantiates rs at the given accumulated placement offset, placing
// every boundary and nested reference in absolute DB-unit coordinates.
func (b *builder) build(rs *rawStruct, offset point) (*cellmodel.Cell, error) {
	if b.visiting[rs.name] {
		return nil, newImportError("structure %q references itself, directly or indirectly", rs.name)
	}
	b.visiting[rs.name] = true
	defer delete(b.visiting, rs.name)

	container := cellmodel.NewContainer(b.disambiguate(rs.name))

	boundaryIdx := 0
	for _, e := range rs.elems {
		if e.kind == elemBoundary {
			be := e.boundary
			leaf, err := b.buildBoundaryLeaf(rs.name, boundaryIdx, be)
			boundaryIdx++
			if err != nil {
				return nil, err
			}
			x1, y1, x2, y2 := be.bbox()
			if err := container.AddChild(leaf); err != nil {
				return nil, newImportError("adding boundary leaf to %q: %v", rs.name, err)
			}
			leaf.SetSolved(cellmodel.Rect{
				X1: offset.x + x1, Y1: offset.y + y1,
				X2: offset.x + x2, Y2: offset.y + y2,
			})
			continue
		}

		ref := e.ref
		childStruct, ok := b.structs[ref.sname]
		if !ok {
			return nil, newImportError("%q references undefined structure %q", rs.name, ref.sname)
		}
		if len(ref.xy) == 0 {
			return nil, newImportError("reference to %q in %q has no placement point", ref.sname, rs.name)
		}
		childOffset := offset.add(ref.xy[0])
		child, err := b.build(childStruct, childOffset)
		if err != nil {
			return nil, err
		}
		if err := container.AddChild(child); err != nil {
			return nil, newImportError("placing %q instance into %q: %v", ref.sname, rs.name, err)
		}
	}

	return container, nil
}

func (b *builder) disambiguate(name string) string {
	n := b.nameCounts[name]
	b.nameCounts[name] = n + 1
	if n == 0 {
		return name
	}
	return fmt.Sprintf("%s_%d", name, n+1)
}

func (b *builder) buildBoundaryLeaf(structName string, idx int, be boundaryElem) (*cellmodel.Cell, error) {
	if !be.isAxisAlignedRectangle() {
		b.opts.Logger.Warn("structure %q boundary %d (%d vertices) is not an axis-aligned rectangle, reducing to bounding box", structName, idx, len(be.xy))
	}
	layerName := b.lm.NameFor(be.layer, be.datatype)
	return cellmodel.NewLeaf(fmt.Sprintf("%s_b%d", structName, idx), layerName), nil
}

// computeBBoxesBottomUp assigns every container's own extent as the
// min/max over its children, computed post-order.
func computeBBoxesBottomUp(c *cellmodel.Cell) error {
	if c.IsLeaf() {
		return nil
	}
	children := c.Children()
	if len(children) == 0 {
		return newImportError("container %q has no children after import", c.Name())
	}
	for _, child := range children {
		if err := computeBBoxesBottomUp(child); err != nil {
			return err
		}
	}

	r0, _ := children[0].Pos()
	x1, y1, x2, y2 := r0.X1, r0.Y1, r0.X2, r0.Y2
	for _, ch := range children[1:] {
		r, _ := ch.Pos()
		if r.X1 < x1 {
			x1 = r.X1
		}
		if r.Y1 < y1 {
			y1 = r.Y1
		}
		if r.X2 > x2 {
			x2 = r.X2
		}
		if r.Y2 > y2 {
			y2 = r.Y2
		}
	}
	c.SetSolved(cellmodel.Rect{X1: x1, Y1: y1, X2: x2, Y2: y2})
	return nil
}
