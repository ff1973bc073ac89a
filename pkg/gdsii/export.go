package gdsii

import (
	"os"

	"github.com/StevenJWChen/layout-automation/pkg/cellmodel"
)

// ExportGDS walks a solved cell tree and emits a GDSII stream: every
// container becomes a structure, every leaf becomes a rectangular boundary
// on its mapped layer, every nested container becomes an SREF placed at its
// own absolute position expressed relative to its parent's origin.
// Timestamps (BGNLIB/BGNSTR) are always zeroed, which trivially satisfies a
// byte-identical-modulo-library-timestamps round-trip guarantee without
// needing to mask timestamp bytes when comparing two exports.
func ExportGDS(root *cellmodel.Cell, path string, lm *LayerMap, opts Options) error {
	opts = opts.withDefaults()
	if lm == nil {
		lm = NewEmptyLayerMap()
	}
	if root.Kind() != cellmodel.KindContainer {
		return newExportError("root %q is a leaf; only a container can be the top-level GDSII structure", root.Name())
	}
	if err := checkAllSolved(root); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return newExportError("creating %q: %v", path, err)
	}
	defer f.Close()

	sw := newStreamWriter(f)
	if err := writeLibraryHeader(sw, opts); err != nil {
		return err
	}
	if err := emitStruct(sw, root, lm, opts); err != nil {
		return err
	}
	if err := sw.writeNoData(recENDLIB); err != nil {
		return newExportError("writing ENDLIB: %v", err)
	}
	if err := sw.flush(); err != nil {
		return newExportError("flushing %q: %v", path, err)
	}
	return nil
}

func checkAllSolved(c *cellmodel.Cell) error {
	if _, ok := c.Pos(); !ok {
		return newUnsolvedError(c.Name())
	}
	for _, child := range c.Children() {
		if err := checkAllSolved(child); err != nil {
			return err
		}
	}
	return nil
}

var zeroTimestamp = [12]int16{}

func writeLibraryHeader(sw *streamWriter, opts Options) error {
	if err := sw.writeInt16s(recHEADER, []int16{600}); err != nil {
		return newExportError("writing HEADER: %v", err)
	}
	if err := sw.writeInt16s(recBGNLIB, zeroTimestamp[:]); err != nil {
		return newExportError("writing BGNLIB: %v", err)
	}
	if err := sw.writeString(recLIBNAME, opts.LibName); err != nil {
		return newExportError("writing LIBNAME: %v", err)
	}
	if err := sw.writeReal8s(recUNITS, []float64{opts.UserUnitsPerDBUnit, opts.MetersPerDBUnit}); err != nil {
		return newExportError("writing UNITS: %v", err)
	}
	return nil
}

// emitStruct writes one complete BGNSTR..ENDSTR block for cell, then
// recurses into its container children (each of which gets its own
// top-level structure record, GDSII structures are never nested).
func emitStruct(sw *streamWriter, cell *cellmodel.Cell, lm *LayerMap, opts Options) error {
	origin, _ := cell.Pos()

	if err := sw.writeInt16s(recBGNSTR, zeroTimestamp[:]); err != nil {
		return newExportError("writing BGNSTR for %q: %v", cell.Name(), err)
	}
	if err := sw.writeString(recSTRNAME, cell.Name()); err != nil {
		return newExportError("writing STRNAME for %q: %v", cell.Name(), err)
	}

	var nested []*cellmodel.Cell
	for _, child := range cell.Children() {
		if child.IsLeaf() {
			if err := emitBoundary(sw, child, origin, lm, opts); err != nil {
				return err
			}
			continue
		}
		if err := emitSRef(sw, child, origin); err != nil {
			return err
		}
		nested = append(nested, child)
	}

	if err := sw.writeNoData(recENDSTR); err != nil {
		return newExportError("writing ENDSTR for %q: %v", cell.Name(), err)
	}

	for _, child := range nested {
		if err := emitStruct(sw, child, lm, opts); err != nil {
			return err
		}
	}
	return nil
}

func emitBoundary(sw *streamWriter, leaf *cellmodel.Cell, origin cellmodel.Rect, lm *LayerMap, opts Options) error {
	r, _ := leaf.Pos()
	layer, datatype, ok := lm.LayerFor(leaf.Layer())
	if !ok {
		opts.Logger.Warn("leaf %q has no layer-map entry for %q, exporting on default layer (0,0)", leaf.Name(), leaf.Layer())
		layer, datatype = 0, 0
	}

	x1, y1 := r.X1-origin.X1, r.Y1-origin.Y1
	x2, y2 := r.X2-origin.X1, r.Y2-origin.Y1

	if err := sw.writeNoData(recBOUNDARY); err != nil {
		return newExportError("writing BOUNDARY for %q: %v", leaf.Name(), err)
	}
	if err := sw.writeInt16s(recLAYER, []int16{layer}); err != nil {
		return newExportError("writing LAYER for %q: %v", leaf.Name(), err)
	}
	if err := sw.writeInt16s(recDATATYPE, []int16{datatype}); err != nil {
		return newExportError("writing DATATYPE for %q: %v", leaf.Name(), err)
	}
	xy := []int32{x1, y1, x2, y1, x2, y2, x1, y2, x1, y1}
	if err := sw.writeInt32s(recXY, xy); err != nil {
		return newExportError("writing XY for %q: %v", leaf.Name(), err)
	}
	if err := sw.writeNoData(recENDEL); err != nil {
		return newExportError("writing ENDEL for %q: %v", leaf.Name(), err)
	}
	return nil
}

func emitSRef(sw *streamWriter, child *cellmodel.Cell, origin cellmodel.Rect) error {
	r, _ := child.Pos()
	if err := sw.writeNoData(recSREF); err != nil {
		return newExportError("writing SREF for %q: %v", child.Name(), err)
	}
	if err := sw.writeString(recSNAME, child.Name()); err != nil {
		return newExportError("writing SNAME for %q: %v", child.Name(), err)
	}
	xy := []int32{r.X1 - origin.X1, r.Y1 - origin.Y1}
	if err := sw.writeInt32s(recXY, xy); err != nil {
		return newExportError("writing XY for %q: %v", child.Name(), err)
	}
	if err := sw.writeNoData(recENDEL); err != nil {
		return newExportError("writing ENDEL for %q: %v", child.Name(), err)
	}
	return nil
}
