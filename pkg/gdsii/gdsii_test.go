package gdsii

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StevenJWChen/layout-automation/pkg/cellmodel"
	"github.com/StevenJWChen/layout-automation/pkg/solver"
)

func metalLayerMap(t *testing.T) *LayerMap {
	t.Helper()
	lm, err := NewLayerMap([]LayerEntry{
		{Name: "metal1", Layer: 1, Datatype: 0},
		{Name: "metal2", Layer: 2, Datatype: 0},
	})
	require.NoError(t, err)
	return lm
}

// TestExportImportExportRoundTrip builds a two-leaf container, solves,
// exports, imports as fixed, and exports again. The two exports must be
// byte-identical and the imported root's bbox must equal the original's.
func TestExportImportExportRoundTrip(t *testing.T) {
	top := cellmodel.NewContainer("TOP")
	a := cellmodel.NewLeaf("A", "metal1")
	b := cellmodel.NewLeaf("B", "metal2")
	require.NoError(t, top.ConstrainAbs(a, "sx1 = 0, sy1 = 0, sx2 = 10, sy2 = 10"))
	require.NoError(t, top.ConstrainRel(b, "ll_edge = 0, bt_edge = 5, swidth = 10, sheight = 10", a))
	require.NoError(t, solver.Solve(context.Background(), top, solver.Options{}))

	lm := metalLayerMap(t)
	dir := t.TempDir()
	out1 := filepath.Join(dir, "out1.gds")
	out2 := filepath.Join(dir, "out2.gds")

	require.NoError(t, ExportGDS(top, out1, lm, Options{LibName: "TESTLIB"}))

	imported, err := FromGDS(out1, lm, Options{})
	require.NoError(t, err)
	assert.True(t, imported.IsFixed())

	origBBox, ok := top.BBox()
	require.True(t, ok)
	importedBBox, ok := imported.BBox()
	require.True(t, ok)
	assert.Equal(t, origBBox, importedBBox)

	require.NoError(t, ExportGDS(imported, out2, lm, Options{LibName: "TESTLIB"}))

	bytes1, err := os.ReadFile(out1)
	require.NoError(t, err)
	bytes2, err := os.ReadFile(out2)
	require.NoError(t, err)
	assert.Equal(t, bytes1, bytes2)
}

func TestExportRejectsUnsolvedTree(t *testing.T) {
	top := cellmodel.NewContainer("TOP")
	a := cellmodel.NewLeaf("A", "metal1")
	require.NoError(t, top.AddChild(a))

	err := ExportGDS(top, filepath.Join(t.TempDir(), "out.gds"), metalLayerMap(t), Options{})
	require.Error(t, err)
	var exportErr *ExportError
	require.ErrorAs(t, err, &exportErr)
	assert.True(t, exportErr.Unsolved)
}

func TestExportRejectsLeafRoot(t *testing.T) {
	leaf := cellmodel.NewLeaf("R", "metal1")
	require.NoError(t, leaf.ConstrainSelf("x1=0,y1=0,width=10,height=10"))
	require.NoError(t, solver.Solve(context.Background(), leaf, solver.Options{}))

	err := ExportGDS(leaf, filepath.Join(t.TempDir(), "out.gds"), metalLayerMap(t), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExport)
}

func TestUnknownLayerSynthesizesName(t *testing.T) {
	lm := NewEmptyLayerMap()
	assert.Equal(t, "layer_3000", lm.NameFor(3, 0))
	assert.Equal(t, "layer_3002", lm.NameFor(3, 2))
}

func TestLayerMapRejectsCollision(t *testing.T) {
	_, err := NewLayerMap([]LayerEntry{
		{Name: "metal1", Layer: 1, Datatype: 0},
		{Name: "metal1", Layer: 2, Datatype: 0},
	})
	assert.Error(t, err)

	_, err = NewLayerMap([]LayerEntry{
		{Name: "metal1", Layer: 1, Datatype: 0},
		{Name: "metal2", Layer: 1, Datatype: 0},
	})
	assert.Error(t, err)
}

// TestImportRejectsNonIdentityTransform builds a minimal hand-crafted
// stream containing an SREF with a STRANS record and checks it is rejected
// rather than silently applying the identity transform.
func TestImportRejectsNonIdentityTransform(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transform.gds")
	f, err := os.Create(path)
	require.NoError(t, err)

	sw := newStreamWriter(f)
	require.NoError(t, writeLibraryHeader(sw, Options{}.withDefaults()))

	// Child structure "CHILD" with one boundary.
	require.NoError(t, sw.writeInt16s(recBGNSTR, zeroTimestamp[:]))
	require.NoError(t, sw.writeString(recSTRNAME, "CHILD"))
	require.NoError(t, sw.writeNoData(recBOUNDARY))
	require.NoError(t, sw.writeInt16s(recLAYER, []int16{1}))
	require.NoError(t, sw.writeInt16s(recDATATYPE, []int16{0}))
	require.NoError(t, sw.writeInt32s(recXY, []int32{0, 0, 10, 0, 10, 10, 0, 10, 0, 0}))
	require.NoError(t, sw.writeNoData(recENDEL))
	require.NoError(t, sw.writeNoData(recENDSTR))

	// Root structure "TOP" referencing CHILD with a rotation.
	require.NoError(t, sw.writeInt16s(recBGNSTR, zeroTimestamp[:]))
	require.NoError(t, sw.writeString(recSTRNAME, "TOP"))
	require.NoError(t, sw.writeNoData(recSREF))
	require.NoError(t, sw.writeString(recSNAME, "CHILD"))
	require.NoError(t, sw.writeRecord(recSTRANS, dtBitArr, []byte{0, 0}))
	require.NoError(t, sw.writeReal8s(recANGLE, []float64{90}))
	require.NoError(t, sw.writeInt32s(recXY, []int32{0, 0}))
	require.NoError(t, sw.writeNoData(recENDEL))
	require.NoError(t, sw.writeNoData(recENDSTR))

	require.NoError(t, sw.writeNoData(recENDLIB))
	require.NoError(t, sw.flush())
	require.NoError(t, f.Close())

	_, err = FromGDS(path, NewEmptyLayerMap(), Options{})
	require.Error(t, err)
	var ug *UnsupportedGeometryError
	require.ErrorAs(t, err, &ug)
}
