package gdsii

import "fmt"

// layerKey is the GDSII (layer_number, datatype) pair a boundary element is
// tagged with.
type layerKey struct {
	layer    int16
	datatype int16
}

// LayerMap is a tech-file-driven translation table: two injective tables,
// name -> (layer, datatype) for export and the reverse for import. The core
// treats it as an opaque read-only dictionary built by the collaborating
// tech-file subsystem.
type LayerMap struct {
	toLayer map[string]layerKey
	toName  map[layerKey]string
}

// LayerEntry is one row of a tech file's layer table.
type LayerEntry struct {
	Name     string
	Layer    int16
	Datatype int16
}

// NewLayerMap builds a LayerMap from a list of entries, rejecting any
// collision on either side: both tables must stay injective.
func NewLayerMap(entries []LayerEntry) (*LayerMap, error) {
	lm := &LayerMap{
		toLayer: make(map[string]layerKey, len(entries)),
		toName:  make(map[layerKey]string, len(entries)),
	}
	for _, e := range entries {
		key := layerKey{e.Layer, e.Datatype}
		if existing, ok := lm.toLayer[e.Name]; ok {
			return nil, fmt.Errorf("gdsii: layer map: name %q maps to both (%d,%d) and (%d,%d)", e.Name, existing.layer, existing.datatype, e.Layer, e.Datatype)
		}
		if existing, ok := lm.toName[key]; ok {
			return nil, fmt.Errorf("gdsii: layer map: (%d,%d) maps to both %q and %q", e.Layer, e.Datatype, existing, e.Name)
		}
		lm.toLayer[e.Name] = key
		lm.toName[key] = e.Name
	}
	return lm, nil
}

// NewEmptyLayerMap returns a LayerMap with no entries; every lookup falls
// through to the synthesized layer_{N} name or the (0,0) default layer.
func NewEmptyLayerMap() *LayerMap {
	lm, _ := NewLayerMap(nil)
	return lm
}

// NameFor resolves an imported boundary's (layer, datatype) pair to a cell
// layer tag, falling back to a synthesized name on a miss.
func (lm *LayerMap) NameFor(layer, datatype int16) string {
	if name, ok := lm.toName[layerKey{layer, datatype}]; ok {
		return name
	}
	return synthesizeLayerName(layer, datatype)
}

// LayerFor resolves an export leaf's layer tag to a (layer, datatype) pair,
// reporting false on a miss (the caller emits on the default (0,0) layer
// with a warning).
func (lm *LayerMap) LayerFor(name string) (layer, datatype int16, ok bool) {
	key, ok := lm.toLayer[name]
	return key.layer, key.datatype, ok
}

// synthesizeLayerName produces the deterministic "layer_{N}" name for an
// unmapped (layer, datatype) pair, encoding both numbers into N as
// layer*1000 + datatype; distinct pairs never collide while datatype stays
// within 0..999.
func synthesizeLayerName(layer, datatype int16) string {
	n := int64(layer)*1000 + int64(datatype)
	return fmt.Sprintf("layer_%d", n)
}
