// Package techfile loads the tech-file layer table that drives GDSII
// import/export layer name translation.
package techfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/StevenJWChen/layout-automation/pkg/gdsii"
)

// Layer is one row of a tech file's layer table, as written in YAML.
type Layer struct {
	Name     string `yaml:"name"`
	Layer    int16  `yaml:"layer"`
	Datatype int16  `yaml:"datatype"`
}

// File is the top-level tech file document.
type File struct {
	Layers []Layer `yaml:"layers"`
}

// Load reads a tech file from path and builds its gdsii.LayerMap.
func Load(path string) (*gdsii.LayerMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("techfile: failed to read %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("techfile: failed to parse %s: %w", path, err)
	}

	entries := make([]gdsii.LayerEntry, len(f.Layers))
	for i, l := range f.Layers {
		entries[i] = gdsii.LayerEntry{Name: l.Name, Layer: l.Layer, Datatype: l.Datatype}
	}

	lm, err := gdsii.NewLayerMap(entries)
	if err != nil {
		return nil, fmt.Errorf("techfile: %s: %w", path, err)
	}
	return lm, nil
}
