package techfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTechFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "tech.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeTechFile(t, `
layers:
  - name: metal1
    layer: 10
    datatype: 0
  - name: metal2
    layer: 11
    datatype: 0
  - name: via1
    layer: 15
    datatype: 1
`)

	lm, err := Load(path)
	require.NoError(t, err)

	layer, datatype, ok := lm.LayerFor("metal1")
	assert.True(t, ok)
	assert.Equal(t, int16(10), layer)
	assert.Equal(t, int16(0), datatype)

	assert.Equal(t, "via1", lm.NameFor(15, 1))
}

func TestLoad_Empty(t *testing.T) {
	path := writeTechFile(t, "layers: []\n")

	lm, err := Load(path)
	require.NoError(t, err)

	_, _, ok := lm.LayerFor("metal1")
	assert.False(t, ok)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeTechFile(t, "layers: [this is not valid\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_DuplicateName(t *testing.T) {
	path := writeTechFile(t, `
layers:
  - name: metal1
    layer: 10
    datatype: 0
  - name: metal1
    layer: 11
    datatype: 0
`)

	_, err := Load(path)
	assert.Error(t, err)
}
