// Package gdsii implements a GDSII binary stream codec: a big-endian
// record reader/writer, a tech-file-driven layer map, and the import/export
// walks that translate between a cell tree and a GDSII library file. It is
// a hand-rolled binary codec, built the same way as a buffered big-endian
// Reader/Writer pair plus a tag-dispatch walk over the record stream.
package gdsii

import (
	"errors"
	"fmt"
)

// Sentinel errors for the codec's three failure modes.
var (
	ErrUnsupportedGeometry = errors.New("gdsii: unsupported geometry")
	ErrImport              = errors.New("gdsii: import error")
	ErrExport              = errors.New("gdsii: export error")
)

// UnsupportedGeometryError wraps ErrUnsupportedGeometry: a stream contains a
// non-identity transform (STRANS/MAG/ANGLE on an SREF/AREF), which the
// codec never supports on import.
type UnsupportedGeometryError struct {
	Msg string
}

func (e *UnsupportedGeometryError) Error() string {
	return "gdsii: unsupported geometry: " + e.Msg
}
func (e *UnsupportedGeometryError) Unwrap() error { return ErrUnsupportedGeometry }

func newUnsupportedGeometryError(format string, a ...interface{}) error {
	return &UnsupportedGeometryError{Msg: fmt.Sprintf(format, a...)}
}

// ImportError wraps ErrImport with stream-level diagnostic context.
type ImportError struct {
	Msg string
}

func (e *ImportError) Error() string { return "gdsii: import error: " + e.Msg }
func (e *ImportError) Unwrap() error { return ErrImport }

func newImportError(format string, a ...interface{}) error {
	return &ImportError{Msg: fmt.Sprintf(format, a...)}
}

// ExportError wraps ErrExport. Unsolved is the specific case where the
// root or a descendant has no solved position.
type ExportError struct {
	Msg      string
	Unsolved bool
	CellName string
}

func (e *ExportError) Error() string {
	if e.Unsolved {
		return fmt.Sprintf("gdsii: export error: cell %q is unsolved", e.CellName)
	}
	return "gdsii: export error: " + e.Msg
}
func (e *ExportError) Unwrap() error { return ErrExport }

func newExportError(format string, a ...interface{}) error {
	return &ExportError{Msg: fmt.Sprintf(format, a...)}
}

func newUnsolvedError(cellName string) error {
	return &ExportError{Unsolved: true, CellName: cellName}
}
