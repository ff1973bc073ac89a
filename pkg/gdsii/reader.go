package gdsii

import (
	"bufio"
	"encoding/binary"
	"io"
)

// streamReader provides buffered big-endian reading of a GDSII record
// stream, mirroring the shape of the HPROF reader this codec is grounded
// on: a bufio.Reader wrapped with fixed-width big-endian decode helpers.
type streamReader struct {
	r *bufio.Reader
}

func newStreamReader(r io.Reader) *streamReader {
	return &streamReader{r: bufio.NewReaderSize(r, 64*1024)}
}

// readRecord reads one complete record (header + payload). io.EOF is
// returned only at a clean stream boundary (never mid-record).
func (sr *streamReader) readRecord() (record, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(sr.r, hdr[:]); err != nil {
		return record{}, err
	}
	length := binary.BigEndian.Uint16(hdr[0:2])
	if length < 4 {
		return record{}, newImportError("record length %d is smaller than the header itself", length)
	}
	payloadLen := int(length) - 4
	data := make([]byte, payloadLen)
	if payloadLen > 0 {
		if _, err := io.ReadFull(sr.r, data); err != nil {
			return record{}, newImportError("truncated record payload: %v", err)
		}
	}
	return record{rtype: recType(hdr[2]), dtype: dataType(hdr[3]), data: data}, nil
}

// int16s decodes a payload of big-endian int16 words.
func int16s(data []byte) []int16 {
	out := make([]int16, len(data)/2)
	for i := range out {
		out[i] = int16(binary.BigEndian.Uint16(data[i*2:]))
	}
	return out
}

// int32s decodes a payload of big-endian int32 words (GDSII XY coordinates).
func int32s(data []byte) []int32 {
	out := make([]int32, len(data)/4)
	for i := range out {
		out[i] = int32(binary.BigEndian.Uint32(data[i*4:]))
	}
	return out
}

// real8s decodes a payload of consecutive 8-byte GDSII REAL8 values.
func real8s(data []byte) []float64 {
	out := make([]float64, len(data)/8)
	for i := range out {
		out[i] = decodeReal8(data[i*8 : i*8+8])
	}
	return out
}

// gdsString decodes a GDSII string payload: ASCII, NUL-padded to an even
// length, with the padding (and any trailing NUL) stripped.
func gdsString(data []byte) string {
	end := len(data)
	for end > 0 && data[end-1] == 0 {
		end--
	}
	return string(data[:end])
}
