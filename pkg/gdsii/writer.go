package gdsii

import (
	"bufio"
	"encoding/binary"
	"io"
)

// streamWriter is the symmetric counterpart of streamReader: a buffered
// big-endian record writer.
type streamWriter struct {
	w *bufio.Writer
}

func newStreamWriter(w io.Writer) *streamWriter {
	return &streamWriter{w: bufio.NewWriterSize(w, 64*1024)}
}

func (sw *streamWriter) writeRecord(rt recType, dt dataType, payload []byte) error {
	length := 4 + len(payload)
	var hdr [4]byte
	binary.BigEndian.PutUint16(hdr[0:2], uint16(length))
	hdr[2] = byte(rt)
	hdr[3] = byte(dt)
	if _, err := sw.w.Write(hdr[:]); err != nil {
		return err
	}
	if len(payload) > 0 {
		if _, err := sw.w.Write(payload); err != nil {
			return err
		}
	}
	return nil
}

func (sw *streamWriter) writeNoData(rt recType) error {
	return sw.writeRecord(rt, dtNoData, nil)
}

func (sw *streamWriter) writeInt16s(rt recType, vals []int16) error {
	buf := make([]byte, len(vals)*2)
	for i, v := range vals {
		binary.BigEndian.PutUint16(buf[i*2:], uint16(v))
	}
	return sw.writeRecord(rt, dtInt2, buf)
}

func (sw *streamWriter) writeInt32s(rt recType, vals []int32) error {
	buf := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.BigEndian.PutUint32(buf[i*4:], uint32(v))
	}
	return sw.writeRecord(rt, dtInt4, buf)
}

func (sw *streamWriter) writeReal8s(rt recType, vals []float64) error {
	buf := make([]byte, 0, len(vals)*8)
	for _, v := range vals {
		buf = append(buf, encodeReal8(v)...)
	}
	return sw.writeRecord(rt, dtReal8, buf)
}

// writeString emits an ASCII payload padded with a single trailing NUL to
// make the total length even, the GDSII string convention.
func (sw *streamWriter) writeString(rt recType, s string) error {
	payload := []byte(s)
	if len(payload)%2 != 0 {
		payload = append(payload, 0)
	}
	return sw.writeRecord(rt, dtString, payload)
}

func (sw *streamWriter) flush() error { return sw.w.Flush() }
