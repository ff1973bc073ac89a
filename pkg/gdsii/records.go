package gdsii

import "math"

// recType identifies a GDSII record's semantic type (the third header byte).
type recType byte

// dataType identifies a GDSII record's payload encoding (the fourth header
// byte).
type dataType byte

const (
	dtNoData dataType = 0x00
	dtBitArr dataType = 0x01
	dtInt2   dataType = 0x02
	dtInt4   dataType = 0x03
	dtReal4  dataType = 0x04
	dtReal8  dataType = 0x05
	dtString dataType = 0x06
)

// Record types supported by the codec. PATH and TEXT are parsed
// (to stay in sync with the element stream) but ignored; everything else
// outside this set causes a stream-level ImportError.
const (
	recHEADER   recType = 0x00
	recBGNLIB   recType = 0x01
	recLIBNAME  recType = 0x02
	recUNITS    recType = 0x03
	recENDLIB   recType = 0x04
	recBGNSTR   recType = 0x05
	recSTRNAME  recType = 0x06
	recENDSTR   recType = 0x07
	recBOUNDARY recType = 0x08
	recPATH     recType = 0x09
	recSREF     recType = 0x0a
	recAREF     recType = 0x0b
	recTEXT     recType = 0x0c
	recLAYER    recType = 0x0d
	recDATATYPE recType = 0x0e
	recWIDTH    recType = 0x0f
	recXY       recType = 0x10
	recENDEL    recType = 0x11
	recSNAME    recType = 0x12
	recCOLROW   recType = 0x13
	recTEXTTYPE recType = 0x16
	recSTRANS   recType = 0x1a
	recMAG      recType = 0x1b
	recANGLE    recType = 0x1c
)

// record is one decoded GDSII stream record: a 4-byte header (total record
// length, record type, data type) followed by a payload.
type record struct {
	rtype recType
	dtype dataType
	data  []byte
}

// decodeReal8 converts an 8-byte GDSII REAL8 (Excess-64, base-16, sign +
// 7-bit exponent + 56-bit mantissa) to a float64.
func decodeReal8(b []byte) float64 {
	if len(b) != 8 {
		return 0
	}
	sign := 1.0
	if b[0]&0x80 != 0 {
		sign = -1.0
	}
	exponent := int(b[0] & 0x7f)

	var mantissa uint64
	for i := 1; i < 8; i++ {
		mantissa = mantissa<<8 | uint64(b[i])
	}
	if mantissa == 0 {
		return 0
	}
	frac := float64(mantissa) / float64(uint64(1)<<56)
	return sign * frac * math.Pow(16, float64(exponent-64))
}

// encodeReal8 converts a float64 to GDSII REAL8 format, the inverse of
// decodeReal8.
func encodeReal8(f float64) []byte {
	out := make([]byte, 8)
	if f == 0 {
		return out
	}
	var sign byte
	if f < 0 {
		sign = 0x80
		f = -f
	}

	exponent := 64
	for f >= 1.0 {
		f /= 16.0
		exponent++
	}
	for f < 1.0/16.0 {
		f *= 16.0
		exponent--
	}

	mantissa := uint64(f*float64(uint64(1)<<56) + 0.5)
	if mantissa >= uint64(1)<<56 {
		mantissa >>= 4
		exponent++
	}

	out[0] = sign | byte(exponent)
	for i := 7; i >= 1; i-- {
		out[i] = byte(mantissa & 0xff)
		mantissa >>= 8
	}
	return out
}
