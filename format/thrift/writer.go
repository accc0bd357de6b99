package thrift

import (
	"encoding/binary"
	"math"

	"github.com/palletjack/palletjack/internal/unsafecast"
)

// Writer builds Thrift Compact Protocol output. Field headers are always
// written in explicit-id form: a field can be written in any order, and
// previously encoded structs (including ones produced by a different
// writer entirely) can be appended with WriteRaw without either side
// needing to track the other's last field id.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the accumulated output. The returned slice aliases the
// Writer's internal buffer.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// WriteRaw appends previously encoded bytes verbatim, with no reframing.
// This is what lets the sidecar splice a stored ColumnChunk blob, or a
// verbatim schema element, into a freshly built struct.
func (w *Writer) WriteRaw(b []byte) {
	w.buf = append(w.buf, b...)
}

func (w *Writer) writeByte(b byte) {
	w.buf = append(w.buf, b)
}

func (w *Writer) writeUvarint(v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	w.buf = append(w.buf, tmp[:n]...)
}

func (w *Writer) writeVarint(v int64) {
	w.writeUvarint(uint64(v<<1) ^ uint64(v>>63))
}

// fieldHeader writes an explicit-id field header: high nibble zero (no
// delta), wire type in the low nibble, followed by the zigzag-varint id.
func (w *Writer) fieldHeader(id int16, typ byte) {
	w.writeByte(typ & 0x0F)
	w.writeVarint(int64(id))
}

// WriteStop writes the struct terminator.
func (w *Writer) WriteStop() {
	w.writeByte(TypeStop)
}

func (w *Writer) WriteBool(id int16, v bool) {
	if v {
		w.fieldHeader(id, TypeTrue)
	} else {
		w.fieldHeader(id, TypeFalse)
	}
}

func (w *Writer) WriteI8(id int16, v int8) {
	w.fieldHeader(id, TypeI8)
	w.writeByte(byte(v))
}

func (w *Writer) WriteI16(id int16, v int16) {
	w.fieldHeader(id, TypeI16)
	w.writeVarint(int64(v))
}

func (w *Writer) WriteI32(id int16, v int32) {
	w.fieldHeader(id, TypeI32)
	w.writeVarint(int64(v))
}

func (w *Writer) WriteI64(id int16, v int64) {
	w.fieldHeader(id, TypeI64)
	w.writeVarint(v)
}

func (w *Writer) WriteDouble(id int16, v float64) {
	w.fieldHeader(id, TypeDouble)
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(v))
	w.buf = append(w.buf, tmp[:]...)
}

func (w *Writer) WriteBinary(id int16, v []byte) {
	w.fieldHeader(id, TypeBinary)
	w.writeUvarint(uint64(len(v)))
	w.buf = append(w.buf, v...)
}

func (w *Writer) WriteString(id int16, v string) {
	w.WriteBinary(id, unsafecast.StringToBytes(v))
}

// WriteListHeader writes a list/set header for size elements of the given
// element wire type. The caller is responsible for writing exactly size
// elements afterward.
func (w *Writer) WriteListHeader(size int, elemType byte) {
	if size < 0x0F {
		w.writeByte(byte(size<<4) | (elemType & 0x0F))
		return
	}
	w.writeByte(0xF0 | (elemType & 0x0F))
	w.writeUvarint(uint64(size))
}

// WriteFieldHeader writes an explicit-id field header for a struct or list
// typed field; the caller writes the struct/list body immediately after.
func (w *Writer) WriteFieldHeader(id int16, typ byte) {
	w.fieldHeader(id, typ)
}
