package thrift

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/palletjack/palletjack/internal/unsafecast"
)

// ErrTruncated is returned when the buffer ends in the middle of a value.
var ErrTruncated = errors.New("thrift: truncated input")

// ErrInvalidVarint is returned when a varint would overflow 64 bits.
var ErrInvalidVarint = errors.New("thrift: invalid varint")

// Reader decodes Thrift Compact Protocol values from an in-memory buffer.
// It never copies: binary and string values reference sub-slices of the
// original buffer, so the buffer must outlive anything decoded from it.
type Reader struct {
	Data []byte
	Pos  int
}

// NewReader wraps data for decoding starting at offset 0.
func NewReader(data []byte) *Reader {
	return &Reader{Data: data}
}

func (r *Reader) readByte() (byte, error) {
	if r.Pos >= len(r.Data) {
		return 0, ErrTruncated
	}
	v := r.Data[r.Pos]
	r.Pos++
	return v, nil
}

func (r *Reader) readSlice(n int) ([]byte, error) {
	if n < 0 || r.Pos+n > len(r.Data) {
		return nil, ErrTruncated
	}
	s := r.Data[r.Pos : r.Pos+n]
	r.Pos += n
	return s, nil
}

func (r *Reader) skip(n int) error {
	if n < 0 || r.Pos+n > len(r.Data) {
		return ErrTruncated
	}
	r.Pos += n
	return nil
}

func (r *Reader) readUvarint() (uint64, error) {
	var x uint64
	var s uint
	for i := 0; ; i++ {
		if r.Pos >= len(r.Data) {
			return 0, ErrTruncated
		}
		v := r.Data[r.Pos]
		r.Pos++
		if v < 0x80 {
			if i >= binary.MaxVarintLen64 || (i == binary.MaxVarintLen64-1 && v > 1) {
				return 0, ErrInvalidVarint
			}
			return x | uint64(v)<<s, nil
		}
		x |= uint64(v&0x7f) << s
		s += 7
	}
}

func (r *Reader) readVarint() (int64, error) {
	ux, err := r.readUvarint()
	if err != nil {
		return 0, err
	}
	x := int64(ux >> 1)
	if ux&1 != 0 {
		x = ^x
	}
	return x, nil
}

func (r *Reader) readLength() (int, error) {
	n, err := r.readUvarint()
	return int(n), err
}

// ReadBinary decodes a Thrift binary value (varint length + bytes) as a
// zero-copy slice into the underlying buffer.
func (r *Reader) ReadBinary() ([]byte, error) {
	n, err := r.readLength()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	return r.readSlice(n)
}

// ReadString decodes a Thrift binary value as a string, reusing the
// underlying bytes without copying. The returned string aliases the
// Reader's buffer and must not outlive it.
func (r *Reader) ReadString() (string, error) {
	b, err := r.ReadBinary()
	if err != nil || len(b) == 0 {
		return "", err
	}
	return unsafecast.BytesToString(b), nil
}

func (r *Reader) ReadI32() (int32, error) {
	v, err := r.readVarint()
	return int32(v), err
}

func (r *Reader) ReadI64() (int64, error) {
	return r.readVarint()
}

func (r *Reader) ReadI16() (int16, error) {
	v, err := r.readVarint()
	return int16(v), err
}

func (r *Reader) ReadI8() (int8, error) {
	v, err := r.readByte()
	return int8(v), err
}

func (r *Reader) ReadDouble() (float64, error) {
	if r.Pos+8 > len(r.Data) {
		return 0, ErrTruncated
	}
	bits := binary.LittleEndian.Uint64(r.Data[r.Pos:])
	r.Pos += 8
	return math.Float64frombits(bits), nil
}

func (r *Reader) readBool(typ byte) (bool, error) {
	switch typ {
	case TypeTrue:
		return true, nil
	case TypeFalse:
		return false, nil
	default:
		return false, fmt.Errorf("thrift: expected BOOL type, got %d", typ)
	}
}

// ReadField reads the next field header, returning its id and wire type.
// typ == TypeStop signals the end of the enclosing struct.
func (r *Reader) ReadField(lastID int16) (id int16, typ byte, err error) {
	v, err := r.readByte()
	if err != nil {
		return 0, 0, err
	}

	typ = v & 0x0F
	if typ == TypeStop {
		return 0, TypeStop, nil
	}

	if delta := v >> 4; delta != 0 {
		id = lastID + int16(delta)
	} else {
		n, err := r.readVarint()
		if err != nil {
			return 0, 0, err
		}
		id = int16(n)
	}

	return id, typ, nil
}

// ReadListHeader reads a list (or set) header, returning the element count
// and element wire type.
func (r *Reader) ReadListHeader() (size int, typ byte, err error) {
	v, err := r.readByte()
	if err != nil {
		return 0, 0, err
	}

	typ = v & 0x0F
	size = int(v >> 4)

	if size == 0x0F {
		n, err := r.readUvarint()
		if err != nil {
			return 0, 0, err
		}
		size = int(n)
	}

	return size, typ, nil
}

// SkipValue skips a value of the given wire type without materializing it.
func (r *Reader) SkipValue(typ byte) error {
	switch typ {
	case TypeTrue, TypeFalse:
		return nil
	case TypeI8:
		return r.skip(1)
	case TypeI16, TypeI32, TypeI64:
		_, err := r.readVarint()
		return err
	case TypeDouble:
		return r.skip(8)
	case TypeBinary:
		n, err := r.readLength()
		if err != nil {
			return err
		}
		return r.skip(n)
	case TypeList, TypeSet:
		size, elemType, err := r.ReadListHeader()
		if err != nil {
			return err
		}
		for range size {
			if err := r.SkipValue(elemType); err != nil {
				return err
			}
		}
		return nil
	case TypeMap:
		n, err := r.readUvarint()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		kv, err := r.readByte()
		if err != nil {
			return err
		}
		keyType := kv >> 4
		valType := kv & 0x0F
		for range n {
			if err := r.SkipValue(keyType); err != nil {
				return err
			}
			if err := r.SkipValue(valType); err != nil {
				return err
			}
		}
		return nil
	case TypeStruct:
		return r.SkipStruct()
	default:
		return fmt.Errorf("thrift: unknown type %d", typ)
	}
}

// SkipStruct consumes one struct's fields, positioning Pos right after its
// stop marker, without decoding any of them.
func (r *Reader) SkipStruct() error {
	var lastID int16
	for {
		id, typ, err := r.ReadField(lastID)
		if err != nil {
			return err
		}
		if typ == TypeStop {
			return nil
		}
		if err := r.SkipValue(typ); err != nil {
			return err
		}
		lastID = id
	}
}

// StructRange returns the byte range [start, end) of the struct that begins
// at the reader's current position, advancing Pos to end. The returned
// range is independently decodable: a Thrift struct never references state
// from outside itself.
func (r *Reader) StructRange() (start, end int, err error) {
	start = r.Pos
	if err := r.SkipStruct(); err != nil {
		return start, start, err
	}
	return start, r.Pos, nil
}
