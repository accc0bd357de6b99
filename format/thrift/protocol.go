// Package thrift implements the narrow slice of the Thrift Compact Protocol
// that Apache Parquet footers use: struct, stop, bool, i8/i16/i32/i64
// zigzag varint, double, binary/string and list.
//
// Unlike a general-purpose Thrift library, this package is built to let a
// caller capture a struct's encoded byte range without decoding its fields
// (Reader.SkipStruct, Reader.StructRange) and to splice previously
// encoded bytes back into a new stream without re-encoding them
// (Writer.WriteRaw). That is what lets the sidecar format carry a
// ColumnChunk as an opaque, independently decodable blob.
//
// The encoder always emits field headers in the "explicit id" form (short
// form delta encoding is a pure size optimization that real Parquet writers
// use but a compliant reader must accept either form) so that callers never
// have to track the previous field id across a splice point.
package thrift

const (
	TypeStop   = 0
	TypeTrue   = 1
	TypeFalse  = 2
	TypeI8     = 3
	TypeI16    = 4
	TypeI32    = 5
	TypeI64    = 6
	TypeDouble = 7
	TypeBinary = 8
	TypeList   = 9
	TypeSet    = 10
	TypeMap    = 11
	TypeStruct = 12
)
