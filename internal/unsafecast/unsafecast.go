// Package unsafecast exposes functions to bypass the Go type system and perform
// conversions between types that would otherwise not be possible.
//
// The functions of this package are mostly useful as optimizations to avoid
// memory copies when converting between compatible memory layouts; here they
// let the Thrift codec move string-typed fields (schema and column names,
// created_by, key/value metadata) in and out of the wire buffer without a
// copy per field.
//
//	With great power comes great responsibility.
package unsafecast

import "unsafe"

// BytesToString converts a byte slice to a string value. The returned string
// shares the backing array of the byte slice.
//
// Programs using this function are responsible for ensuring that the data slice
// is not modified while the returned string is in use, otherwise the guarantee
// of immutability of Go string values will be violated, resulting in undefined
// behavior.
func BytesToString(data []byte) string {
	return unsafe.String(unsafe.SliceData(data), len(data))
}

// StringToBytes applies the inverse conversion of BytesToString.
func StringToBytes(data string) []byte {
	return unsafe.Slice(unsafe.StringData(data), len(data))
}
