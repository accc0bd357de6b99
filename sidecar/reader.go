package sidecar

import (
	"encoding/binary"
	"fmt"
)

// Reader gives random-access, zero-copy views into a sidecar's sections.
// Apart from the column names, which Open copies into strings, it never
// copies bytes out of data; every other accessor returns a sub-slice of the
// buffer the Reader was opened with.
type Reader struct {
	data   []byte
	header Header
	names  []string
	mapped *mappedFile
}

// Open validates a sidecar's header and trailer and returns a Reader over
// data. data is retained for the lifetime of the Reader; callers that mmap
// the sidecar file must keep the mapping alive at least as long.
func Open(data []byte) (*Reader, error) {
	h, err := decodeHeader(data)
	if err != nil {
		return nil, err
	}
	if h.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("sidecar: unsupported format version %d (want %d)", h.FormatVersion, FormatVersion)
	}
	if len(data) < len(TrailerMagic) {
		return nil, errBadTrailer
	}
	trailer := data[len(data)-len(TrailerMagic):]
	if [4]byte(trailer) != TrailerMagic {
		return nil, errBadTrailer
	}

	r := &Reader{data: data, header: h}
	names, err := r.readNameTable()
	if err != nil {
		return nil, err
	}
	r.names = names
	return r, nil
}

// OpenFile memory-maps the sidecar at path (falling back to a full read on
// platforms without mmap support) and returns a Reader over it. Close must
// be called to release the mapping.
func OpenFile(path string) (*Reader, error) {
	m, data, err := openMapped(path)
	if err != nil {
		return nil, err
	}
	r, err := Open(data)
	if err != nil {
		m.Close()
		return nil, err
	}
	r.mapped = m
	return r, nil
}

// Close releases the sidecar's backing mapping, if any. Readers opened via
// Open (in-memory bytes the caller owns) are safe to drop without calling
// Close.
func (r *Reader) Close() error {
	if r.mapped == nil {
		return nil
	}
	return r.mapped.Close()
}

func (r *Reader) readNameTable() ([]string, error) {
	names := make([]string, 0, r.header.NumColumns)
	off := r.header.NameTableOffset
	for i := uint32(0); i < r.header.NumColumns; i++ {
		if off >= uint64(len(r.data)) {
			return nil, fmt.Errorf("sidecar: name table truncated at column %d", i)
		}
		length, n := binary.Uvarint(r.data[off:])
		if n <= 0 {
			return nil, fmt.Errorf("sidecar: name table: bad varint at column %d", i)
		}
		off += uint64(n)
		end := off + length
		if end > uint64(len(r.data)) {
			return nil, fmt.Errorf("sidecar: name table: name %d out of range", i)
		}
		names = append(names, string(r.data[off:end]))
		off = end
	}
	return names, nil
}

// RowGroupCount returns the number of row groups recorded in the sidecar.
func (r *Reader) RowGroupCount() int { return int(r.header.NumRowGroups) }

// ColumnCount returns the number of leaf columns recorded in the sidecar.
func (r *Reader) ColumnCount() int { return int(r.header.NumColumns) }

// ColumnNames returns the leaf column names in schema order. The returned
// slice must not be mutated.
func (r *Reader) ColumnNames() []string { return r.names }

// ColumnIndexByName returns the leaf index of name, or -1 if no column by
// that name exists.
func (r *Reader) ColumnIndexByName(name string) int {
	for i, n := range r.names {
		if n == name {
			return i
		}
	}
	return -1
}

// SchemaBytes returns the raw, Thrift-encoded schema list exactly as it
// appeared in the original footer.
func (r *Reader) SchemaBytes() []byte {
	return r.data[r.header.SchemaOffset : r.header.SchemaOffset+r.header.SchemaLength]
}

// TopLevelBytes returns the raw, Thrift-encoded FileMetaData fields other
// than Schema, NumRows and RowGroups (version, key_value_metadata,
// created_by, column_orders).
func (r *Reader) TopLevelBytes() []byte {
	return r.data[r.header.TopLevelOffset : r.header.TopLevelOffset+r.header.TopLevelLength]
}

// RowGroupPrefix returns the raw, Thrift-encoded RowGroup fields other than
// Columns for row group rg.
func (r *Reader) RowGroupPrefix(rg int) ([]byte, error) {
	if rg < 0 || rg >= int(r.header.NumRowGroups) {
		return nil, fmt.Errorf("sidecar: row group %d out of range [0,%d)", rg, r.header.NumRowGroups)
	}
	entry := r.header.RgPrefixOffset + uint64(rg)*rgPrefixEntrySize
	off := binary.LittleEndian.Uint64(r.data[entry:])
	length := binary.LittleEndian.Uint32(r.data[entry+8:])
	return r.data[off : off+uint64(length)], nil
}

// ColumnChunkBlob returns the raw, independently decodable Thrift encoding
// of the ColumnChunk struct at (rg, col).
func (r *Reader) ColumnChunkBlob(rg, col int) ([]byte, error) {
	if rg < 0 || rg >= int(r.header.NumRowGroups) {
		return nil, fmt.Errorf("sidecar: row group %d out of range [0,%d)", rg, r.header.NumRowGroups)
	}
	if col < 0 || col >= int(r.header.NumColumns) {
		return nil, fmt.Errorf("sidecar: column %d out of range [0,%d)", col, r.header.NumColumns)
	}
	cell := (rg*int(r.header.NumColumns) + col) * directoryEntrySize
	entry := r.header.DirectoryOffset + uint64(cell)
	off := binary.LittleEndian.Uint64(r.data[entry:])
	length := binary.LittleEndian.Uint64(r.data[entry+8:])
	return r.data[off : off+length], nil
}
