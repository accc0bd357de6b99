package sidecar

import "encoding/binary"

// RowGroupInput is everything the writer needs to lay out one row group's
// slice of the sidecar: its prefix bytes (every RowGroup field except
// Columns, Thrift-encoded) and the raw, per-column ColumnChunk blobs in
// schema (leaf) order.
type RowGroupInput struct {
	Prefix  []byte
	Columns [][]byte
}

// BuildInput collects the pieces the index builder has already extracted
// from a Parquet footer. Every byte slice here is either a verbatim
// sub-range of the original footer or the output of a single deterministic
// re-encode; nothing is re-derived inside Build.
type BuildInput struct {
	SchemaBlock []byte
	ColumnNames []string // leaf column names, in schema order
	TopLevel    []byte
	RowGroups   []RowGroupInput
}

// Build serializes inp into the PalletJack sidecar binary layout described
// in package sidecar's documentation. The output is a deterministic
// function of inp: building twice from the same input yields byte-
// identical output, which is what the golden-master test relies on.
func Build(inp BuildInput) []byte {
	numColumns := len(inp.ColumnNames)

	var schemaOffset, topLevelOffset uint64
	var rgPrefixOffset, directoryOffset, nameTableOffset uint64

	body := make([]byte, 0, len(inp.SchemaBlock)+len(inp.TopLevel)+4096)

	appendSection := func(b []byte) uint64 {
		off := uint64(HeaderSize + len(body))
		body = append(body, b...)
		return off
	}

	schemaOffset = appendSection(inp.SchemaBlock)

	nameTableOffset = uint64(HeaderSize + len(body))
	for _, name := range inp.ColumnNames {
		body = appendVarint(body, uint64(len(name)))
		body = append(body, name...)
	}

	topLevelOffset = appendSection(inp.TopLevel)

	rgPrefixOffset = uint64(HeaderSize + len(body))
	prefixIndex := make([]byte, len(inp.RowGroups)*rgPrefixEntrySize)
	prefixBlobStart := rgPrefixOffset + uint64(len(prefixIndex))
	prefixBlobs := make([]byte, 0, 256*len(inp.RowGroups))
	for i, rg := range inp.RowGroups {
		off := prefixBlobStart + uint64(len(prefixBlobs))
		binary.LittleEndian.PutUint64(prefixIndex[i*rgPrefixEntrySize:], off)
		binary.LittleEndian.PutUint32(prefixIndex[i*rgPrefixEntrySize+8:], uint32(len(rg.Prefix)))
		prefixBlobs = append(prefixBlobs, rg.Prefix...)
	}
	body = append(body, prefixIndex...)
	body = append(body, prefixBlobs...)

	directoryOffset = uint64(HeaderSize + len(body))
	directory := make([]byte, len(inp.RowGroups)*numColumns*directoryEntrySize)
	blobs := make([]byte, 0, 4096)
	blobStart := directoryOffset + uint64(len(directory))
	for r, rg := range inp.RowGroups {
		for c := 0; c < numColumns; c++ {
			var blob []byte
			if c < len(rg.Columns) {
				blob = rg.Columns[c]
			}
			cell := (r*numColumns + c) * directoryEntrySize
			off := blobStart + uint64(len(blobs))
			binary.LittleEndian.PutUint64(directory[cell:], off)
			binary.LittleEndian.PutUint64(directory[cell+8:], uint64(len(blob)))
			blobs = append(blobs, blob...)
		}
	}
	body = append(body, directory...)
	body = append(body, blobs...)

	h := Header{
		FormatVersion:   FormatVersion,
		NumRowGroups:    uint32(len(inp.RowGroups)),
		NumColumns:      uint32(numColumns),
		SchemaOffset:    schemaOffset,
		SchemaLength:    uint64(len(inp.SchemaBlock)),
		TopLevelOffset:  topLevelOffset,
		TopLevelLength:  uint64(len(inp.TopLevel)),
		RgPrefixOffset:  rgPrefixOffset,
		RgPrefixStride:  rgPrefixEntrySize,
		DirectoryOffset: directoryOffset,
		NameTableOffset: nameTableOffset,
	}

	out := make([]byte, 0, HeaderSize+len(body)+len(TrailerMagic))
	out = append(out, h.encode()...)
	out = append(out, body...)
	out = append(out, TrailerMagic[:]...)
	return out
}

func appendVarint(b []byte, v uint64) []byte {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	return append(b, tmp[:n]...)
}
