// Package sidecar implements PalletJack's on-disk ".index" layout: a
// stable, endian-fixed binary file that stores a Parquet footer's schema
// and per-row-group/per-column chunk payloads as independently addressable
// byte ranges, so a later projection can be served with O(1) seeks into
// the relevant slices instead of a full Thrift decode.
//
// The format is never versioned up in place: FormatVersion changes only
// when the byte layout itself changes, and old readers must reject newer
// versions outright (see Open).
package sidecar

import "encoding/binary"

// Magic markers bracket the file so a stray truncation or a non-sidecar
// file (e.g. the original .parquet) is caught immediately.
var (
	HeaderMagic  = [4]byte{'P', 'J', 'I', 'X'}
	TrailerMagic = [4]byte{'p', 'j', 'i', 'x'}
)

// FormatVersion is the current on-disk layout version.
const FormatVersion uint32 = 1

// HeaderSize is the fixed size of the header block; fields past the ones
// this package currently writes are reserved and zeroed.
const HeaderSize = 128

// directoryEntrySize is the width of one (offset, length) cell in the
// row-group×column directory: 8 bytes absolute offset + 8 bytes length.
const directoryEntrySize = 16

// rgPrefixEntrySize is the width of one entry in the row-group prefix
// index: 8 bytes absolute offset + 4 bytes length. This is the value
// recorded in the header's RgPrefixStride field.
const rgPrefixEntrySize = 12

// Header is the decoded form of the sidecar's fixed-size leading block.
type Header struct {
	FormatVersion   uint32
	NumRowGroups    uint32
	NumColumns      uint32
	SchemaOffset    uint64
	SchemaLength    uint64
	TopLevelOffset  uint64
	TopLevelLength  uint64
	RgPrefixOffset  uint64
	RgPrefixStride  uint32
	DirectoryOffset uint64
	NameTableOffset uint64
}

func (h *Header) encode() []byte {
	b := make([]byte, HeaderSize)
	copy(b[0:4], HeaderMagic[:])
	binary.LittleEndian.PutUint32(b[4:8], h.FormatVersion)
	binary.LittleEndian.PutUint32(b[8:12], h.NumRowGroups)
	binary.LittleEndian.PutUint32(b[12:16], h.NumColumns)
	binary.LittleEndian.PutUint64(b[16:24], h.SchemaOffset)
	binary.LittleEndian.PutUint64(b[24:32], h.SchemaLength)
	binary.LittleEndian.PutUint64(b[32:40], h.TopLevelOffset)
	binary.LittleEndian.PutUint64(b[40:48], h.TopLevelLength)
	binary.LittleEndian.PutUint64(b[48:56], h.RgPrefixOffset)
	binary.LittleEndian.PutUint32(b[56:60], h.RgPrefixStride)
	binary.LittleEndian.PutUint64(b[60:68], h.DirectoryOffset)
	binary.LittleEndian.PutUint64(b[68:76], h.NameTableOffset)
	return b
}

func decodeHeader(b []byte) (Header, error) {
	var h Header
	if len(b) < HeaderSize {
		return h, errTruncatedHeader
	}
	if [4]byte(b[0:4]) != HeaderMagic {
		return h, errBadMagic
	}
	h.FormatVersion = binary.LittleEndian.Uint32(b[4:8])
	h.NumRowGroups = binary.LittleEndian.Uint32(b[8:12])
	h.NumColumns = binary.LittleEndian.Uint32(b[12:16])
	h.SchemaOffset = binary.LittleEndian.Uint64(b[16:24])
	h.SchemaLength = binary.LittleEndian.Uint64(b[24:32])
	h.TopLevelOffset = binary.LittleEndian.Uint64(b[32:40])
	h.TopLevelLength = binary.LittleEndian.Uint64(b[40:48])
	h.RgPrefixOffset = binary.LittleEndian.Uint64(b[48:56])
	h.RgPrefixStride = binary.LittleEndian.Uint32(b[56:60])
	h.DirectoryOffset = binary.LittleEndian.Uint64(b[60:68])
	h.NameTableOffset = binary.LittleEndian.Uint64(b[68:76])
	return h, nil
}
