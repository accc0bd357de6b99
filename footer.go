package palletjack

import "encoding/binary"

const parquetMagic = "PAR1"

// locateFooter finds the Thrift-encoded FileMetaData footer inside a full
// Parquet file image and returns its byte range. Layout, from the Parquet
// spec: the file ends with (footer bytes)(footer_length: u32 LE)("PAR1"),
// and the file starts with "PAR1" as well.
func locateFooter(data []byte) ([]byte, error) {
	const trailerSize = 8 // footer_length (4 bytes) + magic (4 bytes)
	if len(data) < len(parquetMagic)+trailerSize {
		return nil, newError(MalformedParquet, "parquet file is too small to contain a footer")
	}
	if string(data[:len(parquetMagic)]) != parquetMagic {
		return nil, newError(MalformedParquet, "parquet file is missing its leading magic bytes")
	}
	tail := data[len(data)-trailerSize:]
	if string(tail[4:]) != parquetMagic {
		return nil, newError(MalformedParquet, "parquet file is missing its trailing magic bytes")
	}
	footerLength := binary.LittleEndian.Uint32(tail[:4])
	footerStart := len(data) - trailerSize - int(footerLength)
	if footerStart < len(parquetMagic) {
		return nil, newError(MalformedParquet, "parquet footer length exceeds the file size")
	}
	return data[footerStart : len(data)-trailerSize], nil
}
