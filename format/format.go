// Package format defines Go types that mirror the subset of the Apache
// Parquet Thrift IDL needed to read and reassemble a file's footer:
// FileMetaData, RowGroup, ColumnChunk, ColumnMetaData and SchemaElement,
// plus the small value types they reference.
//
// Every nested struct field that can be expensive to decode (ColumnChunk,
// and the RowGroup.Columns list that holds it) is annotated in the thrift
// package rather than here: this package only describes the decoded shape,
// not how much of it was actually materialized.
package format

// Type is the physical storage type of a column, thrift field id varies by
// container (SchemaElement.Type, ColumnMetaData.Type).
type Type int32

const (
	Boolean Type = iota
	Int32
	Int64
	Int96
	Float
	Double
	ByteArray
	FixedLenByteArray
)

// FieldRepetitionType describes whether a schema element is required,
// optional or repeated.
type FieldRepetitionType int32

const (
	Required FieldRepetitionType = iota
	Optional
	Repeated
)

// Encoding lists the value encodings used within a column chunk's pages.
type Encoding int32

const (
	Plain Encoding = iota
	_        // GROUP_VAR_INT, deprecated and unused by modern writers
	PlainDictionary
	RLE
	BitPacked
	DeltaBinaryPacked
	DeltaLengthByteArray
	DeltaByteArray
	RLEDictionary
	ByteStreamSplit
)

// CompressionCodec lists the compression codecs a column chunk's pages may
// use. PalletJack never inflates or deflates page bytes; the codec value is
// preserved verbatim through the sidecar.
type CompressionCodec int32

const (
	Uncompressed CompressionCodec = iota
	Snappy
	Gzip
	LZO
	Brotli
	LZ4
	Zstd
	LZ4Raw
)

// ConvertedType is the deprecated logical-type annotation carried alongside
// the newer LogicalType struct. PalletJack copies it verbatim and never
// interprets it.
type ConvertedType int32

// KeyValue is a single key/value pair in FileMetaData.KeyValueMetadata or
// ColumnMetaData.KeyValueMetadata.
type KeyValue struct {
	Key   string
	Value string
}

// SortingColumn records that a row group's rows are sorted by a given
// column, ascending or descending, with an optional nulls-first flag.
type SortingColumn struct {
	ColumnIdx  int32
	Descending bool
	NullsFirst bool
}

// Statistics carries the optional min/max/null-count/distinct-count summary
// for one column chunk. PalletJack never looks inside it; it travels as
// part of the opaque ColumnChunk blob.
type Statistics struct {
	Max           []byte
	Min           []byte
	NullCount     int64
	HasNullCount  bool
	DistinctCount int64
	HasDistinct   bool
	MaxValue      []byte
	MinValue      []byte
}

// PageEncodingStats counts how many pages of a given page type used a given
// encoding within a column chunk.
type PageEncodingStats struct {
	PageType Type // note: re-uses the PageType thrift enum range, not Type
	Encoding Encoding
	Count    int32
}

// SchemaElement is one node of the flattened, pre-order schema tree. Leaf
// elements (NumChildren == nil) correspond positionally to the entries of
// RowGroup.Columns.
type SchemaElement struct {
	Type           *Type
	TypeLength     *int32
	RepetitionType *FieldRepetitionType
	Name           string
	NumChildren    *int32
	ConvertedType  *ConvertedType
	Scale          *int32
	Precision      *int32
	FieldID        int32
	HasFieldID     bool
}

// ColumnCryptoMetaData is present only on encrypted column chunks.
// PalletJack does not support encrypted footers; its presence on any column
// chunk is treated as a build-time error.
type ColumnCryptoMetaData struct {
	Present bool
}

// ColumnMetaData is the payload of a column chunk: its physical type,
// encodings, absolute page offsets, sizes and statistics. PalletJack never
// decodes this structure on the read path — it is addressed and re-emitted
// as an opaque byte range inside its owning ColumnChunk.
type ColumnMetaData struct {
	Type                  Type
	Encoding              []Encoding
	PathInSchema          []string
	Codec                 CompressionCodec
	NumValues             int64
	TotalUncompressedSize int64
	TotalCompressedSize   int64
	KeyValueMetadata      []KeyValue
	DataPageOffset        int64
	IndexPageOffset       int64
	HasIndexPageOffset    bool
	DictionaryPageOffset  int64
	HasDictionaryOffset   bool
	Statistics            Statistics
	HasStatistics         bool
	EncodingStats         []PageEncodingStats
}

// ColumnChunk is one column's storage within one row group. PalletJack's
// sidecar stores every ColumnChunk as a raw, independently decodable Thrift
// byte range (located by format/thrift.Reader.ScanColumnChunk) rather than
// as this decoded form; nothing in this repository decodes a ColumnChunk
// into this type, which documents its field shapes.
type ColumnChunk struct {
	FilePath                string
	FileOffset              int64
	MetaData                ColumnMetaData
	HasMetaData             bool
	OffsetIndexOffset       int64
	HasOffsetIndexOffset    bool
	OffsetIndexLength       int32
	HasOffsetIndexLength    bool
	ColumnIndexOffset       int64
	HasColumnIndexOffset    bool
	ColumnIndexLength       int32
	HasColumnIndexLength    bool
	CryptoMetadata          ColumnCryptoMetaData
	EncryptedColumnMetadata []byte
}

// RowGroup is a horizontal partition of a Parquet file. Columns has length
// equal to the number of leaf SchemaElements (invariant 1 of the index
// format).
type RowGroup struct {
	Columns                []ColumnChunk
	TotalByteSize          int64
	NumRows                int64
	SortingColumns         []SortingColumn
	FileOffset             int64
	HasFileOffset          bool
	TotalCompressedSize    int64
	HasTotalCompressedSize bool
	Ordinal                int16
	HasOrdinal             bool
}

// ColumnOrder records how statistics comparisons are defined for a column.
// PalletJack copies it verbatim; TypeOrder is the only variant Parquet
// writers emit in practice.
type ColumnOrder struct {
	TypeOrder bool // true if the TypeDefinedOrder variant is set
}

// EncryptionAlgorithm is present only on encrypted footers, which are out
// of scope for PalletJack (see Non-goals).
type EncryptionAlgorithm struct {
	Present bool
}

// FileMetaData is the root of a Parquet footer.
type FileMetaData struct {
	Version                  int32
	Schema                   []SchemaElement
	NumRows                  int64
	RowGroups                []RowGroup
	KeyValueMetadata         []KeyValue
	CreatedBy                string
	HasCreatedBy             bool
	ColumnOrders             []ColumnOrder
	EncryptionAlgorithm      EncryptionAlgorithm
	HasEncryptionAlgorithm   bool
	FooterSigningKeyMetadata []byte
}
