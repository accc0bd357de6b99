package thrift

import (
	"fmt"

	"github.com/palletjack/palletjack/format"
)

func (r *Reader) decodeKeyValue(kv *format.KeyValue) error {
	var lastID int16
	for {
		id, typ, err := r.ReadField(lastID)
		if err != nil {
			return err
		}
		if typ == TypeStop {
			return nil
		}
		switch id {
		case 1:
			kv.Key, err = r.ReadString()
		case 2:
			kv.Value, err = r.ReadString()
		default:
			err = r.SkipValue(typ)
		}
		if err != nil {
			return err
		}
		lastID = id
	}
}

func (r *Reader) decodeSortingColumn(sc *format.SortingColumn) error {
	var lastID int16
	for {
		id, typ, err := r.ReadField(lastID)
		if err != nil {
			return err
		}
		if typ == TypeStop {
			return nil
		}
		switch id {
		case 1:
			sc.ColumnIdx, err = r.ReadI32()
		case 2:
			sc.Descending, err = r.readBool(typ)
		case 3:
			sc.NullsFirst, err = r.readBool(typ)
		default:
			err = r.SkipValue(typ)
		}
		if err != nil {
			return err
		}
		lastID = id
	}
}

func (r *Reader) decodeColumnOrder(co *format.ColumnOrder) error {
	var lastID int16
	for {
		id, typ, err := r.ReadField(lastID)
		if err != nil {
			return err
		}
		if typ == TypeStop {
			return nil
		}
		switch id {
		case 1: // TYPE_ORDER, an empty struct
			co.TypeOrder = true
			err = r.SkipValue(typ)
		default:
			err = r.SkipValue(typ)
		}
		if err != nil {
			return err
		}
		lastID = id
	}
}

// DecodeSchemaElement decodes one SchemaElement starting at the reader's
// current position.
func (r *Reader) DecodeSchemaElement(se *format.SchemaElement) error {
	var lastID int16
	for {
		id, typ, err := r.ReadField(lastID)
		if err != nil {
			return err
		}
		if typ == TypeStop {
			return nil
		}
		switch id {
		case 1:
			v, e := r.ReadI32()
			err = e
			t := format.Type(v)
			se.Type = &t
		case 2:
			v, e := r.ReadI32()
			err = e
			se.TypeLength = &v
		case 3:
			v, e := r.ReadI32()
			err = e
			rt := format.FieldRepetitionType(v)
			se.RepetitionType = &rt
		case 4:
			se.Name, err = r.ReadString()
		case 5:
			v, e := r.ReadI32()
			err = e
			se.NumChildren = &v
		case 6:
			v, e := r.ReadI32()
			err = e
			ct := format.ConvertedType(v)
			se.ConvertedType = &ct
		case 7:
			v, e := r.ReadI32()
			err = e
			se.Scale = &v
		case 8:
			v, e := r.ReadI32()
			err = e
			se.Precision = &v
		case 9:
			se.FieldID, err = r.ReadI32()
			se.HasFieldID = true
		case 10: // LogicalType: carried but not interpreted
			err = r.SkipValue(typ)
		default:
			err = r.SkipValue(typ)
		}
		if err != nil {
			return err
		}
		lastID = id
	}
}

// decodeColumnMetaDataShallow walks every field of a ColumnMetaData to find
// its end without materializing Statistics or KeyValueMetadata; the
// builder only needs this to validate wire types, never to read page
// offsets, which are preserved verbatim inside the opaque blob.
func (r *Reader) decodeColumnMetaDataShallow() error {
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

// ColumnChunkInfo is the result of scanning a ColumnChunk without decoding
// its ColumnMetaData: the raw byte range of the whole struct, plus whether
// an encryption-related field was observed.
type ColumnChunkInfo struct {
	Start, End int
	Encrypted  bool
}

// ScanColumnChunk records the raw byte range of the ColumnChunk struct that
// begins at the reader's current position, along with whether it carries
// crypto metadata (fields 8/9 of the Parquet IDL), without decoding
// ColumnMetaData.
func (r *Reader) ScanColumnChunk() (ColumnChunkInfo, error) {
	info := ColumnChunkInfo{Start: r.Pos}
	var lastID int16
	for {
		id, typ, err := r.ReadField(lastID)
		if err != nil {
			return info, err
		}
		if typ == TypeStop {
			info.End = r.Pos
			return info, nil
		}
		switch {
		case id == 3 && typ == TypeStruct:
			if err := r.decodeColumnMetaDataShallow(); err != nil {
				return info, err
			}
		case id == 8 || id == 9:
			info.Encrypted = true
			if err := r.SkipValue(typ); err != nil {
				return info, err
			}
		default:
			if err := r.SkipValue(typ); err != nil {
				return info, err
			}
		}
		lastID = id
	}
}

// RowGroupScan is the result of scanning a RowGroup: its scalar fields
// decoded structurally, plus the raw byte range of each column chunk in
// Columns (field 1), which the caller splices directly into the sidecar's
// column-chunk blob pool without ever decoding ColumnMetaData.
type RowGroupScan struct {
	Columns                []ColumnChunkInfo
	TotalByteSize          int64
	NumRows                int64
	SortingColumns         []format.SortingColumn
	FileOffset             int64
	HasFileOffset          bool
	TotalCompressedSize    int64
	HasTotalCompressedSize bool
	Ordinal                int16
	HasOrdinal             bool
	Encrypted              bool
}

// ScanRowGroup decodes a RowGroup's scalar fields and records, for each
// entry of its Columns list, the raw byte range of that ColumnChunk struct
// within the source buffer.
func (r *Reader) ScanRowGroup() (RowGroupScan, error) {
	var rg RowGroupScan
	var lastID int16
	for {
		id, typ, err := r.ReadField(lastID)
		if err != nil {
			return rg, err
		}
		if typ == TypeStop {
			return rg, nil
		}
		switch id {
		case 1:
			if typ != TypeList {
				return rg, fmt.Errorf("thrift: RowGroup.Columns: expected LIST, got %d", typ)
			}
			size, elemType, err := r.ReadListHeader()
			if err != nil {
				return rg, err
			}
			if elemType != TypeStruct {
				return rg, fmt.Errorf("thrift: RowGroup.Columns: expected STRUCT elements, got %d", elemType)
			}
			rg.Columns = make([]ColumnChunkInfo, size)
			for i := range size {
				info, err := r.ScanColumnChunk()
				if err != nil {
					return rg, err
				}
				if info.Encrypted {
					rg.Encrypted = true
				}
				rg.Columns[i] = info
			}
		case 2:
			rg.TotalByteSize, err = r.ReadI64()
		case 3:
			rg.NumRows, err = r.ReadI64()
		case 4:
			if typ != TypeList {
				return rg, fmt.Errorf("thrift: RowGroup.SortingColumns: expected LIST, got %d", typ)
			}
			size, elemType, err := r.ReadListHeader()
			if err != nil {
				return rg, err
			}
			if elemType != TypeStruct {
				return rg, fmt.Errorf("thrift: RowGroup.SortingColumns: expected STRUCT elements, got %d", elemType)
			}
			rg.SortingColumns = make([]format.SortingColumn, size)
			for i := range size {
				if err := r.decodeSortingColumn(&rg.SortingColumns[i]); err != nil {
					return rg, err
				}
			}
		case 5:
			rg.FileOffset, err = r.ReadI64()
			rg.HasFileOffset = true
		case 6:
			rg.TotalCompressedSize, err = r.ReadI64()
			rg.HasTotalCompressedSize = true
		case 7:
			rg.Ordinal, err = r.ReadI16()
			rg.HasOrdinal = true
		default:
			err = r.SkipValue(typ)
		}
		if err != nil {
			return rg, err
		}
		lastID = id
	}
}

// SchemaScan is the result of scanning a FileMetaData.Schema list: the raw
// byte range of the list itself (verbatim, suitable for storing as the
// sidecar's SchemaBlock) plus the decoded elements, needed to validate the
// flat-schema invariant and build the column-name table.
type SchemaScan struct {
	ListStart, ListEnd int
	Elements           []format.SchemaElement
}

// ScanSchema decodes the FileMetaData.Schema list (field 2), recording both
// the decoded elements and the raw byte range of the whole list (list
// header included).
func (r *Reader) ScanSchema() (SchemaScan, error) {
	var s SchemaScan
	s.ListStart = r.Pos
	size, elemType, err := r.ReadListHeader()
	if err != nil {
		return s, err
	}
	if elemType != TypeStruct {
		return s, fmt.Errorf("thrift: FileMetaData.Schema: expected STRUCT elements, got %d", elemType)
	}
	s.Elements = make([]format.SchemaElement, size)
	for i := range size {
		if err := r.DecodeSchemaElement(&s.Elements[i]); err != nil {
			return s, err
		}
	}
	s.ListEnd = r.Pos
	return s, nil
}

// FileMetaDataScan is the result of a single linear pass over an encoded
// FileMetaData: every field decoded except the column chunks inside each
// row group, which are only located, never parsed.
type FileMetaDataScan struct {
	Version          int32
	Schema           SchemaScan
	NumRows          int64
	RowGroups        []RowGroupScan
	KeyValueMetadata []format.KeyValue
	CreatedBy        string
	HasCreatedBy     bool
	ColumnOrders     []format.ColumnOrder
	Encrypted        bool
}

// ScanFileMetaData performs the single decode pass the index builder needs:
// it walks every field of the footer, fully decoding schema and row-group
// scalars but only locating (never decoding) each ColumnChunk's
// ColumnMetaData.
func ScanFileMetaData(data []byte) (FileMetaDataScan, error) {
	r := NewReader(data)
	var fmd FileMetaDataScan
	var lastID int16
	for {
		id, typ, err := r.ReadField(lastID)
		if err != nil {
			return fmd, err
		}
		if typ == TypeStop {
			return fmd, nil
		}
		switch id {
		case 1:
			fmd.Version, err = r.ReadI32()
		case 2:
			if typ != TypeList {
				return fmd, fmt.Errorf("thrift: FileMetaData.Schema: expected LIST, got %d", typ)
			}
			fmd.Schema, err = r.ScanSchema()
		case 3:
			fmd.NumRows, err = r.ReadI64()
		case 4:
			if typ != TypeList {
				return fmd, fmt.Errorf("thrift: FileMetaData.RowGroups: expected LIST, got %d", typ)
			}
			size, elemType, e := r.ReadListHeader()
			if e != nil {
				return fmd, e
			}
			if elemType != TypeStruct {
				return fmd, fmt.Errorf("thrift: FileMetaData.RowGroups: expected STRUCT elements, got %d", elemType)
			}
			fmd.RowGroups = make([]RowGroupScan, size)
			for i := range size {
				rg, e := r.ScanRowGroup()
				if e != nil {
					return fmd, e
				}
				if rg.Encrypted {
					fmd.Encrypted = true
				}
				fmd.RowGroups[i] = rg
			}
		case 5:
			if typ != TypeList {
				return fmd, fmt.Errorf("thrift: FileMetaData.KeyValueMetadata: expected LIST, got %d", typ)
			}
			size, elemType, e := r.ReadListHeader()
			if e != nil {
				return fmd, e
			}
			if elemType != TypeStruct {
				return fmd, fmt.Errorf("thrift: FileMetaData.KeyValueMetadata: expected STRUCT elements, got %d", elemType)
			}
			fmd.KeyValueMetadata = make([]format.KeyValue, size)
			for i := range size {
				if err = r.decodeKeyValue(&fmd.KeyValueMetadata[i]); err != nil {
					return fmd, err
				}
			}
		case 6:
			fmd.CreatedBy, err = r.ReadString()
			fmd.HasCreatedBy = true
		case 7:
			if typ != TypeList {
				return fmd, fmt.Errorf("thrift: FileMetaData.ColumnOrders: expected LIST, got %d", typ)
			}
			size, elemType, e := r.ReadListHeader()
			if e != nil {
				return fmd, e
			}
			if elemType != TypeStruct {
				return fmd, fmt.Errorf("thrift: FileMetaData.ColumnOrders: expected STRUCT elements, got %d", elemType)
			}
			fmd.ColumnOrders = make([]format.ColumnOrder, size)
			for i := range size {
				if err = r.decodeColumnOrder(&fmd.ColumnOrders[i]); err != nil {
					return fmd, err
				}
			}
		case 8, 9: // EncryptionAlgorithm, FooterSigningKeyMetadata
			fmd.Encrypted = true
			err = r.SkipValue(typ)
		default:
			err = r.SkipValue(typ)
		}
		if err != nil {
			return fmd, err
		}
		lastID = id
	}
}
