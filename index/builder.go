// Package index implements PalletJack's index builder: the one-time pass
// that decodes a Parquet footer and emits its sidecar ".index" form.
package index

import (
	"fmt"

	"github.com/palletjack/palletjack/format"
	"github.com/palletjack/palletjack/format/thrift"
	"github.com/palletjack/palletjack/sidecar"
)

// Error mirrors the root package's error kinds without importing it, to
// keep this package usable standalone; the root package wraps these into
// its own taxonomy.
type Error struct {
	Kind Kind
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Kind enumerates the ways building an index can fail.
type Kind int

const (
	KindMalformed Kind = iota
	KindUnsupported
)

func errMalformed(format string, args ...any) *Error {
	return &Error{Kind: KindMalformed, msg: fmt.Sprintf(format, args...)}
}

func errUnsupported(format string, args ...any) *Error {
	return &Error{Kind: KindUnsupported, msg: fmt.Sprintf(format, args...)}
}

// Build decodes a Parquet footer (the raw FileMetaData Thrift bytes, as
// returned by locating the file's trailing PAR1 magic) and returns the
// sidecar bytes for it.
func Build(footer []byte) ([]byte, error) {
	scan, err := thrift.ScanFileMetaData(footer)
	if err != nil {
		return nil, errMalformed("parquet footer: %v", err)
	}
	if scan.Encrypted {
		return nil, errUnsupported("encrypted parquet footers are not supported")
	}

	names, err := leafNames(scan.Schema.Elements)
	if err != nil {
		return nil, err
	}
	numColumns := len(names)

	rowGroups := make([]sidecar.RowGroupInput, len(scan.RowGroups))
	for i, rg := range scan.RowGroups {
		if len(rg.Columns) != numColumns {
			return nil, errMalformed("row group %d has %d columns, want %d (leaf column count must be uniform across row groups)", i, len(rg.Columns), numColumns)
		}
		prefix, err := encodeRowGroupPrefix(rg)
		if err != nil {
			return nil, err
		}
		columns := make([][]byte, numColumns)
		for c, col := range rg.Columns {
			columns[c] = footer[col.Start:col.End]
		}
		rowGroups[i] = sidecar.RowGroupInput{Prefix: prefix, Columns: columns}
	}

	topLevel := encodeTopLevel(scan)

	out := sidecar.Build(sidecar.BuildInput{
		SchemaBlock: footer[scan.Schema.ListStart:scan.Schema.ListEnd],
		ColumnNames: names,
		TopLevel:    topLevel,
		RowGroups:   rowGroups,
	})
	return out, nil
}

// leafNames validates the flattened schema (invariant: a single root
// followed only by leaves — see the projection strategy note on nested
// schemas) and returns leaf names in schema order.
func leafNames(elements []format.SchemaElement) ([]string, error) {
	if len(elements) == 0 {
		return nil, errMalformed("schema has no elements")
	}
	root := elements[0]
	if root.NumChildren == nil {
		return nil, errMalformed("schema root is missing num_children")
	}
	names := make([]string, 0, len(elements)-1)
	for _, el := range elements[1:] {
		if el.NumChildren != nil {
			return nil, errUnsupported("nested schemas are not supported (column %q has children)", el.Name)
		}
		names = append(names, el.Name)
	}
	if int(*root.NumChildren) != len(names) {
		return nil, errMalformed("schema root declares %d children, found %d", *root.NumChildren, len(names))
	}
	return names, nil
}

// encodeRowGroupPrefix serializes every RowGroup field except Columns
// (field 1), which the builder has already captured as raw blobs.
func encodeRowGroupPrefix(rg thrift.RowGroupScan) ([]byte, error) {
	w := thrift.NewWriter()
	w.WriteI64(2, rg.TotalByteSize)
	w.WriteI64(3, rg.NumRows)
	if len(rg.SortingColumns) > 0 {
		w.WriteFieldHeader(4, thrift.TypeList)
		w.WriteListHeader(len(rg.SortingColumns), thrift.TypeStruct)
		for _, sc := range rg.SortingColumns {
			w.WriteI32(1, sc.ColumnIdx)
			w.WriteBool(2, sc.Descending)
			w.WriteBool(3, sc.NullsFirst)
			w.WriteStop()
		}
	}
	if rg.HasFileOffset {
		w.WriteI64(5, rg.FileOffset)
	}
	if rg.HasTotalCompressedSize {
		w.WriteI64(6, rg.TotalCompressedSize)
	}
	if rg.HasOrdinal {
		w.WriteI16(7, rg.Ordinal)
	}
	w.WriteStop()
	return w.Bytes(), nil
}

// encodeTopLevel serializes every FileMetaData field except Schema (2),
// NumRows (3) and RowGroups (4): those three are rebuilt fresh on every
// read_metadata call (NumRows always changes under projection, so there is
// nothing to gain from preserving it verbatim here).
func encodeTopLevel(scan thrift.FileMetaDataScan) []byte {
	w := thrift.NewWriter()
	w.WriteI32(1, scan.Version)
	if len(scan.KeyValueMetadata) > 0 {
		w.WriteFieldHeader(5, thrift.TypeList)
		w.WriteListHeader(len(scan.KeyValueMetadata), thrift.TypeStruct)
		for _, kv := range scan.KeyValueMetadata {
			w.WriteString(1, kv.Key)
			w.WriteString(2, kv.Value)
			w.WriteStop()
		}
	}
	if scan.HasCreatedBy {
		w.WriteString(6, scan.CreatedBy)
	}
	if len(scan.ColumnOrders) > 0 {
		w.WriteFieldHeader(7, thrift.TypeList)
		w.WriteListHeader(len(scan.ColumnOrders), thrift.TypeStruct)
		for _, co := range scan.ColumnOrders {
			if co.TypeOrder {
				w.WriteFieldHeader(1, thrift.TypeStruct)
				w.WriteStop() // TypeDefinedOrder is an empty struct
			}
			w.WriteStop()
		}
	}
	w.WriteStop()
	return w.Bytes()
}
