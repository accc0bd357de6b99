// Package project implements PalletJack's projected metadata reader: given
// a sidecar and a subset of row groups and columns, it reassembles exactly
// the FileMetaData bytes a full footer parse would have produced for that
// subset, splicing pre-encoded ColumnChunk blobs instead of decoding them.
package project

import (
	"fmt"

	"github.com/palletjack/palletjack/format/thrift"
	"github.com/palletjack/palletjack/sidecar"
)

// Error is the taxonomy this package's operations fail with. The root
// package re-exposes these under its own Error type; the message text is
// part of the contract other callers match on, so it is never altered in
// translation.
type Error struct {
	Kind Kind
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Kind enumerates the ways a projection request can fail.
type Kind int

const (
	KindOutOfRange Kind = iota
	KindUnknownColumn
	KindInvalidArgument
)

func errOutOfRangeRowGroup(requested, numRowGroups int) *Error {
	return &Error{Kind: KindOutOfRange, msg: fmt.Sprintf("Requested row_group=%d, but only 0-%d are available!", requested, numRowGroups-1)}
}

func errOutOfRangeColumn(requested, numColumns int) *Error {
	return &Error{Kind: KindOutOfRange, msg: fmt.Sprintf("Requested column=%d, but only 0-%d are available!", requested, numColumns-1)}
}

func errUnknownColumn(name string) *Error {
	return &Error{Kind: KindUnknownColumn, msg: fmt.Sprintf("Couldn't find a column with a name '%s'!", name)}
}

var errBothColumnSelectors = &Error{Kind: KindInvalidArgument, msg: "Cannot specify both column indices and column names at the same time!"}

// Request selects the row groups and columns a Read call should project.
// Empty RowGroups means all row groups, in sidecar order; empty
// ColumnIndices and ColumnNames together mean all columns, in schema order.
// Exactly one of ColumnIndices or ColumnNames may be non-empty.
type Request struct {
	RowGroups     []int
	ColumnIndices []int
	ColumnNames   []string
}

// ReadFromSidecar runs a projection against an already-open sidecar.
// Opening the sidecar (from a file or from bytes) is left to the caller, so
// a caller that keeps a sidecar open across many requests (one mmap, many
// projections) does not pay to reopen it each time.
func ReadFromSidecar(r *sidecar.Reader, req Request) ([]byte, error) {
	if len(req.ColumnIndices) > 0 && len(req.ColumnNames) > 0 {
		return nil, errBothColumnSelectors
	}

	rowGroups := req.RowGroups
	if len(rowGroups) == 0 {
		rowGroups = make([]int, r.RowGroupCount())
		for i := range rowGroups {
			rowGroups[i] = i
		}
	}
	for _, rg := range rowGroups {
		if rg < 0 || rg >= r.RowGroupCount() {
			return nil, errOutOfRangeRowGroup(rg, r.RowGroupCount())
		}
	}

	columns, err := resolveColumns(r, req)
	if err != nil {
		return nil, err
	}

	schema := buildSchema(r, columns)

	var numRows int64
	rgWriter := thrift.NewWriter()
	rgWriter.WriteListHeader(len(rowGroups), thrift.TypeStruct)
	for _, rg := range rowGroups {
		prefix, err := r.RowGroupPrefix(rg)
		if err != nil {
			return nil, &Error{Kind: KindOutOfRange, msg: err.Error()}
		}
		colsWriter := thrift.NewWriter()
		colsWriter.WriteListHeader(len(columns), thrift.TypeStruct)
		for _, col := range columns {
			blob, err := r.ColumnChunkBlob(rg, col)
			if err != nil {
				return nil, &Error{Kind: KindOutOfRange, msg: err.Error()}
			}
			colsWriter.WriteRaw(blob)
		}
		rgWriter.WriteFieldHeader(1, thrift.TypeList)
		rgWriter.WriteRaw(colsWriter.Bytes())
		rgWriter.WriteRaw(prefix[:len(prefix)-1]) // drop the prefix's own trailing stop byte
		rgWriter.WriteStop()
		numRows += rowGroupNumRows(prefix)
	}

	topLevel := r.TopLevelBytes()
	out := thrift.NewWriter()
	out.WriteRaw(topLevel[:len(topLevel)-1]) // drop TopLevelBlock's own trailing stop byte
	out.WriteFieldHeader(2, thrift.TypeList)
	out.WriteRaw(schema)
	out.WriteI64(3, numRows)
	out.WriteFieldHeader(4, thrift.TypeList)
	out.WriteRaw(rgWriter.Bytes())
	out.WriteStop()
	return out.Bytes(), nil
}

// resolveColumns turns req's column selector into a list of leaf-column
// indices, in request order, defaulting to every column when neither
// selector is set.
func resolveColumns(r *sidecar.Reader, req Request) ([]int, error) {
	switch {
	case len(req.ColumnNames) > 0:
		indices := make([]int, len(req.ColumnNames))
		for i, name := range req.ColumnNames {
			idx := r.ColumnIndexByName(name)
			if idx < 0 {
				return nil, errUnknownColumn(name)
			}
			indices[i] = idx
		}
		return indices, nil
	case len(req.ColumnIndices) > 0:
		for _, idx := range req.ColumnIndices {
			if idx < 0 || idx >= r.ColumnCount() {
				return nil, errOutOfRangeColumn(idx, r.ColumnCount())
			}
		}
		return req.ColumnIndices, nil
	default:
		all := make([]int, r.ColumnCount())
		for i := range all {
			all[i] = i
		}
		return all, nil
	}
}

// buildSchema emits a root SchemaElement (num_children = len(columns))
// followed by the selected leaf elements, copied verbatim from the
// sidecar's SchemaBlock, in request order. Nested schemas are rejected at
// index-build time, so every non-root element here is a leaf.
func buildSchema(r *sidecar.Reader, columns []int) []byte {
	leaves := scanSchemaLeaves(r.SchemaBytes())

	w := thrift.NewWriter()
	w.WriteListHeader(len(columns)+1, thrift.TypeStruct)
	w.WriteString(4, "schema")
	nc := int32(len(columns))
	w.WriteI32(5, nc)
	w.WriteStop()
	for _, idx := range columns {
		w.WriteRaw(leaves[idx])
	}
	return w.Bytes()
}

// scanSchemaLeaves walks a raw schema list (root + leaves) and returns the
// raw byte range of each leaf element, indexed by leaf position. It never
// decodes field values beyond what is needed to find struct boundaries.
func scanSchemaLeaves(raw []byte) [][]byte {
	rdr := thrift.NewReader(raw)
	size, _, err := rdr.ReadListHeader()
	if err != nil {
		return nil
	}
	leaves := make([][]byte, 0, size-1)
	for i := 0; i < size; i++ {
		start, end, err := rdr.StructRange()
		if err != nil {
			break
		}
		if i == 0 {
			continue // root element, not a leaf
		}
		leaves = append(leaves, raw[start:end])
	}
	return leaves
}

// rowGroupNumRows extracts field 3 (NumRows) from a RowGroup prefix blob
// without decoding the rest of it.
func rowGroupNumRows(prefix []byte) int64 {
	rdr := thrift.NewReader(prefix)
	var lastID int16
	for {
		id, typ, err := rdr.ReadField(lastID)
		if err != nil || typ == thrift.TypeStop {
			return 0
		}
		if id == 3 {
			v, err := rdr.ReadI64()
			if err != nil {
				return 0
			}
			return v
		}
		if err := rdr.SkipValue(typ); err != nil {
			return 0
		}
		lastID = id
	}
}
