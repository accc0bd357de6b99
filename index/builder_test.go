package index

import (
	"bytes"
	"testing"

	"github.com/palletjack/palletjack/format/thrift"
	"github.com/palletjack/palletjack/sidecar"
)

// encodeSchemaElement and encodeColumnChunk mirror the helpers in
// format/thrift's own tests; they live here too since builder_test needs to
// assemble whole synthetic footers, not just individual structs.

func encodeSchemaElement(w *thrift.Writer, name string, numChildren *int32) {
	w.WriteString(4, name)
	if numChildren != nil {
		w.WriteI32(5, *numChildren)
	}
	w.WriteStop()
}

func encodeColumnChunk(w *thrift.Writer, fileOffset int64) {
	w.WriteI64(2, fileOffset)
	mw := thrift.NewWriter()
	mw.WriteI64(9, fileOffset+128)
	mw.WriteStop()
	w.WriteFieldHeader(3, thrift.TypeStruct)
	w.WriteRaw(mw.Bytes())
	w.WriteStop()
}

// buildFooter assembles a synthetic FileMetaData with numRowGroups row
// groups, each holding numColumns column chunks, for use as Build's input.
func buildFooter(numRowGroups, numColumns int) []byte {
	w := thrift.NewWriter()
	w.WriteI32(1, 1) // Version

	sw := thrift.NewWriter()
	nc := int32(numColumns)
	sw.WriteListHeader(numColumns+1, thrift.TypeStruct)
	encodeSchemaElement(sw, "schema", &nc)
	for c := 0; c < numColumns; c++ {
		encodeSchemaElement(sw, columnName(c), nil)
	}
	w.WriteFieldHeader(2, thrift.TypeList)
	w.WriteRaw(sw.Bytes())

	w.WriteI64(3, int64(numRowGroups*10)) // NumRows

	rgsw := thrift.NewWriter()
	rgsw.WriteListHeader(numRowGroups, thrift.TypeStruct)
	for r := 0; r < numRowGroups; r++ {
		colsw := thrift.NewWriter()
		colsw.WriteListHeader(numColumns, thrift.TypeStruct)
		for c := 0; c < numColumns; c++ {
			encodeColumnChunk(colsw, int64(r*1000+c*100))
		}
		rgsw.WriteFieldHeader(1, thrift.TypeList)
		rgsw.WriteRaw(colsw.Bytes())
		rgsw.WriteI64(3, 10) // NumRows
		rgsw.WriteStop()
	}
	w.WriteFieldHeader(4, thrift.TypeList)
	w.WriteRaw(rgsw.Bytes())

	w.WriteString(6, "palletjack-test")
	w.WriteStop()
	return w.Bytes()
}

func columnName(i int) string {
	return string(rune('a' + i))
}

func TestBuildProducesOpenableSidecar(t *testing.T) {
	footer := buildFooter(3, 4)

	out, err := Build(footer)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	r, err := sidecar.Open(out)
	if err != nil {
		t.Fatalf("sidecar.Open failed: %v", err)
	}
	if r.RowGroupCount() != 3 {
		t.Errorf("RowGroupCount: got %d, want 3", r.RowGroupCount())
	}
	if r.ColumnCount() != 4 {
		t.Errorf("ColumnCount: got %d, want 4", r.ColumnCount())
	}
	wantNames := []string{"a", "b", "c", "d"}
	for i, want := range wantNames {
		if r.ColumnIndexByName(want) != i {
			t.Errorf("ColumnIndexByName(%q): got %d, want %d", want, r.ColumnIndexByName(want), i)
		}
	}

	blob, err := r.ColumnChunkBlob(1, 2)
	if err != nil {
		t.Fatalf("ColumnChunkBlob failed: %v", err)
	}
	info, err := thrift.NewReader(blob).ScanColumnChunk()
	if err != nil {
		t.Fatalf("column chunk blob does not decode on its own: %v", err)
	}
	if info.Start != 0 || info.End != len(blob) {
		t.Errorf("column chunk blob range: got [%d:%d], want [0:%d]", info.Start, info.End, len(blob))
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	footer := buildFooter(2, 3)
	first, err := Build(footer)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	second, err := Build(buildFooter(2, 3))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("Build is not deterministic across identical footers")
	}
}

func TestBuildRejectsRaggedRowGroups(t *testing.T) {
	w := thrift.NewWriter()
	w.WriteI32(1, 1)

	sw := thrift.NewWriter()
	nc := int32(2)
	sw.WriteListHeader(3, thrift.TypeStruct)
	encodeSchemaElement(sw, "schema", &nc)
	encodeSchemaElement(sw, "a", nil)
	encodeSchemaElement(sw, "b", nil)
	w.WriteFieldHeader(2, thrift.TypeList)
	w.WriteRaw(sw.Bytes())
	w.WriteI64(3, 10)

	rgsw := thrift.NewWriter()
	rgsw.WriteListHeader(1, thrift.TypeStruct)
	colsw := thrift.NewWriter()
	colsw.WriteListHeader(1, thrift.TypeStruct) // only one column, want two
	encodeColumnChunk(colsw, 0)
	rgsw.WriteFieldHeader(1, thrift.TypeList)
	rgsw.WriteRaw(colsw.Bytes())
	rgsw.WriteI64(3, 10)
	rgsw.WriteStop()
	w.WriteFieldHeader(4, thrift.TypeList)
	w.WriteRaw(rgsw.Bytes())
	w.WriteStop()

	if _, err := Build(w.Bytes()); err == nil {
		t.Errorf("Build accepted a row group with a ragged column count")
	}
}

func TestBuildRejectsNestedSchema(t *testing.T) {
	w := thrift.NewWriter()
	w.WriteI32(1, 1)

	sw := thrift.NewWriter()
	rootChildren := int32(1)
	groupChildren := int32(1)
	sw.WriteListHeader(3, thrift.TypeStruct)
	encodeSchemaElement(sw, "schema", &rootChildren)
	encodeSchemaElement(sw, "group", &groupChildren) // nested group, not a leaf
	encodeSchemaElement(sw, "leaf", nil)
	w.WriteFieldHeader(2, thrift.TypeList)
	w.WriteRaw(sw.Bytes())
	w.WriteI64(3, 0)
	w.WriteFieldHeader(4, thrift.TypeList)
	w.WriteListHeader(0, thrift.TypeStruct)
	w.WriteStop()

	_, err := Build(w.Bytes())
	if err == nil {
		t.Fatalf("Build accepted a nested schema")
	}
	idxErr, ok := err.(*Error)
	if !ok || idxErr.Kind != KindUnsupported {
		t.Errorf("error kind: got %T %v, want KindUnsupported", err, err)
	}
}
