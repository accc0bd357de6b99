package palletjack

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/palletjack/palletjack/format/thrift"
)

// buildParquetBytes assembles a minimal but structurally valid Parquet file
// image: a leading magic, a footer with numRowGroups row groups of
// numColumns columns each (one row per row group, matching scenario S1 in
// the end-to-end properties), and the trailing length+magic.
func buildParquetBytes(numRowGroups, numColumns int) []byte {
	w := thrift.NewWriter()
	w.WriteI32(1, 1)

	sw := thrift.NewWriter()
	nc := int32(numColumns)
	sw.WriteListHeader(numColumns+1, thrift.TypeStruct)
	sw.WriteString(4, "schema")
	sw.WriteI32(5, nc)
	sw.WriteStop()
	for c := 0; c < numColumns; c++ {
		sw.WriteString(4, columnName(c))
		sw.WriteStop()
	}
	w.WriteFieldHeader(2, thrift.TypeList)
	w.WriteRaw(sw.Bytes())
	w.WriteI64(3, int64(numRowGroups))

	rgsw := thrift.NewWriter()
	rgsw.WriteListHeader(numRowGroups, thrift.TypeStruct)
	for r := 0; r < numRowGroups; r++ {
		colsw := thrift.NewWriter()
		colsw.WriteListHeader(numColumns, thrift.TypeStruct)
		for c := 0; c < numColumns; c++ {
			colsw.WriteI64(2, int64(r*10000+c*1000))
			mw := thrift.NewWriter()
			mw.WriteI64(9, int64(r*10000+c*1000+64))
			mw.WriteStop()
			colsw.WriteFieldHeader(3, thrift.TypeStruct)
			colsw.WriteRaw(mw.Bytes())
			colsw.WriteStop()
		}
		rgsw.WriteFieldHeader(1, thrift.TypeList)
		rgsw.WriteRaw(colsw.Bytes())
		rgsw.WriteI64(3, 1) // NumRows per row group
		rgsw.WriteStop()
	}
	w.WriteFieldHeader(4, thrift.TypeList)
	w.WriteRaw(rgsw.Bytes())
	w.WriteString(6, "palletjack-test-writer")
	w.WriteStop()

	footer := w.Bytes()

	var buf bytes.Buffer
	buf.WriteString("PAR1")
	buf.Write(footer)
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(footer)))
	buf.Write(lenBuf[:])
	buf.WriteString("PAR1")
	return buf.Bytes()
}

func columnName(i int) string {
	return string(rune('a' + i))
}

func writeTempParquet(t *testing.T, numRowGroups, numColumns int) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.parquet")
	if err := os.WriteFile(path, buildParquetBytes(numRowGroups, numColumns), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestGenerateMetadataIndexWritesFile(t *testing.T) {
	parquetPath := writeTempParquet(t, 5, 7)
	indexPath := parquetPath + ".index"

	out, err := GenerateMetadataIndex(parquetPath, indexPath)
	if err != nil {
		t.Fatalf("GenerateMetadataIndex failed: %v", err)
	}

	onDisk, err := os.ReadFile(indexPath)
	if err != nil {
		t.Fatalf("ReadFile(indexPath) failed: %v", err)
	}
	if !bytes.Equal(out, onDisk) {
		t.Errorf("returned bytes do not match the written file")
	}
}

func TestReadMetadataAllRowsAllColumns(t *testing.T) {
	parquetPath := writeTempParquet(t, 5, 7)
	indexPath := parquetPath + ".index"
	if _, err := GenerateMetadataIndex(parquetPath, indexPath); err != nil {
		t.Fatalf("GenerateMetadataIndex failed: %v", err)
	}

	out, err := ReadMetadata(indexPath, nil, ReadOptions{})
	if err != nil {
		t.Fatalf("ReadMetadata failed: %v", err)
	}

	scan, err := thrift.ScanFileMetaData(out)
	if err != nil {
		t.Fatalf("reassembled metadata does not decode: %v", err)
	}
	if len(scan.RowGroups) != 5 {
		t.Errorf("RowGroups: got %d, want 5", len(scan.RowGroups))
	}
	if scan.NumRows != 5 {
		t.Errorf("NumRows: got %d, want 5", scan.NumRows)
	}
	for i, rg := range scan.RowGroups {
		if len(rg.Columns) != 7 {
			t.Errorf("row group %d: got %d columns, want 7", i, len(rg.Columns))
		}
	}
}

func TestReadMetadataProjectsRowGroupsAndColumns(t *testing.T) {
	parquetPath := writeTempParquet(t, 5, 7)
	indexPath := parquetPath + ".index"
	if _, err := GenerateMetadataIndex(parquetPath, indexPath); err != nil {
		t.Fatalf("GenerateMetadataIndex failed: %v", err)
	}

	out, err := ReadMetadata(indexPath, nil, ReadOptions{
		RowGroups:     []int{2, 3, 4},
		ColumnIndices: []int{1, 3},
	})
	if err != nil {
		t.Fatalf("ReadMetadata failed: %v", err)
	}

	scan, err := thrift.ScanFileMetaData(out)
	if err != nil {
		t.Fatalf("reassembled metadata does not decode: %v", err)
	}
	if len(scan.RowGroups) != 3 {
		t.Fatalf("RowGroups: got %d, want 3", len(scan.RowGroups))
	}
	if scan.NumRows != 3 {
		t.Errorf("NumRows: got %d, want 3", scan.NumRows)
	}
	for i, rg := range scan.RowGroups {
		if len(rg.Columns) != 2 {
			t.Errorf("row group %d: got %d columns, want 2", i, len(rg.Columns))
		}
	}
	if len(scan.Schema.Elements) != 3 { // root + 2 leaves
		t.Errorf("Schema elements: got %d, want 3", len(scan.Schema.Elements))
	}
}

func TestReadMetadataColumnNamesEqualsColumnIndices(t *testing.T) {
	parquetPath := writeTempParquet(t, 5, 7)
	indexPath := parquetPath + ".index"
	if _, err := GenerateMetadataIndex(parquetPath, indexPath); err != nil {
		t.Fatalf("GenerateMetadataIndex failed: %v", err)
	}

	byIndex, err := ReadMetadata(indexPath, nil, ReadOptions{
		RowGroups:     []int{0, 1},
		ColumnIndices: []int{1, 3},
	})
	if err != nil {
		t.Fatalf("ReadMetadata (by index) failed: %v", err)
	}
	byName, err := ReadMetadata(indexPath, nil, ReadOptions{
		RowGroups:   []int{0, 1},
		ColumnNames: []string{"b", "d"},
	})
	if err != nil {
		t.Fatalf("ReadMetadata (by name) failed: %v", err)
	}
	if !bytes.Equal(byIndex, byName) {
		t.Errorf("column-index and column-name projections produced different bytes")
	}
}

func TestReadMetadataRejectsOutOfRangeRowGroup(t *testing.T) {
	parquetPath := writeTempParquet(t, 5, 7)
	indexPath := parquetPath + ".index"
	if _, err := GenerateMetadataIndex(parquetPath, indexPath); err != nil {
		t.Fatalf("GenerateMetadataIndex failed: %v", err)
	}

	_, err := ReadMetadata(indexPath, nil, ReadOptions{RowGroups: []int{5}})
	if err == nil {
		t.Fatalf("expected an error for an out-of-range row group")
	}
	const want = "Requested row_group=5, but only 0-4 are available!"
	if err.Error() != want {
		t.Errorf("error message: got %q, want %q", err.Error(), want)
	}
}

func TestReadMetadataRejectsBothColumnSelectors(t *testing.T) {
	parquetPath := writeTempParquet(t, 1, 3)
	indexPath := parquetPath + ".index"
	if _, err := GenerateMetadataIndex(parquetPath, indexPath); err != nil {
		t.Fatalf("GenerateMetadataIndex failed: %v", err)
	}

	_, err := ReadMetadata(indexPath, nil, ReadOptions{
		ColumnIndices: []int{0},
		ColumnNames:   []string{"a"},
	})
	const want = "Cannot specify both column indices and column names at the same time!"
	if err == nil || err.Error() != want {
		t.Errorf("error: got %v, want %q", err, want)
	}
}

func TestReadMetadataRejectsUnknownColumnName(t *testing.T) {
	parquetPath := writeTempParquet(t, 1, 3)
	indexPath := parquetPath + ".index"
	if _, err := GenerateMetadataIndex(parquetPath, indexPath); err != nil {
		t.Fatalf("GenerateMetadataIndex failed: %v", err)
	}

	_, err := ReadMetadata(indexPath, nil, ReadOptions{ColumnNames: []string{"no_such_column"}})
	const want = "Couldn't find a column with a name 'no_such_column'!"
	if err == nil || err.Error() != want {
		t.Errorf("error: got %v, want %q", err, want)
	}
}

func TestReadMetadataRejectsParquetFileAsIndex(t *testing.T) {
	parquetPath := writeTempParquet(t, 1, 3)

	_, err := ReadMetadata(parquetPath, nil, ReadOptions{})
	if err == nil {
		t.Fatalf("expected an error when passed a .parquet file as the index path")
	}
	want := "has unexpected format!"
	if !bytes.Contains([]byte(err.Error()), []byte(want)) {
		t.Errorf("error message: got %q, want substring %q", err.Error(), want)
	}
}

func TestGenerateMetadataIndexMissingFile(t *testing.T) {
	_, err := GenerateMetadataIndex(filepath.Join(t.TempDir(), "not_existing_file.parquet"), "")
	if err == nil {
		t.Fatalf("expected an error for a missing parquet file")
	}
	pe, ok := err.(*Error)
	if !ok || pe.Kind != IoError {
		t.Errorf("error kind: got %T %v, want IoError", err, err)
	}
}

func TestReadMetadataMissingSidecar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not_existing_file.parquet.index")
	_, err := ReadMetadata(path, nil, ReadOptions{})
	if err == nil {
		t.Fatalf("expected an error for a missing sidecar")
	}
	want := "I/O error when opening '" + path + "'"
	if err.Error() != want {
		t.Errorf("error message: got %q, want %q", err.Error(), want)
	}
}

func TestEmptySelectionMeansEverything(t *testing.T) {
	parquetPath := writeTempParquet(t, 3, 4)
	indexPath := parquetPath + ".index"
	if _, err := GenerateMetadataIndex(parquetPath, indexPath); err != nil {
		t.Fatalf("GenerateMetadataIndex failed: %v", err)
	}

	full, err := ReadMetadata(indexPath, nil, ReadOptions{})
	if err != nil {
		t.Fatalf("ReadMetadata failed: %v", err)
	}
	explicit, err := ReadMetadata(indexPath, nil, ReadOptions{
		RowGroups:     []int{0, 1, 2},
		ColumnIndices: []int{0, 1, 2, 3},
	})
	if err != nil {
		t.Fatalf("ReadMetadata (explicit) failed: %v", err)
	}
	if !bytes.Equal(full, explicit) {
		t.Errorf("empty selection did not produce the same bytes as an explicit full selection")
	}
}
