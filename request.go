package palletjack

// ReadOptions selects the projection read_metadata returns. The zero value
// requests everything: all row groups, all columns.
type ReadOptions struct {
	// RowGroups is an ordered list of row-group indices to include.
	// Duplicates are preserved. Empty means "all row groups", in file
	// order.
	RowGroups []int

	// ColumnIndices is an ordered list of leaf-column indices to
	// include. Mutually exclusive with ColumnNames.
	ColumnIndices []int

	// ColumnNames is an ordered list of leaf-column names to include,
	// resolved against the sidecar's name table. Mutually exclusive
	// with ColumnIndices.
	ColumnNames []string
}

func (o ReadOptions) validate() error {
	if len(o.ColumnIndices) > 0 && len(o.ColumnNames) > 0 {
		return errBothColumnSelectors
	}
	return nil
}
