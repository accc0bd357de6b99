package palletjack

import "fmt"

// Error is the taxonomy every PalletJack operation reports through. The
// Kind distinguishes error classes the caller may want to branch on; the
// message text (via Error()) is part of the contract for callers that match
// on substrings.
type Error struct {
	Kind Kind
	msg  string
	err  error
}

// Kind enumerates the error classes a PalletJack call can fail with.
type Kind int

const (
	// IoError: the underlying file could not be opened or read.
	IoError Kind = iota
	// UnexpectedFormat: sidecar magic or version mismatch.
	UnexpectedFormat
	// MalformedParquet: the Parquet footer cannot be parsed, or its
	// invariants (e.g. uniform column count) do not hold.
	MalformedParquet
	// OutOfRange: a requested row group or column index exceeds bounds.
	OutOfRange
	// UnknownColumn: a requested column name is not present.
	UnknownColumn
	// InvalidArgument: the request itself is self-contradictory.
	InvalidArgument
	// Unsupported: the input uses a feature PalletJack deliberately does
	// not handle (encrypted footers, nested schemas).
	Unsupported
)

func (e *Error) Error() string {
	return e.msg
}

// Unwrap exposes the underlying I/O or decode error, if any, for errors.Is
// and errors.As.
func (e *Error) Unwrap() error {
	return e.err
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, msg: msg}
}

func wrapError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, msg: msg, err: cause}
}

func errIO(path string, cause error) *Error {
	return wrapError(IoError, fmt.Sprintf("I/O error when opening '%s'", path), cause)
}

func errUnexpectedFormat(path string) *Error {
	return newError(UnexpectedFormat, fmt.Sprintf("File '%s' has unexpected format!", path))
}

var errBothColumnSelectors = newError(InvalidArgument, "Cannot specify both column indices and column names at the same time!")
