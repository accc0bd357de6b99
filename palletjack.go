// Package palletjack accelerates repeated access to Apache Parquet file
// metadata. It decodes a Parquet footer once, writes a sidecar ".index"
// file that stores every row group's and column chunk's Thrift payload as
// an independently addressable byte slice, and later reassembles exactly
// the footer bytes a projection onto a subset of row groups and columns
// would have required — without ever re-decoding the parts it can splice
// verbatim.
package palletjack

import (
	"errors"
	"io/fs"
	"os"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/palletjack/palletjack/index"
	"github.com/palletjack/palletjack/internal/logging"
	"github.com/palletjack/palletjack/internal/metrics"
	"github.com/palletjack/palletjack/project"
	"github.com/palletjack/palletjack/sidecar"
)

// GenerateMetadataIndex reads the Parquet file at parquetPath, decodes its
// footer, and returns the sidecar bytes. If indexPath is non-empty, the
// sidecar is also written there.
func GenerateMetadataIndex(parquetPath string, indexPath string) ([]byte, error) {
	callID := logging.NewCallID()
	start := time.Now()
	log := logging.L().With(zap.String("call_id", callID), zap.String("parquet_path", parquetPath))

	out, err := generateMetadataIndex(parquetPath, indexPath)

	status := "ok"
	if err != nil {
		status = "error"
		metrics.ErrorsTotal.WithLabelValues("generate_metadata_index", errorKind(err)).Inc()
		log.Error("generate_metadata_index failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
	} else {
		log.Debug("generate_metadata_index completed",
			zap.Duration("duration", time.Since(start)),
			zap.Int("sidecar_bytes", len(out)),
		)
		metrics.IndexBuildBytes.WithLabelValues().Observe(float64(len(out)))
	}
	metrics.IndexBuildsTotal.WithLabelValues(status).Inc()
	metrics.IndexBuildDuration.WithLabelValues().Observe(time.Since(start).Seconds())

	return out, err
}

func generateMetadataIndex(parquetPath, indexPath string) ([]byte, error) {
	data, err := os.ReadFile(parquetPath)
	if err != nil {
		return nil, errIO(parquetPath, err)
	}

	footer, ferr := locateFooter(data)
	if ferr != nil {
		return nil, ferr
	}

	out, berr := index.Build(footer)
	if berr != nil {
		return nil, translateIndexError(berr)
	}

	if indexPath != "" {
		if err := os.WriteFile(indexPath, out, 0o644); err != nil {
			return nil, errIO(indexPath, err)
		}
	}
	return out, nil
}

// ReadMetadata opens the sidecar at indexPath (or, if indexData is
// non-nil, decodes it directly and ignores indexPath except for error
// messages) and returns the reassembled FileMetaData bytes for opts.
func ReadMetadata(indexPath string, indexData []byte, opts ReadOptions) ([]byte, error) {
	callID := logging.NewCallID()
	start := time.Now()
	log := logging.L().With(zap.String("call_id", callID), zap.String("index_path", indexPath))

	out, err := readMetadata(indexPath, indexData, opts)

	status := "ok"
	if err != nil {
		status = "error"
		metrics.ErrorsTotal.WithLabelValues("read_metadata", errorKind(err)).Inc()
		log.Error("read_metadata failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
	} else {
		log.Debug("read_metadata completed",
			zap.Duration("duration", time.Since(start)),
			zap.Int("result_bytes", len(out)),
		)
		metrics.ReadProjectedColumns.WithLabelValues().Observe(float64(projectedColumnCount(opts)))
	}
	metrics.ReadsTotal.WithLabelValues(status).Inc()
	metrics.ReadDuration.WithLabelValues().Observe(time.Since(start).Seconds())

	return out, err
}

func readMetadata(indexPath string, indexData []byte, opts ReadOptions) ([]byte, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	var r *sidecar.Reader
	if indexData != nil {
		sr, err := sidecar.Open(indexData)
		if err != nil {
			return nil, errUnexpectedFormat(indexPath)
		}
		r = sr
	} else {
		sr, err := sidecar.OpenFile(indexPath)
		if err != nil {
			var pathErr *fs.PathError
			var errno syscall.Errno
			if errors.As(err, &pathErr) || errors.As(err, &errno) {
				return nil, errIO(indexPath, err)
			}
			return nil, errUnexpectedFormat(indexPath)
		}
		defer sr.Close()
		r = sr
	}

	out, err := project.ReadFromSidecar(r, project.Request{
		RowGroups:     opts.RowGroups,
		ColumnIndices: opts.ColumnIndices,
		ColumnNames:   opts.ColumnNames,
	})
	if err != nil {
		return nil, translateProjectError(err)
	}
	return out, nil
}

func projectedColumnCount(opts ReadOptions) int {
	switch {
	case len(opts.ColumnNames) > 0:
		return len(opts.ColumnNames)
	case len(opts.ColumnIndices) > 0:
		return len(opts.ColumnIndices)
	default:
		return 0
	}
}

func translateIndexError(err error) error {
	ierr, ok := err.(*index.Error)
	if !ok {
		return wrapError(MalformedParquet, err.Error(), err)
	}
	switch ierr.Kind {
	case index.KindUnsupported:
		return newError(Unsupported, ierr.Error())
	default:
		return newError(MalformedParquet, ierr.Error())
	}
}

func translateProjectError(err error) error {
	perr, ok := err.(*project.Error)
	if !ok {
		return wrapError(OutOfRange, err.Error(), err)
	}
	switch perr.Kind {
	case project.KindOutOfRange:
		return newError(OutOfRange, perr.Error())
	case project.KindUnknownColumn:
		return newError(UnknownColumn, perr.Error())
	case project.KindInvalidArgument:
		return newError(InvalidArgument, perr.Error())
	default:
		return newError(OutOfRange, perr.Error())
	}
}

func errorKind(err error) string {
	pe, ok := err.(*Error)
	if !ok {
		return "unknown"
	}
	switch pe.Kind {
	case IoError:
		return "io_error"
	case UnexpectedFormat:
		return "unexpected_format"
	case MalformedParquet:
		return "malformed_parquet"
	case OutOfRange:
		return "out_of_range"
	case UnknownColumn:
		return "unknown_column"
	case InvalidArgument:
		return "invalid_argument"
	case Unsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}
