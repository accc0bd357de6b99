package sidecar

import "errors"

var (
	errTruncatedHeader = errors.New("sidecar: truncated header")
	errBadMagic        = errors.New("sidecar: bad header magic")
	errBadTrailer      = errors.New("sidecar: bad trailer magic")
)
