// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// NetworkError reports a transport-level failure reaching the remote
// collection: timeout, connection refused, or an HTTP error status.
type NetworkError struct {
	Op  string // operation, e.g. "fetch index"
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.URL, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.URL)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IndexParseError reports malformed index content that could not be parsed
// into any records.
type IndexParseError struct {
	Reason string
	Err    error
}

func (e *IndexParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parsing index: %s: %v", e.Reason, e.Err)
	}
	return "parsing index: " + e.Reason
}

func (e *IndexParseError) Unwrap() error { return e.Err }

// MatrixNotFoundError reports that no index record matches a name lookup.
type MatrixNotFoundError struct {
	Name string
}

func (e *MatrixNotFoundError) Error() string {
	return fmt.Sprintf("matrix %q not found in the collection index", e.Name)
}

// ChecksumMismatchError reports a failed integrity check after download.
// The partial file has already been deleted; the caller must re-download.
type ChecksumMismatchError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch for %s: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

// TransferReason distinguishes the failing layer of a TransferError.
type TransferReason string

const (
	TransferNetwork TransferReason = "network" // HTTP transport or status failure
	TransferIO      TransferReason = "io"      // local disk write/rename failure
)

// TransferError reports a failure during streaming download of a file.
type TransferError struct {
	URL    string
	Reason TransferReason
	Err    error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer failed (%s): %s: %v", e.Reason, e.URL, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

// UnsafeArchiveError reports an archive entry that failed security validation.
// Nothing is extracted from an archive containing such an entry.
type UnsafeArchiveError struct {
	Entry  string
	Reason string
}

func (e *UnsafeArchiveError) Error() string {
	return fmt.Sprintf("unsafe archive entry %q: %s", e.Entry, e.Reason)
}

// ExtractionError reports a failure while extracting an archive. All files
// the extraction would have produced have been removed.
type ExtractionError struct {
	Archive string
	Err     error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting %s: %v", e.Archive, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// InvalidRangeError reports a malformed numeric range expression.
type InvalidRangeError struct {
	Input  string
	Reason string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range %q: %s", e.Input, e.Reason)
}
