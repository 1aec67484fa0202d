package hostsfile

import (
	"errors"
	"fmt"
)

var (
	// ErrUnterminatedBlock indicates a begin marker without a matching end marker
	ErrUnterminatedBlock = errors.New("managed block has no end marker")

	// ErrDuplicateBlock indicates a second begin marker in the file
	ErrDuplicateBlock = errors.New("more than one managed block")

	// ErrStrayEndMarker indicates an end marker with no preceding begin marker
	ErrStrayEndMarker = errors.New("end marker without begin marker")

	// ErrInvalidHost indicates a host name that cannot be written as a single redirect entry
	ErrInvalidHost = errors.New("invalid host name")

	// ErrBackupsDisabled is returned by backup operations when no backup dir is configured
	ErrBackupsDisabled = errors.New("hosts backups are disabled")
)

// ParseError reports a malformed managed block and the 1-based line it was detected on.
type ParseError struct {
	Line  int
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("hosts file line %d: %v", e.Line, e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// HostError reports a host name rejected before it reaches the file.
type HostError struct {
	Host  string
	Cause error
}

func (e *HostError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%v %q: %v", ErrInvalidHost, e.Host, e.Cause)
	}
	return fmt.Sprintf("%v %q", ErrInvalidHost, e.Host)
}

func (e *HostError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrInvalidHost, e.Cause}
	}
	return []error{ErrInvalidHost}
}

// FileError wraps an I/O or parse failure with the file and operation involved.
type FileError struct {
	Path  string
	Op    string
	Cause error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Cause)
}

func (e *FileError) Unwrap() error {
	return e.Cause
}
