package vfs

import (
	"errors"
	"fmt"
)

// Code classifies a file system failure.
type Code string

const (
	CodeNotFound          Code = "not_found"
	CodeNotADirectory     Code = "not_a_directory"
	CodeIsADirectory      Code = "is_a_directory"
	CodeAlreadyExists     Code = "already_exists"
	CodeDirectoryNotEmpty Code = "directory_not_empty"
	CodeInvalidArgument   Code = "invalid_argument"
	CodeForbidden         Code = "forbidden"
)

// Sentinel errors, matched with errors.Is.
var (
	ErrNotFound          = errors.New("no such file or directory")
	ErrNotADirectory     = errors.New("not a directory")
	ErrIsADirectory      = errors.New("is a directory")
	ErrAlreadyExists     = errors.New("file exists")
	ErrDirectoryNotEmpty = errors.New("directory not empty")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrForbidden         = errors.New("operation not permitted")

	// ErrInvalidMode is the InvalidArgument raised by chmod.
	ErrInvalidMode = fmt.Errorf("%w: invalid mode", ErrInvalidArgument)
)

var codes = map[error]Code{
	ErrNotFound:          CodeNotFound,
	ErrNotADirectory:     CodeNotADirectory,
	ErrIsADirectory:      CodeIsADirectory,
	ErrAlreadyExists:     CodeAlreadyExists,
	ErrDirectoryNotEmpty: CodeDirectoryNotEmpty,
	ErrInvalidArgument:   CodeInvalidArgument,
	ErrForbidden:         CodeForbidden,
}

// Error describes a failed operation on a path.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Code returns the classification of the wrapped sentinel.
func (e *Error) Code() Code {
	return CodeOf(e.Err)
}

// CodeOf classifies any error produced by this package. Unknown errors
// classify as the empty Code.
func CodeOf(err error) Code {
	for sentinel, code := range codes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return ""
}

func newError(op, path string, err error) *Error {
	return &Error{Op: op, Path: path, Err: err}
}
