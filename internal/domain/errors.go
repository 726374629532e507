package domain

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
)

var (
	ErrFileNotFound        = errors.New("file not found")
	ErrIO                  = errors.New("io error")
	ErrMalformedRecordFile = errors.New("malformed record file")
	ErrExternalLibrary     = errors.New("external library error")
)

// KindError attaches one of the error kinds above to the underlying cause.
type KindError struct {
	Kind error
	What string
	Err  error
}

func (e *KindError) Error() string {
	if e.Err == nil {
		return e.Kind.Error() + ": " + e.What
	}
	return e.Kind.Error() + ": " + e.What + ": " + e.Err.Error()
}

func (e *KindError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Malformed reports a size or shape violation of a record file.
func Malformed(what string, format string, args ...interface{}) error {
	return errors.WithStack(&KindError{
		Kind: ErrMalformedRecordFile,
		What: what,
		Err:  fmt.Errorf(format, args...),
	})
}

// FileError classifies a failure of the file system.
func FileError(path string, err error) error {
	var kind = ErrIO
	if errors.Is(err, os.ErrNotExist) {
		kind = ErrFileNotFound
	}
	return errors.WithStack(&KindError{
		Kind: kind,
		What: path,
		Err:  err,
	})
}

// ExternalError wraps a failure reported by the deep-learning library.
func ExternalError(op string, cause interface{}) error {
	return errors.WithStack(&KindError{
		Kind: ErrExternalLibrary,
		What: op,
		Err:  fmt.Errorf("%v", cause),
	})
}
