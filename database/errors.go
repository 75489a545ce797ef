package database

import (
	stderrors "errors"
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidSort is returned for a sort key the store cannot order by.
var ErrInvalidSort = stderrors.New("unsupported sort field")

var errUnexpectedID = stderrors.New("unexpected inserted id type")

// StorageError is an infrastructure failure of the store. It is never a
// validation problem and is safe to retry as a whole request.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageError(op string, err error) error {
	return &StorageError{Op: op, Err: errors.WithStack(err)}
}

// IsStorageError reports whether err came from the storage backend.
func IsStorageError(err error) bool {
	var se *StorageError
	return stderrors.As(err, &se)
}
