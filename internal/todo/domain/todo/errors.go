package todo

import (
	"errors"
	"fmt"
)

// ErrStorage marks failures of the underlying storage medium.
var ErrStorage = errors.New("storage failure")

// StorageError wraps a medium failure with the operation that hit it.
type StorageError struct {
	Op  string
	ID  string
	Err error
}

func (e *StorageError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s with id %s: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is makes every StorageError match ErrStorage.
func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// NewStorageError creates a StorageError.
func NewStorageError(op, id string, err error) *StorageError {
	return &StorageError{Op: op, ID: id, Err: err}
}
