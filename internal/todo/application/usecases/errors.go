package usecases

import (
	"errors"
	"fmt"
)

// ErrTodoNotFound is returned when an operation that requires an existing
// item finds none.
var ErrTodoNotFound = errors.New("todo not found")

// NotFoundError reports the id that was not found.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("todo with id %s not found", e.ID)
}

// Is makes every NotFoundError match ErrTodoNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrTodoNotFound }
