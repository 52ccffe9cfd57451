package server

import "errors"

// Sentinel errors for API operations.
var (
	ErrTodoNotFound    = errors.New("todo not found")
	ErrEmptyText       = errors.New("todo text is empty")
	ErrJournalDisabled = errors.New("journal is disabled")
	ErrBadProportion   = errors.New("proportion must be a number")
)
