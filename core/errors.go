package core

import "errors"

var (
	ErrValidation  = errors.New("invalid address")
	ErrConflict    = errors.New("address already exists in register")
	ErrNotFound    = errors.New("address does not exist in register")
	ErrImport      = errors.New("file was not imported")
	ErrExport      = errors.New("file was not exported")
	ErrInvalidFile = errors.New("the chosen file type is not valid")
	ErrCancelled   = errors.New("operation cancelled")
)
