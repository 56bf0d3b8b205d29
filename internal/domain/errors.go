package domain

import "errors"

var (
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrStorageWrite       = errors.New("storage write failed")
	ErrStorageRead        = errors.New("storage read failed")
	ErrNotFound           = errors.New("task not found")
	ErrEmptyDescription   = errors.New("task description is empty")
	ErrClosed             = errors.New("store is closed")
)
