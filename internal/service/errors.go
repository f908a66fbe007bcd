package service

import "errors"

var (
	ErrEmptyText          = errors.New("text must not be blank")
	ErrInvalidFile        = errors.New("invalid upload")
	ErrNoValidText        = errors.New("no valid text found in the CSV file")
	ErrStorageUnavailable = errors.New("analysis storage is not configured")
)
