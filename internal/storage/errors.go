package storage

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrUnknownDriver = errors.New("unknown storage driver")
)
