package apperr

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrNoHTML   = errors.New("no html document in item")
)
