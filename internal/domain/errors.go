package domain

import "errors"

var (
	ErrLoadFailed    = errors.New("load failed")
	ErrDeleteFailed  = errors.New("delete failed")
	ErrSessionExists = errors.New("session already mounted")
	ErrNoSession     = errors.New("no session")
)
