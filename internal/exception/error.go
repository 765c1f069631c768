package exception

import "errors"

// ErrRecordNotFound custom database error for failure to find record
var ErrRecordNotFound = errors.New("record not found")

// ErrRecordExists custom database error for duplicate records
var ErrRecordExists = errors.New("record already exists")
