package commons

import "errors"

var ErrRecordNotFound = errors.New("Record not found")
var ErrInsufficientBalance = errors.New("Insufficient balance")

// ErrConcurrentUpdate is returned by a balance write whose expected version no
// longer matches the stored account.
var ErrConcurrentUpdate = errors.New("account was modified concurrently")

// ErrDuplicateRecord is returned when a write collides with a uniqueness rule
// of the store.
var ErrDuplicateRecord = errors.New("Duplicate record")
