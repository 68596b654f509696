package repository

import "errors"

// ErrCardNotFound is returned by Update when no card in the partition has
// the given key.
var ErrCardNotFound = errors.New("card not found")
