package library

import "errors"

// ErrNoBuiltInSource is returned by built-in operations when no source is
// configured.
var ErrNoBuiltInSource = errors.New("no built-in lesson source configured")
