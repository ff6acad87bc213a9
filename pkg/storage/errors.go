package storage

import "errors"

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrVersionConflict is returned when a versioned write loses to a
// concurrent update; the row advanced since the caller last read it.
var ErrVersionConflict = errors.New("version conflict")

// ErrAlreadyExists is returned when a create collides with an existing row.
var ErrAlreadyExists = errors.New("already exists")
