// Package repository implements the data-access layer on explicit SQL.
// Repositories perform no authorization: ownership checks belong to the
// handlers. "Not found" is reported as a nil entity with a nil error,
// never as an error value, so callers are forced to handle absence
// explicitly.
package repository

import "errors"

// ErrNameExists is returned when a user insert collides with an existing
// login name. Handlers translate this into an HTTP 400 response.
var ErrNameExists = errors.New("name already exists")
