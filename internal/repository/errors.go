// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow handlers to distinguish
// failure scenarios without inspecting driver error strings: ErrNotFound
// maps to HTTP 404, ErrEmailExists and ErrAlreadyDecided to user-facing
// 400 responses.
package repository

import "errors"

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned by user creation when the email column's
// unique constraint is violated.
var ErrEmailExists = errors.New("email already exists")

// ErrCodeExists is returned by user creation when the login code column's
// unique constraint is violated, e.g. two registrations in the same
// second drawing the same generated code.
var ErrCodeExists = errors.New("login code already exists")

// ErrAlreadyDecided is returned when an admin decision targets a removal
// request that has left the pending state.  The pending→decided transition
// is one-way; a second decision must not touch any work log.
var ErrAlreadyDecided = errors.New("removal request already decided")
