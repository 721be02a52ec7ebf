// Package repository holds the SQL for the shows and users tables.  The
// sentinel values below let higher layers tell a missing row apart from a
// store failure without inspecting driver errors.
package repository

import "errors"

// ErrShowNotFound indicates that no show matched the given id.
var ErrShowNotFound = errors.New("show not found")

// ErrUserNotFound indicates that no user matched the given email.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailExists is returned when inserting a user whose email is taken.
var ErrEmailExists = errors.New("email already exists")
