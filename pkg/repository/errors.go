// Package repository holds errors shared by every Repository backend and
// the cross-backend conformance tests.
package repository

import "github.com/m-mizutani/goerr/v2"

// ErrNotFound is returned when a lookup by ID misses. A miss is a normal
// outcome; callers decide whether it is fatal.
var ErrNotFound = goerr.New("entity not found")
