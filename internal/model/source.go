// Package model defines the data structures for mutation testing.
package model

// Path represents a file system path.
type Path string
