// Package docstore is the boundary to the external document store.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrEmptyCollection   = errors.New("docstore: empty collection name")
	ErrInvalidCollection = errors.New("docstore: invalid collection name")
	ErrInvalidField      = errors.New("docstore: invalid field name")
)

// Store appends documents. There is no keyed update: every Insert creates a
// new document with a fresh id.
type Store interface {
	Insert(ctx context.Context, collection string, fields map[string]any) (string, error)
}

// Counter is implemented by stores that can count documents matching a top
// level field. It is optional.
type Counter interface {
	Count(ctx context.Context, collection, field, value string) (int, error)
}

var namePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]{0,63}$`)

// CheckCollection validates a collection name. Names end up in object keys
// and SQL parameters so they are kept to a safe alphabet.
func CheckCollection(name string) error {
	if name == "" {
		return ErrEmptyCollection
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidCollection, name)
	}
	return nil
}

// CheckField validates a top level field name used in a Count.
func CheckField(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidField, name)
	}
	return nil
}
