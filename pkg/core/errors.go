package core

import "errors"

// Common errors.
var (
	// ErrInvalidKey signals a key that is empty or illegal for the storage
	// naming rule.
	ErrInvalidKey = errors.New("invalid document key")

	// ErrNotFound signals a lookup on an absent key.
	ErrNotFound = errors.New("document not found")

	// ErrMalformedRecord signals a record that fails to parse.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrConsistency signals that the index reports a document as present
	// but its backing record is missing or unparsable. Repair is an explicit
	// maintenance operation (Resync), never done by the read path.
	ErrConsistency = errors.New("index/storage consistency fault")

	// ErrReadOnly is returned by mutating operations on a read-only store.
	ErrReadOnly = errors.New("repository is in read-only mode")
)
