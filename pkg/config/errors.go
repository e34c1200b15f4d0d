package config

import "errors"

var (
	// ErrInvalidDocument signals a document that parsed but does not have the
	// expected shape (a sequence of records).
	ErrInvalidDocument = errors.New("config: invalid document")
	// ErrUnsupportedSource is returned for sources the loader cannot read.
	ErrUnsupportedSource = errors.New("config: unsupported source")
)
