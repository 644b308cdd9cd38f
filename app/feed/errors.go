package feed

import "errors"

var (
	// ErrMalformedDocument indicates the input is not well-formed XML.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrInvalidFeed indicates well-formed XML that is not a usable RSS feed,
	// e.g. a document without a <channel> element.
	ErrInvalidFeed = errors.New("invalid RSS feed")
)
