package rrgraph

import "errors"

var (
	// ErrMalformedGraph is returned when the document does not follow the rr_graph schema
	ErrMalformedGraph = errors.New("malformed rr_graph")
	// ErrIndexMismatch is returned when a deletion's endpoints do not match the edge at its index
	ErrIndexMismatch = errors.New("edge index does not match endpoints")
	// ErrUnsortedDeletions is returned when deletions are not sorted by index in descending order
	ErrUnsortedDeletions = errors.New("deletions not sorted by descending index")
	// ErrUnsupportedSource is returned for graph locations no opener understands
	ErrUnsupportedSource = errors.New("unsupported graph source")
)
