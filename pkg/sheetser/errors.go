package sheetser

import "errors"

// Sentinel errors surfaced by registration and by grid sinks. Sinks must
// wrap ErrBounds and ErrLength so callers can distinguish the two with
// errors.Is.
var (
	// ErrBounds reports a cell reference outside the addressable grid.
	ErrBounds = errors.New("cell reference outside the worksheet grid")

	// ErrInvalidLayout reports an empty struct name or a structurally
	// invalid descriptor set passed to header registration.
	ErrInvalidLayout = errors.New("invalid serialization layout")

	// ErrLength reports a text value longer than the sink's cell limit.
	ErrLength = errors.New("cell text exceeds the maximum length")
)

// TraversalError reports a value shape the structured-value model cannot
// represent at all, such as a channel or function field. Malformed but
// well-typed input never produces a TraversalError; unknown fields are
// silently dropped instead.
type TraversalError struct {
	Msg string
}

func (e *TraversalError) Error() string {
	return "sheetser: traversal: " + e.Msg
}
