package service

import "errors"

var (
	// ErrCreateConflict is returned when a create request supplies both a
	// starting FEN and a preset name.
	ErrCreateConflict = errors.New("fen and preset are mutually exclusive")

	// ErrInternal wraps failures that indicate a bug rather than a bad
	// request, such as a resolved move being rejected by the rules engine.
	ErrInternal = errors.New("internal error")
)
