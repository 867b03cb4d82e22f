package core

import "errors"

// Sentinel errors returned by the format/parsing layer. Callers branch on
// these with errors.Is; every wrapping site uses fmt.Errorf("...: %w", ...).
var (
	// ErrInvalidFormat marks a bad magic/check word, a malformed path, or
	// a malformed shape/type field.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrOutOfBounds marks a declared section size that exceeds its
	// backing buffer, an index outside a slice, or a string range outside
	// the string pool.
	ErrOutOfBounds = errors.New("out of bounds")

	// ErrOverflow marks a numeric field that does not fit its encoded
	// width, or a shape whose element count overflows or exceeds a
	// plausible bound for downstream size arithmetic.
	ErrOverflow = errors.New("overflow")

	// ErrAlignment marks a file offset or dataset size that violates the
	// format's alignment requirement. Never folded into ErrInvalidFormat:
	// callers branch on alignment failures separately.
	ErrAlignment = errors.New("misaligned")

	// ErrCompressFailure marks a codec that consumed all input but
	// produced the wrong element count, or ran out of input. Recoverable:
	// the caller gets the still-compressed DataRef back.
	ErrCompressFailure = errors.New("compression stream error")

	// ErrCyclicReference marks a tree walk that revisited an
	// already-visited dataset offset.
	ErrCyclicReference = errors.New("cyclic reference")
)
