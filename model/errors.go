package model

import "errors"

// Sentinel errors mirroring the taxonomy in the specification. Callers
// should compare with errors.Is; constructors wrap these with
// fmt.Errorf("...: %w", ...) to attach context.
var (
	ErrDuplicateName    = errors.New("model: duplicate name")
	ErrUnknownName      = errors.New("model: unknown name")
	ErrTopologyFrozen   = errors.New("model: topology frozen")
	ErrInvalidParameter = errors.New("model: invalid parameter")
	ErrUnreachable      = errors.New("model: destination unreachable")
	ErrOverflow         = errors.New("model: cell count overflow")
)
