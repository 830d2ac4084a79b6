package model

import "errors"

var (
	ErrInvalidDescriptor = errors.New("invalid position descriptor")
	ErrIllegalMove       = errors.New("illegal move")
	ErrNoMoveHistory     = errors.New("no move history")
)
