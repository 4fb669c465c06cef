package core

import "errors"

var (
	ErrUnknownParent     = errors.New("unknown parent")
	ErrNotHeadExtension  = errors.New("block does not extend the head")
	ErrInvalidNumber     = errors.New("invalid block number")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrInvalidGasLimit   = errors.New("invalid gas limit")
	ErrInvalidTimestamp  = errors.New("timestamp not greater than parent")
	ErrFutureBlock       = errors.New("block too far in the future")
	ErrExtraDataTooLong  = errors.New("extra data too long")
	ErrInvalidPoW        = errors.New("invalid proof of work")
	ErrInvalidUncle      = errors.New("invalid uncle header")
	ErrUncleGeneration   = errors.New("uncle outside generation window")
	ErrDuplicateUncle    = errors.New("uncle already referenced by ancestor")
	ErrGasLimitExceeded  = errors.New("block gas limit exceeded")
	ErrInvalidBlock      = errors.New("invalid block")
)
