package domain

import "errors"

var (
	ErrFormatMismatch       = errors.New("register format mismatch")
	ErrEmptyWindow          = errors.New("no tracked days in the report window")
	ErrSourceUnavailable    = errors.New("register source unavailable")
	ErrUnknownToken         = errors.New("unrecognized cell token")
	ErrInvalidCategoryOrder = errors.New("invalid category order")
	ErrInvalidWeights       = errors.New("invalid category weights")
	ErrUnknownVariant       = errors.New("unknown report variant")
	ErrScoreUnavailable     = errors.New("report variant has no weighted score")
)
