package errors

import "errors"

var (
	ErrInvalidProposalInput = errors.New("proposal input is invalid")
	ErrProposalNotFound     = errors.New("proposal not found")
	ErrNotProponent         = errors.New("user is not a proponent of the proposal")
	ErrInvalidReviewOutcome = errors.New("review outcome is invalid")
	ErrInternal             = errors.New("internal proposal error")
)
