package errors

import "errors"

var (
	ErrInvalidConfigInput = errors.New("votation configuration input is invalid")
	ErrNotProposalOwner   = errors.New("user does not own the proposal")
	ErrUnknownQuestion    = errors.New("question does not exist")
	ErrInternal           = errors.New("internal votation configuration error")
)
