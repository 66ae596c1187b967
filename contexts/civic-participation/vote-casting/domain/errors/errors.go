package errors

import "errors"

var (
	ErrInvalidVoteInput   = errors.New("invalid vote input")
	ErrVoterNotFound      = errors.New("voter not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoActiveKey        = errors.New("no active cryptographic key")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrVotationClosed     = errors.New("votation is outside its voting window")
	ErrAlreadyVoted       = errors.New("question already answered by this voter")
	ErrInternal           = errors.New("internal verification error")
)
