package errors

import "errors"

var (
	ErrInvalidCommentInput = errors.New("comment input is invalid")
	ErrCommenterNotAllowed = errors.New("user is not authorized to comment")
	ErrCommentsNotAllowed  = errors.New("proposal does not accept comments")
	ErrProposalNotFound    = errors.New("proposal not found")
	ErrInternal            = errors.New("internal comment error")
)
