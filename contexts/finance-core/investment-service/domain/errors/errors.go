package errors

import "errors"

var (
	ErrInvalidInvestmentInput = errors.New("investment input is invalid")
	ErrInvalidCredentials     = errors.New("investor credentials are invalid")
	ErrProjectNotFound        = errors.New("project not found")
	ErrInternal               = errors.New("internal investment error")
)
