package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrUserDeclined        = errors.New("transaction declined by user")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidState        = errors.New("invalid state for requested transition")
	ErrApprovalFailed      = errors.New("token approval failed")
	ErrPurchaseFailed      = errors.New("purchase failed")
	ErrTxReverted          = errors.New("transaction reverted")
	ErrConfirmTimeout      = errors.New("confirmation wait timed out")
	ErrContextDone         = errors.New("context cancelled")
)
