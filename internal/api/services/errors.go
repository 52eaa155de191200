package services

import "errors"

var (
	ErrItemNotFound         = errors.New("item not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrItemAlreadyOwned     = errors.New("item already owned")
	ErrItemNotOwned         = errors.New("item not owned")
	ErrSlotLimitExceeded    = errors.New("slot limit exceeded")
	ErrNotCurrentlyEquipped = errors.New("item is not currently equipped")
	ErrInvalidItem          = errors.New("invalid item")
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
)
