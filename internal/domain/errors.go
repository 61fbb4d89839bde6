package domain

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrUserNotFound          = errors.New("user not found")
	ErrListingNotFound       = errors.New("listing not found")
	ErrTradeNotFound         = errors.New("trade opportunity not found")
	ErrInterestAlreadyExists = errors.New("interest already recorded")
	ErrCannotTradeWithSelf   = errors.New("cannot express interest in own listing")
	ErrInvalidTransition     = errors.New("invalid trade status transition")
	ErrNotAuthorized         = errors.New("user is not a party to this trade")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrSessionNotFound       = errors.New("session not found")
	ErrUserAlreadyExists     = errors.New("user already exists")
)
