package dfu

import "errors"

// Callers only need err != nil; these sentinels let them tell causes apart
// with errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrTransport       = errors.New("transport failure")
	ErrProtocolStatus  = errors.New("token returned an error status")
	ErrProtocolLength  = errors.New("unexpected response length")
	ErrUnlockFailed    = errors.New("unlock sequence failed")
	ErrExchangeFailed  = errors.New("token exchange failed")
	ErrChannelZeroized = errors.New("channel zeroized")
	ErrInvalidState    = errors.New("invalid token state")
	ErrPetNameRejected = errors.New("pet name rejected by user")
)
