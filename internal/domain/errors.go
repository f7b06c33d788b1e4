package domain

import "errors"

var (
	ErrSessionExpired  = errors.New("session expired")
	ErrNoCredential    = errors.New("no access credential available")
	ErrNotConnected    = errors.New("channel not connected")
	ErrProfileNotFound = errors.New("admin profile not found")
)
