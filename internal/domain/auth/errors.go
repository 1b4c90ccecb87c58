package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAccountPending      = errors.New("account is awaiting admin approval")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrSessionNotFound     = errors.New("session not found")
	ErrRefreshTokenRevoked = errors.New("refresh token has been revoked")
)
