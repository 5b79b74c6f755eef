package domain

import "errors"

// User errors
var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidRole  = errors.New("invalid role")
)

// OTP errors
var (
	ErrOTPNotFound    = errors.New("otp not found")
	ErrOTPExpired     = errors.New("otp has expired")
	ErrOTPInvalid     = errors.New("invalid otp code")
	ErrOTPMaxAttempts = errors.New("maximum otp attempts exceeded")
	ErrOTPDelivery    = errors.New("otp delivery failed")
)

// Token errors. Verification deliberately collapses malformed, expired
// and tampered tokens into ErrTokenInvalid so callers cannot
// distinguish them.
var (
	ErrTokenInvalid = errors.New("invalid token")
)

// Profile and job errors
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrJobNotFound     = errors.New("job not found")
	ErrInvalidStatus   = errors.New("invalid job status")
	ErrForbidden       = errors.New("forbidden")
)
