package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByPhone(ctx context.Context, phone string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	UpdateRole(ctx context.Context, id, role string) (*User, error)
}

// OtpRepository defines OTP code data access operations
type OtpRepository interface {
	Create(ctx context.Context, code *OtpCode) error
	// LatestOpen returns the most recently created unverified code
	// for phone. It returns ErrOTPExpired when that code's expiry has
	// passed and ErrOTPNotFound when no open code exists.
	LatestOpen(ctx context.Context, phone string, now time.Time) (*OtpCode, error)
	// RecordAttempt increments the attempt counter and, when verified
	// is true, marks the code consumed in the same update.
	RecordAttempt(ctx context.Context, id string, verified bool) error
	Delete(ctx context.Context, id string) error
}

// SessionRepository defines session data access operations
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	DeleteByToken(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID string) error
}

// CustomerRepository defines customer profile data access operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *Customer) error
	FindByUser(ctx context.Context, userID string) (*Customer, error)
	FindByID(ctx context.Context, id string) (*Customer, error)
	Update(ctx context.Context, customer *Customer) error
}

// TechnicianRepository defines technician profile data access operations
type TechnicianRepository interface {
	Create(ctx context.Context, technician *Technician) error
	FindByUser(ctx context.Context, userID string) (*Technician, error)
	FindByID(ctx context.Context, id string) (*Technician, error)
	Update(ctx context.Context, technician *Technician) error
}

// JobRepository defines job data access operations
type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	// FindByID loads a job with its customer and technician profiles.
	FindByID(ctx context.Context, id string) (*Job, error)
	List(ctx context.Context, filter JobFilter) ([]*Job, error)
	Update(ctx context.Context, job *Job) error
}

// AdminRepository defines administrative operations spanning tables
type AdminRepository interface {
	// DeleteUserCascade removes a user together with all rows that
	// reference it: sessions, OTP codes, profiles and the jobs owned
	// by the customer profile.
	DeleteUserCascade(ctx context.Context, userID string) error
}

// AuthService defines the authentication business logic
type AuthService interface {
	VerifyOTP(ctx context.Context, phone, code string) (*AuthResult, error)
	UpdateRole(ctx context.Context, userID, role string) (*AuthResult, error)
	Logout(ctx context.Context, token string) error
	Profile(ctx context.Context, userID string) (*UserProfile, error)
}

// OTPService defines OTP issuance and validation
type OTPService interface {
	Issue(ctx context.Context, phone string) (*OTPIssue, error)
	Verify(ctx context.Context, phone, code string) error
}

// TokenService defines signed session token operations
type TokenService interface {
	Sign(claims TokenClaims) (string, time.Time, error)
	// Verify returns the claims or ErrTokenInvalid. Malformed, expired
	// and tampered tokens are indistinguishable to callers.
	Verify(token string) (*TokenClaims, error)
}

// TokenClaims are the identity claims carried by a session token.
type TokenClaims struct {
	UserID    string
	Phone     string
	Role      string
	IssuedAt  int64
	ExpiresAt int64
}

// SMSSender dispatches text messages to phones
type SMSSender interface {
	SendSMS(to, body string) error
}

// RateLimiter admits or denies operations per identifier within a
// fixed window.
type RateLimiter interface {
	Check(ctx context.Context, key string, window time.Duration, max int) (RateLimitResult, error)
	Clear(ctx context.Context, key string) error
}

// RateLimitResult reports the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter is the number of whole seconds until the window resets,
// rounded up, never negative.
func (r RateLimitResult) RetryAfter(now time.Time) int {
	d := r.ResetAt.Sub(now)
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

// PolicyService answers role-to-route questions for the auth gateway.
type PolicyService interface {
	// Allowed reports whether role may reach path.
	Allowed(role, path, method string) (bool, error)
	// RoleGated reports whether path is reserved for some role.
	RoleGated(path, method string) (bool, error)
	AddPolicy(role, path, method string) error
}
