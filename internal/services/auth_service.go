package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/klap2026/klap/domain"
	"github.com/klap2026/klap/internal/ratelimit"
)

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo       domain.UserRepository
	sessionRepo    domain.SessionRepository
	customerRepo   domain.CustomerRepository
	technicianRepo domain.TechnicianRepository
	otpSvc         domain.OTPService
	tokenSvc       domain.TokenService
	limiter        domain.RateLimiter
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
	customerRepo domain.CustomerRepository,
	technicianRepo domain.TechnicianRepository,
	otpSvc domain.OTPService,
	tokenSvc domain.TokenService,
	limiter domain.RateLimiter,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:       userRepo,
		sessionRepo:    sessionRepo,
		customerRepo:   customerRepo,
		technicianRepo: technicianRepo,
		otpSvc:         otpSvc,
		tokenSvc:       tokenSvc,
		limiter:        limiter,
	}
}

// VerifyOTP implements domain.AuthService: consume the code, create
// the user on first contact, mint a token, persist the session and
// reset the phone's OTP rate-limit windows.
func (s *AuthServiceImpl) VerifyOTP(ctx context.Context, phone, code string) (*domain.AuthResult, error) {
	if err := s.otpSvc.Verify(ctx, phone, code); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByPhone(ctx, phone)
	if errors.Is(err, domain.ErrUserNotFound) {
		user = &domain.User{Phone: phone}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		log.Info().Str("user_id", user.ID).Msg("user created on first verification")
	} else if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	result, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	// The user proved possession of the phone; their earlier attempts
	// should not count against them anymore.
	for _, key := range []string{ratelimit.SendOTPKey(phone), ratelimit.VerifyOTPKey(phone)} {
		if err := s.limiter.Clear(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to clear rate limit")
		}
	}

	return result, nil
}

// UpdateRole implements domain.AuthService. Re-assignment is permitted;
// the refreshed token carries the new role claim.
func (s *AuthServiceImpl) UpdateRole(ctx context.Context, userID, role string) (*domain.AuthResult, error) {
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}

	user, err := s.userRepo.UpdateRole(ctx, userID, role)
	if err != nil {
		return nil, err
	}

	return s.issueSession(ctx, user)
}

// Logout implements domain.AuthService. Best-effort: the session row
// disappears, but the token stays cryptographically valid until its
// own expiry. Cookie clearing at the handler is what actually logs the
// client out.
func (s *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	if _, err := s.tokenSvc.Verify(token); err != nil {
		// Unverifiable token, nothing to revoke.
		return nil
	}
	return s.sessionRepo.DeleteByToken(ctx, token)
}

// Profile implements domain.AuthService
func (s *AuthServiceImpl) Profile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &domain.UserProfile{User: user}
	switch user.Role {
	case domain.RoleTechnician:
		technician, err := s.technicianRepo.FindByUser(ctx, userID)
		if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
			return nil, err
		}
		profile.Technician = technician
	case domain.RoleCustomer:
		customer, err := s.customerRepo.FindByUser(ctx, userID)
		if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
			return nil, err
		}
		profile.Customer = customer
	}
	return profile, nil
}

func (s *AuthServiceImpl) issueSession(ctx context.Context, user *domain.User) (*domain.AuthResult, error) {
	token, expiresAt, err := s.tokenSvc.Sign(domain.TokenClaims{
		UserID: user.ID,
		Phone:  user.Phone,
		Role:   user.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	session := &domain.Session{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &domain.AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}
