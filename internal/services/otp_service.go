package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/klap2026/klap/domain"
	"github.com/klap2026/klap/internal/config"
)

// OTPServiceImpl implements domain.OTPService. Codes are persisted as
// bcrypt hashes; verification loads the latest open code for the phone
// and counts every attempt against it, matching or not, so guessing a
// specific code is bounded by the attempt ceiling independently of the
// outer per-phone rate limit.
type OTPServiceImpl struct {
	otpRepo domain.OtpRepository
	smsSvc  domain.SMSSender
	cfg     OTPConfig
}

// OTPConfig carries the issuance and validation knobs.
type OTPConfig struct {
	TTL         time.Duration
	MaxAttempts int
	Mode        string
}

// NewOTPService creates a new OTP service
func NewOTPService(otpRepo domain.OtpRepository, smsSvc domain.SMSSender, cfg OTPConfig) domain.OTPService {
	return &OTPServiceImpl{
		otpRepo: otpRepo,
		smsSvc:  smsSvc,
		cfg:     cfg,
	}
}

// Issue implements domain.OTPService
func (s *OTPServiceImpl) Issue(ctx context.Context, phone string) (*domain.OTPIssue, error) {
	code, err := generateCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP code: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash OTP code: %w", err)
	}

	record := &domain.OtpCode{
		Phone:     phone,
		CodeHash:  string(hash),
		ExpiresAt: time.Now().Add(s.cfg.TTL),
		Attempts:  0,
		Verified:  false,
		CreatedAt: time.Now(),
	}
	if err := s.otpRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to store OTP: %w", err)
	}

	issue := &domain.OTPIssue{Phone: phone, ExpiresAt: record.ExpiresAt}

	if s.cfg.Mode == config.OTPModeMock {
		issue.MockCode = code
		return issue, nil
	}

	body := fmt.Sprintf("%s is your verification code. For your security, do not share this code.", code)
	if err := s.smsSvc.SendSMS(phone, body); err != nil {
		// A code the user never received must not burn their budget.
		if delErr := s.otpRepo.Delete(ctx, record.ID); delErr != nil {
			log.Error().Err(delErr).Str("phone", phone).Msg("failed to clean up undelivered otp")
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrOTPDelivery, err)
	}

	return issue, nil
}

// Verify implements domain.OTPService
func (s *OTPServiceImpl) Verify(ctx context.Context, phone, code string) error {
	record, err := s.otpRepo.LatestOpen(ctx, phone, time.Now())
	if err != nil {
		return err
	}

	if record.Attempts >= s.cfg.MaxAttempts {
		return domain.ErrOTPMaxAttempts
	}

	matched := bcrypt.CompareHashAndPassword([]byte(record.CodeHash), []byte(code)) == nil
	if err := s.otpRepo.RecordAttempt(ctx, record.ID, matched); err != nil {
		return fmt.Errorf("failed to record OTP attempt: %w", err)
	}
	if !matched {
		return domain.ErrOTPInvalid
	}
	return nil
}

// generateCode draws a 6-digit code uniformly from [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
