package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/klap2026/klap/domain"
	"github.com/klap2026/klap/internal/config"
	"github.com/klap2026/klap/internal/mocks"
)

func testOTPConfig(mode string) OTPConfig {
	return OTPConfig{
		TTL:         5 * time.Minute,
		MaxAttempts: 5,
		Mode:        mode,
	}
}

func TestOTPService_Issue_MockMode(t *testing.T) {
	otpRepo := mocks.NewMockOtpRepository()
	smsSvc := mocks.NewMockSMSSender()

	var stored *domain.OtpCode
	otpRepo.CreateFunc = func(ctx context.Context, code *domain.OtpCode) error {
		code.ID = "otp-1"
		stored = code
		return nil
	}

	svc := NewOTPService(otpRepo, smsSvc, testOTPConfig(config.OTPModeMock))
	issue, err := svc.Issue(context.Background(), "+972501234567")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if !regexp.MustCompile(`^\d{6}$`).MatchString(issue.MockCode) {
		t.Errorf("mock code %q is not six digits", issue.MockCode)
	}
	if stored == nil {
		t.Fatal("code was not persisted")
	}
	if stored.CodeHash == issue.MockCode {
		t.Error("code stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.CodeHash), []byte(issue.MockCode)); err != nil {
		t.Errorf("stored hash does not match issued code: %v", err)
	}
	if len(smsSvc.Sent) != 0 {
		t.Errorf("mock mode must not send SMS, sent to %v", smsSvc.Sent)
	}
}

func TestOTPService_Issue_ProductionMode(t *testing.T) {
	otpRepo := mocks.NewMockOtpRepository()
	smsSvc := mocks.NewMockSMSSender()

	svc := NewOTPService(otpRepo, smsSvc, testOTPConfig(config.OTPModeProduction))
	issue, err := svc.Issue(context.Background(), "+972501234567")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if issue.MockCode != "" {
		t.Errorf("production mode must not return the code, got %q", issue.MockCode)
	}
	if len(smsSvc.Sent) != 1 || smsSvc.Sent[0] != "+972501234567" {
		t.Errorf("expected one SMS to the phone, got %v", smsSvc.Sent)
	}
}

func TestOTPService_Issue_DeliveryFailureCleansUp(t *testing.T) {
	otpRepo := mocks.NewMockOtpRepository()
	smsSvc := mocks.NewMockSMSSender()
	smsSvc.SendSMSFunc = func(to, body string) error {
		return errors.New("twilio unreachable")
	}

	deleted := ""
	otpRepo.DeleteFunc = func(ctx context.Context, id string) error {
		deleted = id
		return nil
	}

	svc := NewOTPService(otpRepo, smsSvc, testOTPConfig(config.OTPModeProduction))
	_, err := svc.Issue(context.Background(), "+972501234567")
	if !errors.Is(err, domain.ErrOTPDelivery) {
		t.Fatalf("Issue() error = %v, want ErrOTPDelivery", err)
	}
	if deleted != "otp-1" {
		t.Errorf("undelivered code was not removed, deleted=%q", deleted)
	}
}

func TestOTPService_Verify(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	openCode := func(attempts int) *domain.OtpCode {
		return &domain.OtpCode{
			ID:        "otp-1",
			Phone:     "+972501234567",
			CodeHash:  string(hash),
			ExpiresAt: time.Now().Add(5 * time.Minute),
			Attempts:  attempts,
		}
	}

	tests := []struct {
		name         string
		code         string
		latestOpen   func(ctx context.Context, phone string, now time.Time) (*domain.OtpCode, error)
		wantErr      error
		wantRecorded bool
		wantVerified bool
	}{
		{
			name: "correct code verifies and is consumed",
			code: "123456",
			latestOpen: func(ctx context.Context, phone string, now time.Time) (*domain.OtpCode, error) {
				return openCode(0), nil
			},
			wantErr:      nil,
			wantRecorded: true,
			wantVerified: true,
		},
		{
			name: "wrong code counts an attempt",
			code: "000000",
			latestOpen: func(ctx context.Context, phone string, now time.Time) (*domain.OtpCode, error) {
				return openCode(0), nil
			},
			wantErr:      domain.ErrOTPInvalid,
			wantRecorded: true,
			wantVerified: false,
		},
		{
			name: "attempt ceiling rejects even the correct code",
			code: "123456",
			latestOpen: func(ctx context.Context, phone string, now time.Time) (*domain.OtpCode, error) {
				return openCode(5), nil
			},
			wantErr:      domain.ErrOTPMaxAttempts,
			wantRecorded: false,
		},
		{
			name: "no open code",
			code: "123456",
			latestOpen: func(ctx context.Context, phone string, now time.Time) (*domain.OtpCode, error) {
				return nil, domain.ErrOTPNotFound
			},
			wantErr:      domain.ErrOTPNotFound,
			wantRecorded: false,
		},
		{
			name: "expired code surfaces as expired",
			code: "123456",
			latestOpen: func(ctx context.Context, phone string, now time.Time) (*domain.OtpCode, error) {
				return nil, domain.ErrOTPExpired
			},
			wantErr:      domain.ErrOTPExpired,
			wantRecorded: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			otpRepo := mocks.NewMockOtpRepository()
			otpRepo.LatestOpenFunc = tt.latestOpen

			recorded := false
			verified := false
			otpRepo.RecordAttemptFunc = func(ctx context.Context, id string, v bool) error {
				recorded = true
				verified = v
				return nil
			}

			svc := NewOTPService(otpRepo, mocks.NewMockSMSSender(), testOTPConfig(config.OTPModeMock))
			err := svc.Verify(context.Background(), "+972501234567", tt.code)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Verify() error = %v, want %v", err, tt.wantErr)
			}
			if recorded != tt.wantRecorded {
				t.Errorf("attempt recorded = %v, want %v", recorded, tt.wantRecorded)
			}
			if recorded && verified != tt.wantVerified {
				t.Errorf("verified flag = %v, want %v", verified, tt.wantVerified)
			}
		})
	}
}
