package auth

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/klap2026/klap/domain"
)

// JWTServiceImpl implements domain.TokenService with HS256 tokens.
// Tokens are self-contained: verification checks signature and expiry
// only and never consults the session store, so server-side session
// deletion does not revoke an outstanding token before its expiry.
type JWTServiceImpl struct {
	secretKey []byte
	issuer    string
	ttl       time.Duration
}

// NewJWTService creates a new JWT token service.
func NewJWTService(secretKey, issuer string, ttl time.Duration) domain.TokenService {
	return &JWTServiceImpl{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		ttl:       ttl,
	}
}

// generateJTI creates a unique JWT ID
func (j *JWTServiceImpl) generateJTI() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// Sign implements domain.TokenService
func (j *JWTServiceImpl) Sign(claims domain.TokenClaims) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(j.ttl)
	mapClaims := jwt.MapClaims{
		"user_id": claims.UserID,
		"phone":   claims.Phone,
		"role":    claims.Role,
		"iss":     j.issuer,
		"iat":     now.Unix(),
		"exp":     expiresAt.Unix(),
		"jti":     j.generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify implements domain.TokenService. Any failure collapses into
// ErrTokenInvalid so callers cannot distinguish expired from tampered.
func (j *JWTServiceImpl) Verify(tokenString string) (*domain.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrTokenInvalid
		}
		return j.secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, domain.ErrTokenInvalid
	}
	phone, _ := claims["phone"].(string)
	role, _ := claims["role"].(string)

	iat, ok := claims["iat"].(float64)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	if time.Unix(int64(exp), 0).Before(time.Now()) {
		return nil, domain.ErrTokenInvalid
	}

	return &domain.TokenClaims{
		UserID:    userID,
		Phone:     phone,
		Role:      role,
		IssuedAt:  int64(iat),
		ExpiresAt: int64(exp),
	}, nil
}
