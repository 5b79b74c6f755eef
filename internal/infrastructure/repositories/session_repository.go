package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/klap2026/klap/domain"
)

// SessionRepositoryImpl implements domain.SessionRepository using GORM.
// Sessions are an audit trail of issued tokens, not an authorization
// source: the gateway verifies tokens cryptographically and never
// reads this table. Deleting a row matters for bookkeeping and for the
// admin cascade, not for real-time revocation.
type SessionRepositoryImpl struct {
	db *gorm.DB
}

// DBSession represents the database model for Session
type DBSession struct {
	ID        string `gorm:"primaryKey;size:36"`
	UserID    string `gorm:"index;size:36"`
	Token     string `gorm:"index;size:1024"`
	ExpiresAt time.Time
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (DBSession) TableName() string {
	return "sessions"
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB) domain.SessionRepository {
	return &SessionRepositoryImpl{db: db}
}

// Create implements domain.SessionRepository
func (r *SessionRepositoryImpl) Create(ctx context.Context, session *domain.Session) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	dbSession := &DBSession{
		ID:        session.ID,
		UserID:    session.UserID,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(dbSession).Error; err != nil {
		return err
	}
	session.CreatedAt = dbSession.CreatedAt
	return nil
}

// DeleteByToken implements domain.SessionRepository, matching on the
// exact token value presented at logout.
func (r *SessionRepositoryImpl) DeleteByToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Delete(&DBSession{}, "token = ?", token).Error
}

// DeleteByUser implements domain.SessionRepository
func (r *SessionRepositoryImpl) DeleteByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Delete(&DBSession{}, "user_id = ?", userID).Error
}
