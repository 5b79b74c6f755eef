package domain

import "time"

// Roles a user may hold. A freshly verified user carries no role until
// onboarding assigns one.
const (
	RoleTechnician = "technician"
	RoleCustomer   = "customer"
)

// Job statuses. Status is a flat string mutated via PATCH; the server
// validates membership only and does not enforce an ordering.
const (
	JobStatusRequestReceived = "request_received"
	JobStatusScheduled       = "scheduled"
	JobStatusEnRoute         = "en_route"
	JobStatusArrived         = "arrived"
	JobStatusCompleted       = "completed"
)

// ValidRole reports whether role is an assignable role value.
func ValidRole(role string) bool {
	return role == RoleTechnician || role == RoleCustomer
}

// ValidJobStatus reports whether status is a known job status.
func ValidJobStatus(status string) bool {
	switch status {
	case JobStatusRequestReceived, JobStatusScheduled, JobStatusEnRoute,
		JobStatusArrived, JobStatusCompleted:
		return true
	}
	return false
}

// User is the identity anchor. Created lazily on the first successful
// OTP verification for an unseen phone number.
type User struct {
	ID        string
	Phone     string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OtpCode is a single OTP issuance attempt. The code is stored as a
// bcrypt hash; the plaintext only leaves the process in mock delivery
// mode or over SMS.
type OtpCode struct {
	ID        string
	Phone     string
	CodeHash  string
	ExpiresAt time.Time
	Attempts  int
	Verified  bool
	CreatedAt time.Time
}

// Session is a durable record of an issued token. It is advisory:
// token verification does not consult it, so deleting a session does
// not invalidate the signed token before its own expiry. It exists for
// logout bookkeeping and bulk revocation on user deletion.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Customer is the customer-side profile owned by a user.
type Customer struct {
	ID        string
	UserID    string
	Name      string
	Phone     string
	Address   string
	Lat       *float64
	Lng       *float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Technician is the technician-side profile owned by a user.
// WorkingHours is an opaque JSON document maintained by the client.
type Technician struct {
	ID              string
	UserID          string
	Name            string
	Phone           string
	Specializations []string
	WorkingHours    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Job is a field-service work request. It always references a customer
// profile and optionally an assigned technician profile.
type Job struct {
	ID           string
	CustomerID   string
	TechnicianID string
	Description  string
	ChatSummary  string
	Address      string
	Lat          float64
	Lng          float64
	Photos       []string
	Category     string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Customer   *Customer
	Technician *Technician
}

// AuthResult is the outcome of a successful OTP verification or role
// update: the user plus a freshly signed session token.
type AuthResult struct {
	User      *User
	Token     string
	ExpiresAt time.Time
}

// OTPIssue describes an issued OTP. MockCode carries the plaintext
// code only when delivery mode is mock.
type OTPIssue struct {
	Phone     string
	MockCode  string
	ExpiresAt time.Time
}

// UserProfile is a user together with whichever role profile is linked.
type UserProfile struct {
	User       *User
	Technician *Technician
	Customer   *Customer
}

// JobFilter narrows job listings.
type JobFilter struct {
	CustomerID   string
	TechnicianID string
	Status       string
}
