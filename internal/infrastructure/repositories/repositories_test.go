package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/klap2026/klap/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&DBUser{}, &DBOtpCode{}, &DBSession{}, &DBCustomer{}, &DBTechnician{}, &DBJob{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestUserRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("create assigns an id and find round-trips", func(t *testing.T) {
		user := &domain.User{Phone: "+972501234567"}
		if err := repo.Create(ctx, user); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if user.ID == "" {
			t.Fatal("Create() left the id empty")
		}

		byPhone, err := repo.FindByPhone(ctx, "+972501234567")
		if err != nil {
			t.Fatalf("FindByPhone() error = %v", err)
		}
		if byPhone.ID != user.ID {
			t.Errorf("FindByPhone id = %q, want %q", byPhone.ID, user.ID)
		}

		byID, err := repo.FindByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if byID.Role != "" {
			t.Errorf("fresh user role = %q, want empty", byID.Role)
		}
	})

	t.Run("unknown phone", func(t *testing.T) {
		if _, err := repo.FindByPhone(ctx, "+972500000000"); !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("FindByPhone() error = %v, want ErrUserNotFound", err)
		}
	})

	t.Run("update role", func(t *testing.T) {
		user := &domain.User{Phone: "+972507654321"}
		if err := repo.Create(ctx, user); err != nil {
			t.Fatal(err)
		}

		updated, err := repo.UpdateRole(ctx, user.ID, domain.RoleCustomer)
		if err != nil {
			t.Fatalf("UpdateRole() error = %v", err)
		}
		if updated.Role != domain.RoleCustomer {
			t.Errorf("role = %q, want customer", updated.Role)
		}

		if _, err := repo.UpdateRole(ctx, "missing", domain.RoleCustomer); !errors.Is(err, domain.ErrUserNotFound) {
			t.Errorf("UpdateRole(missing) error = %v, want ErrUserNotFound", err)
		}
	})
}

func TestOtpRepository_LatestOpen(t *testing.T) {
	db := newTestDB(t)
	repo := NewOtpRepository(db)
	ctx := context.Background()
	now := time.Now()

	seed := func(id string, createdAt time.Time, expiresAt time.Time, verified bool) {
		t.Helper()
		err := repo.Create(ctx, &domain.OtpCode{
			ID:        id,
			Phone:     "+972501234567",
			CodeHash:  "hash-" + id,
			ExpiresAt: expiresAt,
			Verified:  verified,
			CreatedAt: createdAt,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	seed("expired", now.Add(-10*time.Minute), now.Add(-5*time.Minute), false)
	seed("consumed", now.Add(-4*time.Minute), now.Add(time.Minute), true)
	seed("older-open", now.Add(-3*time.Minute), now.Add(2*time.Minute), false)
	seed("newest-open", now.Add(-time.Minute), now.Add(4*time.Minute), false)

	code, err := repo.LatestOpen(ctx, "+972501234567", now)
	if err != nil {
		t.Fatalf("LatestOpen() error = %v", err)
	}
	if code.ID != "newest-open" {
		t.Errorf("LatestOpen id = %q, want newest-open", code.ID)
	}

	if _, err := repo.LatestOpen(ctx, "+972500000000", now); !errors.Is(err, domain.ErrOTPNotFound) {
		t.Errorf("LatestOpen(unknown) error = %v, want ErrOTPNotFound", err)
	}

	// Once the newest code's expiry passes, a stale code reads as
	// expired rather than missing.
	if _, err := repo.LatestOpen(ctx, "+972501234567", now.Add(5*time.Minute)); !errors.Is(err, domain.ErrOTPExpired) {
		t.Errorf("LatestOpen(past expiry) error = %v, want ErrOTPExpired", err)
	}
}

func TestOtpRepository_RecordAttempt(t *testing.T) {
	db := newTestDB(t)
	repo := NewOtpRepository(db)
	ctx := context.Background()
	now := time.Now()

	code := &domain.OtpCode{
		Phone:     "+972501234567",
		CodeHash:  "hash",
		ExpiresAt: now.Add(5 * time.Minute),
		CreatedAt: now,
	}
	if err := repo.Create(ctx, code); err != nil {
		t.Fatal(err)
	}

	for i := 1; i <= 3; i++ {
		if err := repo.RecordAttempt(ctx, code.ID, false); err != nil {
			t.Fatalf("RecordAttempt() error = %v", err)
		}
		open, err := repo.LatestOpen(ctx, "+972501234567", now)
		if err != nil {
			t.Fatal(err)
		}
		if open.Attempts != i {
			t.Fatalf("attempts = %d after %d failed tries", open.Attempts, i)
		}
	}

	// A matching attempt bumps the counter and consumes the code.
	if err := repo.RecordAttempt(ctx, code.ID, true); err != nil {
		t.Fatalf("RecordAttempt(verified) error = %v", err)
	}
	if _, err := repo.LatestOpen(ctx, "+972501234567", now); !errors.Is(err, domain.ErrOTPNotFound) {
		t.Errorf("consumed code still open, err = %v", err)
	}

	if err := repo.RecordAttempt(ctx, "missing", false); !errors.Is(err, domain.ErrOTPNotFound) {
		t.Errorf("RecordAttempt(missing) error = %v, want ErrOTPNotFound", err)
	}
}

func TestSessionRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	mk := func(userID, token string) {
		t.Helper()
		err := repo.Create(ctx, &domain.Session{
			UserID:    userID,
			Token:     token,
			ExpiresAt: time.Now().Add(time.Hour),
			CreatedAt: time.Now(),
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	count := func() int64 {
		var n int64
		db.Model(&DBSession{}).Count(&n)
		return n
	}

	mk("user-1", "token-a")
	mk("user-1", "token-b")
	mk("user-2", "token-c")

	if err := repo.DeleteByToken(ctx, "token-a"); err != nil {
		t.Fatalf("DeleteByToken() error = %v", err)
	}
	if n := count(); n != 2 {
		t.Errorf("sessions after DeleteByToken = %d, want 2", n)
	}

	if err := repo.DeleteByUser(ctx, "user-1"); err != nil {
		t.Fatalf("DeleteByUser() error = %v", err)
	}
	if n := count(); n != 1 {
		t.Errorf("sessions after DeleteByUser = %d, want 1", n)
	}
}

func TestJobRepository_FilterAndPreload(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	users := NewUserRepository(db)
	customers := NewCustomerRepository(db)
	technicians := NewTechnicianRepository(db)
	jobs := NewJobRepository(db)

	customerUser := &domain.User{Phone: "+972500000001", Role: domain.RoleCustomer}
	technicianUser := &domain.User{Phone: "+972500000002", Role: domain.RoleTechnician}
	for _, u := range []*domain.User{customerUser, technicianUser} {
		if err := users.Create(ctx, u); err != nil {
			t.Fatal(err)
		}
	}

	customer := &domain.Customer{UserID: customerUser.ID, Name: "Dana", Address: "Herzl 10"}
	if err := customers.Create(ctx, customer); err != nil {
		t.Fatal(err)
	}
	technician := &domain.Technician{
		UserID:          technicianUser.ID,
		Name:            "Avi",
		Specializations: []string{"plumbing"},
		WorkingHours:    `{"sun":"8-17"}`,
	}
	if err := technicians.Create(ctx, technician); err != nil {
		t.Fatal(err)
	}

	seed := func(status, technicianID string) *domain.Job {
		t.Helper()
		job := &domain.Job{
			CustomerID:   customer.ID,
			TechnicianID: technicianID,
			Description:  "fix",
			Address:      "Herzl 10",
			Status:       status,
		}
		if err := jobs.Create(ctx, job); err != nil {
			t.Fatal(err)
		}
		return job
	}

	assigned := seed(domain.JobStatusScheduled, technician.ID)
	seed(domain.JobStatusRequestReceived, "")

	t.Run("find preloads both profiles", func(t *testing.T) {
		job, err := jobs.FindByID(ctx, assigned.ID)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if job.Customer == nil || job.Customer.UserID != customerUser.ID {
			t.Errorf("customer not preloaded: %+v", job.Customer)
		}
		if job.Technician == nil || job.Technician.UserID != technicianUser.ID {
			t.Errorf("technician not preloaded: %+v", job.Technician)
		}
	})

	t.Run("filter by technician", func(t *testing.T) {
		list, err := jobs.List(ctx, domain.JobFilter{TechnicianID: technician.ID})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(list) != 1 || list[0].ID != assigned.ID {
			t.Errorf("filtered list = %v", list)
		}
	})

	t.Run("filter by status", func(t *testing.T) {
		list, err := jobs.List(ctx, domain.JobFilter{Status: domain.JobStatusRequestReceived})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(list) != 1 || list[0].Status != domain.JobStatusRequestReceived {
			t.Errorf("filtered list = %v", list)
		}
	})

	t.Run("unknown job", func(t *testing.T) {
		if _, err := jobs.FindByID(ctx, "missing"); !errors.Is(err, domain.ErrJobNotFound) {
			t.Errorf("FindByID(missing) error = %v, want ErrJobNotFound", err)
		}
	})
}

func TestAdminRepository_DeleteUserCascade(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	users := NewUserRepository(db)
	customers := NewCustomerRepository(db)
	sessions := NewSessionRepository(db)
	otps := NewOtpRepository(db)
	jobs := NewJobRepository(db)
	admin := NewAdminRepository(db)

	user := &domain.User{Phone: "+972501234567", Role: domain.RoleCustomer}
	if err := users.Create(ctx, user); err != nil {
		t.Fatal(err)
	}
	bystander := &domain.User{Phone: "+972509999999"}
	if err := users.Create(ctx, bystander); err != nil {
		t.Fatal(err)
	}

	customer := &domain.Customer{UserID: user.ID, Name: "Dana", Address: "Herzl 10"}
	if err := customers.Create(ctx, customer); err != nil {
		t.Fatal(err)
	}
	if err := sessions.Create(ctx, &domain.Session{UserID: user.ID, Token: "token-1", ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
		t.Fatal(err)
	}
	if err := otps.Create(ctx, &domain.OtpCode{Phone: user.Phone, CodeHash: "h", ExpiresAt: time.Now().Add(time.Minute)}); err != nil {
		t.Fatal(err)
	}
	if err := jobs.Create(ctx, &domain.Job{CustomerID: customer.ID, Description: "fix", Status: domain.JobStatusRequestReceived}); err != nil {
		t.Fatal(err)
	}

	if err := admin.DeleteUserCascade(ctx, user.ID); err != nil {
		t.Fatalf("DeleteUserCascade() error = %v", err)
	}

	counts := map[string]int64{}
	for name, model := range map[string]any{
		"users":     &DBUser{},
		"customers": &DBCustomer{},
		"sessions":  &DBSession{},
		"otp_codes": &DBOtpCode{},
		"jobs":      &DBJob{},
	} {
		var n int64
		db.Model(model).Count(&n)
		counts[name] = n
	}

	if counts["users"] != 1 {
		t.Errorf("users remaining = %d, want only the bystander", counts["users"])
	}
	for _, table := range []string{"customers", "sessions", "otp_codes", "jobs"} {
		if counts[table] != 0 {
			t.Errorf("%s remaining = %d, want 0", table, counts[table])
		}
	}

	if _, err := users.FindByID(ctx, bystander.ID); err != nil {
		t.Errorf("bystander was deleted: %v", err)
	}

	if err := admin.DeleteUserCascade(ctx, "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("DeleteUserCascade(missing) error = %v, want ErrUserNotFound", err)
	}
}

func TestAdminRepository_DeleteUserCascade_TechnicianUnassignsJobs(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	users := NewUserRepository(db)
	customers := NewCustomerRepository(db)
	technicians := NewTechnicianRepository(db)
	jobs := NewJobRepository(db)
	admin := NewAdminRepository(db)

	customerUser := &domain.User{Phone: "+972501111111", Role: domain.RoleCustomer}
	if err := users.Create(ctx, customerUser); err != nil {
		t.Fatal(err)
	}
	technicianUser := &domain.User{Phone: "+972502222222", Role: domain.RoleTechnician}
	if err := users.Create(ctx, technicianUser); err != nil {
		t.Fatal(err)
	}

	customer := &domain.Customer{UserID: customerUser.ID, Name: "Dana", Address: "Herzl 10"}
	if err := customers.Create(ctx, customer); err != nil {
		t.Fatal(err)
	}
	technician := &domain.Technician{UserID: technicianUser.ID, Name: "Yossi"}
	if err := technicians.Create(ctx, technician); err != nil {
		t.Fatal(err)
	}

	job := &domain.Job{
		CustomerID:   customer.ID,
		TechnicianID: technician.ID,
		Description:  "fix",
		Status:       domain.JobStatusScheduled,
	}
	if err := jobs.Create(ctx, job); err != nil {
		t.Fatal(err)
	}

	if err := admin.DeleteUserCascade(ctx, technicianUser.ID); err != nil {
		t.Fatalf("DeleteUserCascade() error = %v", err)
	}

	if _, err := technicians.FindByID(ctx, technician.ID); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Errorf("technician profile still readable, err = %v", err)
	}

	// The customer's job survives with the technician cleared.
	got, err := jobs.FindByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("FindByID() after cascade error = %v", err)
	}
	if got.TechnicianID != "" {
		t.Errorf("job still references deleted technician %q", got.TechnicianID)
	}
	if got.CustomerID != customer.ID {
		t.Errorf("job customer = %q, want %q", got.CustomerID, customer.ID)
	}
}
