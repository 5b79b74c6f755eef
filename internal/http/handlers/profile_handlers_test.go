package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klap2026/klap/domain"
	"github.com/klap2026/klap/internal/http/middleware"
	"github.com/klap2026/klap/internal/mocks"
	"github.com/klap2026/klap/internal/services"
)

func profileRouter(customerRepo *mocks.MockCustomerRepository, technicianRepo *mocks.MockTechnicianRepository, identity string) *gin.Engine {
	h := NewProfileHandlers(services.NewProfileService(customerRepo, technicianRepo))
	r := gin.New()
	if identity != "" {
		r.Use(func(c *gin.Context) { c.Set(middleware.CtxUserID, identity) })
	}
	r.GET("/api/customers", h.GetCustomer)
	r.POST("/api/customers", h.CreateCustomer)
	r.PUT("/api/customers", h.UpdateCustomer)
	r.GET("/api/technicians", h.GetTechnician)
	r.POST("/api/technicians", h.CreateTechnician)
	return r
}

func TestGetCustomer_AbsentProfileIsNull(t *testing.T) {
	r := profileRouter(mocks.NewMockCustomerRepository(), mocks.NewMockTechnicianRepository(), "user-1")

	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, "missing profile is an onboarding state, not an error")
	body := decode(t, w)
	val, present := body["customer"]
	assert.True(t, present)
	assert.Nil(t, val)
}

func TestCreateCustomer_Validation(t *testing.T) {
	r := profileRouter(mocks.NewMockCustomerRepository(), mocks.NewMockTechnicianRepository(), "user-1")

	for name, body := range map[string]string{
		"missing name":    `{"address":"Herzl 10"}`,
		"missing address": `{"name":"Dana"}`,
		"empty name":      `{"name":"","address":"Herzl 10"}`,
	} {
		t.Run(name, func(t *testing.T) {
			w := postJSON(r, "/api/customers", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	w := postJSON(r, "/api/customers", `{"name":"Dana","address":"Herzl 10","lat":32.08,"lng":34.78}`)
	require.Equal(t, http.StatusOK, w.Code)
	customer := decode(t, w)["customer"].(map[string]any)
	assert.Equal(t, "Dana", customer["name"])
	assert.Equal(t, "user-1", customer["userId"])
	assert.InDelta(t, 32.08, customer["lat"], 0.001)
}

func TestCreateTechnician_Validation(t *testing.T) {
	r := profileRouter(mocks.NewMockCustomerRepository(), mocks.NewMockTechnicianRepository(), "user-1")

	w := postJSON(r, "/api/technicians", `{"name":"Avi"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, "specializations and working hours are required")

	w = postJSON(r, "/api/technicians",
		`{"name":"Avi","specializations":["plumbing","electrical"],"workingHours":"{\"sun\":\"8-17\"}"}`)
	require.Equal(t, http.StatusOK, w.Code)
	technician := decode(t, w)["technician"].(map[string]any)
	assert.Len(t, technician["specializations"], 2)
}

func TestUpdateCustomer_PartialUpdate(t *testing.T) {
	customerRepo := mocks.NewMockCustomerRepository()
	customerRepo.FindByUserFunc = func(ctx context.Context, userID string) (*domain.Customer, error) {
		return &domain.Customer{ID: "customer-1", UserID: userID, Name: "Dana", Address: "Herzl 10"}, nil
	}
	var updated *domain.Customer
	customerRepo.UpdateFunc = func(ctx context.Context, customer *domain.Customer) error {
		updated = customer
		return nil
	}
	r := profileRouter(customerRepo, mocks.NewMockTechnicianRepository(), "user-1")

	req := httptest.NewRequest(http.MethodPut, "/api/customers", strings.NewReader(`{"address":"Allenby 5"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, updated)
	assert.Equal(t, "Allenby 5", updated.Address)
	assert.Equal(t, "Dana", updated.Name, "omitted fields stay untouched")
}

func TestProfileHandlers_RequireIdentity(t *testing.T) {
	r := profileRouter(mocks.NewMockCustomerRepository(), mocks.NewMockTechnicianRepository(), "")

	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
