package mocks

import (
	"strings"

	"github.com/klap2026/klap/domain"
)

// MockPolicyService implements domain.PolicyService for testing. Its
// default behavior mirrors the seeded route policies so gateway tests
// can run without a database-backed enforcer.
type MockPolicyService struct {
	AllowedFunc   func(role, path, method string) (bool, error)
	RoleGatedFunc func(path, method string) (bool, error)
	AddPolicyFunc func(role, path, method string) error
}

var defaultPolicies = map[string][]string{
	domain.RoleTechnician: {"/dashboard", "/schedule", "/jobs", "/customers", "/settings"},
	domain.RoleCustomer:   {"/home", "/book", "/history"},
}

func NewMockPolicyService() *MockPolicyService {
	return &MockPolicyService{}
}

func (m *MockPolicyService) Allowed(role, path, method string) (bool, error) {
	if m.AllowedFunc != nil {
		return m.AllowedFunc(role, path, method)
	}
	role = strings.TrimPrefix(role, "role_")
	for _, prefix := range defaultPolicies[role] {
		if strings.HasPrefix(path, prefix) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockPolicyService) RoleGated(path, method string) (bool, error) {
	if m.RoleGatedFunc != nil {
		return m.RoleGatedFunc(path, method)
	}
	for role := range defaultPolicies {
		ok, _ := m.Allowed(role, path, method)
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockPolicyService) AddPolicy(role, path, method string) error {
	if m.AddPolicyFunc != nil {
		return m.AddPolicyFunc(role, path, method)
	}
	return nil
}

var _ domain.PolicyService = (*MockPolicyService)(nil)
