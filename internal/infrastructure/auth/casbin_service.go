package auth

import (
	"github.com/casbin/casbin/v2"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"

	"github.com/klap2026/klap/domain"
)

// roles the gateway gates routes by, in casbin subject form.
var gatedRoles = []string{domain.RoleTechnician, domain.RoleCustomer}

// CasbinService implements domain.PolicyService over a casbin enforcer
// whose policies live in the database. Route ownership is declared as
// policies (role, path pattern, method pattern) instead of a hand
// maintained prefix map, so the gateway and the policy table cannot
// drift apart.
type CasbinService struct{ E *casbin.Enforcer }

// NewCasbinService builds an enforcer backed by the gorm adapter.
func NewCasbinService(db *gorm.DB, modelPath string) (*CasbinService, error) {
	adp, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewEnforcer(modelPath, adp)
	if err != nil {
		return nil, err
	}
	if err := e.LoadPolicy(); err != nil {
		return nil, err
	}
	return &CasbinService{E: e}, nil
}

// Allowed implements domain.PolicyService
func (s *CasbinService) Allowed(role, path, method string) (bool, error) {
	return s.E.Enforce("role_"+role, path, method)
}

// RoleGated implements domain.PolicyService: a path is role-gated when
// any gated role has a policy matching it.
func (s *CasbinService) RoleGated(path, method string) (bool, error) {
	for _, role := range gatedRoles {
		ok, err := s.Allowed(role, path, method)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// AddPolicy implements domain.PolicyService
func (s *CasbinService) AddPolicy(role, path, method string) error {
	if _, err := s.E.AddPolicy("role_"+role, path, method); err != nil {
		return err
	}
	return s.E.SavePolicy()
}
