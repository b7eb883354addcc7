package service

import (
	"context"
	"fmt"
	"time"

	"github.com/coldbrew-labs/franchise-inventory/internal/auth"
	"github.com/coldbrew-labs/franchise-inventory/internal/domain"
	"github.com/coldbrew-labs/franchise-inventory/internal/repository"
)

// TenantService manages companies, subscriptions and user bindings.
type TenantService struct {
	repo repository.TenantRepository
}

func NewTenantService(repo repository.TenantRepository) *TenantService {
	return &TenantService{repo: repo}
}

func (s *TenantService) CreateCompany(ctx context.Context, actor domain.Actor, name string) (*domain.Company, error) {
	if err := auth.Authorize(actor, auth.TenantManage, domain.SystemCompanyID); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	return s.repo.CreateCompany(ctx, name, domain.SubscriptionTrial)
}

func (s *TenantService) GetCompany(ctx context.Context, actor domain.Actor, companyID int64) (*domain.Company, error) {
	if !actor.IsSuperAdmin() && actor.CompanyID != companyID {
		return nil, &domain.ForbiddenError{UserID: actor.UserID, Action: "company.read", CompanyID: companyID}
	}
	return s.repo.GetCompany(ctx, companyID)
}

func (s *TenantService) ListCompanies(ctx context.Context, actor domain.Actor) ([]*domain.Company, error) {
	if err := auth.Authorize(actor, auth.TenantManage, domain.SystemCompanyID); err != nil {
		return nil, err
	}
	return s.repo.ListCompanies(ctx)
}

func (s *TenantService) UpdateSubscription(ctx context.Context, actor domain.Actor, companyID int64, status domain.SubscriptionStatus, endsAt *time.Time) error {
	if err := auth.Authorize(actor, auth.TenantManage, companyID); err != nil {
		return err
	}
	if !status.Valid() {
		return &domain.ValidationError{Field: "subscription_status", Reason: fmt.Sprintf("unknown status %q", status)}
	}

	return s.repo.UpdateSubscription(ctx, companyID, status, endsAt)
}

func (s *TenantService) DeleteCompany(ctx context.Context, actor domain.Actor, companyID int64) error {
	if err := auth.Authorize(actor, auth.TenantManage, companyID); err != nil {
		return err
	}
	if companyID == domain.SystemCompanyID {
		return fmt.Errorf("%w: the system tenant cannot be deleted", domain.ErrForbidden)
	}

	return s.repo.DeleteCompany(ctx, companyID)
}

// CloneCatalogFromSystem seeds a fresh tenant with the template catalog.
func (s *TenantService) CloneCatalogFromSystem(ctx context.Context, actor domain.Actor, companyID int64) (int, error) {
	if err := auth.Authorize(actor, auth.TenantManage, companyID); err != nil {
		return 0, err
	}
	if _, err := s.repo.GetCompany(ctx, companyID); err != nil {
		return 0, err
	}

	return s.repo.CloneCatalogFromSystem(ctx, companyID)
}

// EnsureUser registers or refreshes a user on first contact. Identity is
// established by the surrounding surface; the core only records it.
func (s *TenantService) EnsureUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user.ID == 0 {
		return nil, &domain.ValidationError{Field: "user_id", Reason: "must not be zero"}
	}
	return s.repo.EnsureUser(ctx, user)
}

func (s *TenantService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *TenantService) UsersByCompany(ctx context.Context, actor domain.Actor, companyID int64) ([]*domain.User, error) {
	if !actor.IsSuperAdmin() && actor.CompanyID != companyID {
		return nil, &domain.ForbiddenError{UserID: actor.UserID, Action: "users.read", CompanyID: companyID}
	}
	return s.repo.UsersByCompany(ctx, companyID)
}

// AssignUserToCompany binds a user to a tenant. Only a same-company admin or
// a super-admin may invite; re-binding an already bound user is a conflict.
func (s *TenantService) AssignUserToCompany(ctx context.Context, actor domain.Actor, userID, companyID int64, role domain.Role) error {
	if !actor.IsSuperAdmin() && !(actor.Role == domain.RoleAdmin && actor.CompanyID == companyID) {
		return &domain.ForbiddenError{UserID: actor.UserID, Action: "users.assign", CompanyID: companyID}
	}
	if !role.Valid() {
		return &domain.ValidationError{Field: "role", Reason: fmt.Sprintf("unknown role %q", role)}
	}

	return s.repo.AssignUserToCompany(ctx, userID, companyID, role)
}

// SetUserRole changes a user's role. Admin of the same company only.
func (s *TenantService) SetUserRole(ctx context.Context, actor domain.Actor, companyID, userID int64, role domain.Role) error {
	if !actor.IsSuperAdmin() && !(actor.Role == domain.RoleAdmin && actor.CompanyID == companyID) {
		return &domain.ForbiddenError{UserID: actor.UserID, Action: "users.set_role", CompanyID: companyID}
	}
	if !role.Valid() {
		return &domain.ValidationError{Field: "role", Reason: fmt.Sprintf("unknown role %q", role)}
	}

	return s.repo.SetUserRole(ctx, companyID, userID, role)
}

// Resolve builds the Actor for a user id, the identity handoff between the
// surfaces and the core.
func (s *TenantService) Resolve(ctx context.Context, userID int64) (domain.Actor, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return domain.Actor{}, err
	}
	if !user.IsActive {
		return domain.Actor{}, &domain.ForbiddenError{UserID: userID, Action: "resolve", CompanyID: 0}
	}

	actor := domain.Actor{UserID: user.ID, Role: user.Role}
	if user.CompanyID != nil {
		actor.CompanyID = *user.CompanyID
	}
	return actor, nil
}
