package repository

import (
	"context"
	"time"

	"github.com/coldbrew-labs/franchise-inventory/internal/domain"
)

// TenantRepository owns company and user persistence.
type TenantRepository interface {
	CreateCompany(ctx context.Context, name string, status domain.SubscriptionStatus) (*domain.Company, error)
	GetCompany(ctx context.Context, id int64) (*domain.Company, error)
	ListCompanies(ctx context.Context) ([]*domain.Company, error)
	ListActiveCompanies(ctx context.Context) ([]*domain.Company, error)
	UpdateSubscription(ctx context.Context, id int64, status domain.SubscriptionStatus, endsAt *time.Time) error
	DeleteCompany(ctx context.Context, id int64) error

	// CloneCatalogFromSystem copies the system tenant's product catalog into
	// the given company and returns the number of products created.
	CloneCatalogFromSystem(ctx context.Context, companyID int64) (int, error)

	// EnsureUser inserts the user on first contact or refreshes
	// username/name/last_seen on subsequent ones. The company binding and
	// role of an existing user are never touched here.
	EnsureUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	UsersByCompany(ctx context.Context, companyID int64) ([]*domain.User, error)
	AdminIDs(ctx context.Context, companyID int64) ([]int64, error)
	ActiveUserIDs(ctx context.Context, companyID int64) ([]int64, error)
	AssignUserToCompany(ctx context.Context, userID, companyID int64, role domain.Role) error
	SetUserRole(ctx context.Context, companyID, userID int64, role domain.Role) error
}
