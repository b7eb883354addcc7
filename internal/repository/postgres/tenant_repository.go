package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/coldbrew-labs/franchise-inventory/internal/domain"
	"github.com/jmoiron/sqlx"
)

type tenantRepository struct {
	db *DB
}

func NewTenantRepository(db *DB) *tenantRepository {
	return &tenantRepository{db: db}
}

func (r *tenantRepository) CreateCompany(ctx context.Context, name string, status domain.SubscriptionStatus) (*domain.Company, error) {
	query := `
		INSERT INTO companies (name, subscription_status)
		VALUES ($1, $2)
		RETURNING id, name, subscription_status, subscription_ends_at, created_at
	`

	var company domain.Company
	if err := r.db.GetContext(ctx, &company, query, name, status); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", mapError(err))
	}

	return &company, nil
}

func (r *tenantRepository) GetCompany(ctx context.Context, id int64) (*domain.Company, error) {
	query := `
		SELECT id, name, subscription_status, subscription_ends_at, created_at
		FROM companies
		WHERE id = $1
	`

	var company domain.Company
	if err := r.db.GetContext(ctx, &company, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "company", ID: id}
		}
		return nil, fmt.Errorf("failed to get company: %w", mapError(err))
	}

	return &company, nil
}

func (r *tenantRepository) ListCompanies(ctx context.Context) ([]*domain.Company, error) {
	query := `
		SELECT id, name, subscription_status, subscription_ends_at, created_at
		FROM companies
		ORDER BY id
	`

	var companies []*domain.Company
	if err := r.db.SelectContext(ctx, &companies, query); err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", mapError(err))
	}

	return companies, nil
}

func (r *tenantRepository) ListActiveCompanies(ctx context.Context) ([]*domain.Company, error) {
	query := `
		SELECT id, name, subscription_status, subscription_ends_at, created_at
		FROM companies
		WHERE subscription_status IN ('trial', 'active')
		ORDER BY id
	`

	var companies []*domain.Company
	if err := r.db.SelectContext(ctx, &companies, query); err != nil {
		return nil, fmt.Errorf("failed to list active companies: %w", mapError(err))
	}

	return companies, nil
}

func (r *tenantRepository) UpdateSubscription(ctx context.Context, id int64, status domain.SubscriptionStatus, endsAt *time.Time) error {
	query := `
		UPDATE companies
		SET subscription_status = $2, subscription_ends_at = $3
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, id, status, endsAt)
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", mapError(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.NotFoundError{Entity: "company", ID: id}
	}

	return nil
}

// DeleteCompany cascades across every tenant-owned table through the schema's
// foreign keys. The system tenant is protected at this layer as well as in
// the service.
func (r *tenantRepository) DeleteCompany(ctx context.Context, id int64) error {
	if id == domain.SystemCompanyID {
		return fmt.Errorf("%w: the system tenant cannot be deleted", domain.ErrForbidden)
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete company: %w", mapError(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.NotFoundError{Entity: "company", ID: id}
	}

	return nil
}

func (r *tenantRepository) CloneCatalogFromSystem(ctx context.Context, companyID int64) (int, error) {
	var cloned int
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO products (company_id, name_internal, name_russian, name_chinese,
			                      package_weight, units_per_box, box_weight, price_per_box, unit)
			SELECT $1, name_internal, name_russian, name_chinese,
			       package_weight, units_per_box, box_weight, price_per_box, unit
			FROM products
			WHERE company_id = $2
			ON CONFLICT (company_id, name_internal) DO NOTHING
		`

		res, err := tx.ExecContext(ctx, query, companyID, domain.SystemCompanyID)
		if err != nil {
			return fmt.Errorf("failed to clone catalog: %w", mapError(err))
		}

		n, _ := res.RowsAffected()
		cloned = int(n)
		return nil
	})

	return cloned, err
}

func (r *tenantRepository) EnsureUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (id, company_id, username, first_name, last_name, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			last_seen = CURRENT_TIMESTAMP
		RETURNING id, company_id, username, first_name, last_name, role, is_active, created_at, last_seen
	`

	role := user.Role
	if !role.Valid() {
		role = domain.RoleEmployee
	}

	var out domain.User
	if err := r.db.GetContext(ctx, &out, query,
		user.ID, user.CompanyID, user.Username, user.FirstName, user.LastName, role); err != nil {
		return nil, fmt.Errorf("failed to ensure user: %w", mapError(err))
	}

	return &out, nil
}

func (r *tenantRepository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	query := `
		SELECT id, company_id, username, first_name, last_name, role, is_active, created_at, last_seen
		FROM users
		WHERE id = $1
	`

	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "user", ID: id}
		}
		return nil, fmt.Errorf("failed to get user: %w", mapError(err))
	}

	return &user, nil
}

func (r *tenantRepository) UsersByCompany(ctx context.Context, companyID int64) ([]*domain.User, error) {
	query := `
		SELECT id, company_id, username, first_name, last_name, role, is_active, created_at, last_seen
		FROM users
		WHERE company_id = $1
		ORDER BY first_name, id
	`

	var users []*domain.User
	if err := r.db.SelectContext(ctx, &users, query, companyID); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", mapError(err))
	}

	return users, nil
}

func (r *tenantRepository) AdminIDs(ctx context.Context, companyID int64) ([]int64, error) {
	query := `
		SELECT id FROM users
		WHERE company_id = $1 AND role = 'admin' AND is_active
	`

	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, companyID); err != nil {
		return nil, fmt.Errorf("failed to list admin ids: %w", mapError(err))
	}

	return ids, nil
}

func (r *tenantRepository) ActiveUserIDs(ctx context.Context, companyID int64) ([]int64, error) {
	query := `
		SELECT id FROM users
		WHERE company_id = $1 AND is_active
	`

	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, companyID); err != nil {
		return nil, fmt.Errorf("failed to list active user ids: %w", mapError(err))
	}

	return ids, nil
}

// AssignUserToCompany binds an unbound user. Re-binding to a different
// company is a conflict: the predicate only matches users with no company or
// the same company.
func (r *tenantRepository) AssignUserToCompany(ctx context.Context, userID, companyID int64, role domain.Role) error {
	query := `
		UPDATE users
		SET company_id = $2, role = $3
		WHERE id = $1 AND (company_id IS NULL OR company_id = $2)
	`

	res, err := r.db.ExecContext(ctx, query, userID, companyID, role)
	if err != nil {
		return fmt.Errorf("failed to assign user: %w", mapError(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetUser(ctx, userID); err != nil {
			return err
		}
		return fmt.Errorf("%w: user %d already belongs to another company", domain.ErrConflict, userID)
	}

	return nil
}

func (r *tenantRepository) SetUserRole(ctx context.Context, companyID, userID int64, role domain.Role) error {
	query := `
		UPDATE users
		SET role = $3
		WHERE id = $1 AND company_id = $2
	`

	res, err := r.db.ExecContext(ctx, query, userID, companyID, role)
	if err != nil {
		return fmt.Errorf("failed to set user role: %w", mapError(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.NotFoundError{Entity: "user", ID: userID}
	}

	return nil
}
