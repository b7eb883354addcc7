package auth

import (
	"github.com/coldbrew-labs/franchise-inventory/internal/domain"
)

// Action names the operations the policy recognizes.
type Action string

const (
	CatalogRead            Action = "catalog.read"
	CatalogWrite           Action = "catalog.write"
	LedgerRead             Action = "ledger.read"
	LedgerWriteSupply      Action = "ledger.write_supply"
	LedgerWriteSnapshot    Action = "ledger.write_snapshot_direct"
	LedgerSubmitSnapshot   Action = "ledger.write_snapshot_via_submission"
	SubmissionReview       Action = "submission.review"
	OrderManage            Action = "order.manage"
	TenantManage           Action = "tenant.manage"
)

// minRole maps each action to the weakest role allowed to perform it within
// its own company. Tenant management is handled separately: it belongs to
// super-admins only, regardless of the target company.
var minRole = map[Action]domain.Role{
	CatalogRead:          domain.RoleEmployee,
	CatalogWrite:         domain.RoleManager,
	LedgerRead:           domain.RoleEmployee,
	LedgerWriteSupply:    domain.RoleAdmin,
	LedgerWriteSnapshot:  domain.RoleAdmin,
	LedgerSubmitSnapshot: domain.RoleEmployee,
	SubmissionReview:     domain.RoleManager,
	OrderManage:          domain.RoleManager,
}

var roleRank = map[domain.Role]int{
	domain.RoleEmployee: 1,
	domain.RoleManager:  2,
	domain.RoleAdmin:    3,
}

// Authorize decides whether actor may perform action against the given
// tenant. Super-admins (admins of the system tenant) pass every check;
// everyone else is confined to their own company and their role's actions.
// A denial is returned as ErrForbidden so callers can surface it verbatim.
func Authorize(actor domain.Actor, action Action, companyID int64) error {
	if actor.IsSuperAdmin() {
		return nil
	}

	if action == TenantManage {
		return &domain.ForbiddenError{UserID: actor.UserID, Action: string(action), CompanyID: companyID}
	}

	if actor.CompanyID != companyID {
		return &domain.ForbiddenError{UserID: actor.UserID, Action: string(action), CompanyID: companyID}
	}

	need, ok := minRole[action]
	if !ok || roleRank[actor.Role] < roleRank[need] {
		return &domain.ForbiddenError{UserID: actor.UserID, Action: string(action), CompanyID: companyID}
	}

	return nil
}
