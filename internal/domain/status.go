package domain

import "strings"

// SubscriptionStatus is a company's billing state.
type SubscriptionStatus string

const (
	SubscriptionTrial     SubscriptionStatus = "trial"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionExpired   SubscriptionStatus = "expired"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

func (s SubscriptionStatus) Valid() bool {
	switch s {
	case SubscriptionTrial, SubscriptionActive, SubscriptionExpired, SubscriptionCancelled:
		return true
	}
	return false
}

// ParseSubscriptionStatus is case-insensitive.
func ParseSubscriptionStatus(s string) (SubscriptionStatus, bool) {
	status := SubscriptionStatus(strings.ToLower(s))
	return status, status.Valid()
}

// Role is a user's role within their company.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleAdmin:
		return true
	}
	return false
}

func ParseRole(s string) (Role, bool) {
	role := Role(strings.ToLower(s))
	return role, role.Valid()
}

// Unit is the measurement unit a product is counted in. The names are kept in
// Russian because they are the stored representation and appear verbatim in
// every tenant's catalog.
type Unit string

const (
	UnitKilogram   Unit = "кг"
	UnitPiece      Unit = "шт"
	UnitLiter      Unit = "л"
	UnitMilliliter Unit = "мл"
	UnitGram       Unit = "г"
)

func (u Unit) Valid() bool {
	switch u {
	case UnitKilogram, UnitPiece, UnitLiter, UnitMilliliter, UnitGram:
		return true
	}
	return false
}

func ParseUnit(s string) (Unit, bool) {
	unit := Unit(strings.TrimSpace(s))
	return unit, unit.Valid()
}

// OrderStatus tracks a pending order through its lifecycle.
// pending -> completed | cancelled; terminal states are final.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

func (s OrderStatus) Terminal() bool { return s != OrderPending }

// SubmissionStatus tracks an employee stock submission through moderation.
// pending -> approved | rejected; terminal states are final.
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRejected SubmissionStatus = "rejected"
)

func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionPending, SubmissionApproved, SubmissionRejected:
		return true
	}
	return false
}

func (s SubmissionStatus) Terminal() bool { return s != SubmissionPending }
