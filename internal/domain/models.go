package domain

import "time"

// Company is the tenant root. Company 1 is the system tenant: its catalog is
// the template cloned into new tenants and its admins are platform
// super-admins.
const SystemCompanyID int64 = 1

type Company struct {
	ID                 int64              `json:"id" db:"id"`
	Name               string             `json:"name" db:"name"`
	SubscriptionStatus SubscriptionStatus `json:"subscription_status" db:"subscription_status"`
	SubscriptionEndsAt *time.Time         `json:"subscription_ends_at,omitempty" db:"subscription_ends_at"`
	CreatedAt          time.Time          `json:"created_at" db:"created_at"`
}

// User is a person authorized to act for a company. The id is the Telegram
// user id, assigned externally. CompanyID is nil only before first assignment.
type User struct {
	ID        int64      `json:"id" db:"id"`
	CompanyID *int64     `json:"company_id,omitempty" db:"company_id"`
	Username  string     `json:"username" db:"username"`
	FirstName string     `json:"first_name" db:"first_name"`
	LastName  string     `json:"last_name" db:"last_name"`
	Role      Role       `json:"role" db:"role"`
	IsActive  bool       `json:"is_active" db:"is_active"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	LastSeen  time.Time  `json:"last_seen" db:"last_seen"`
}

// Product is a purchasable SKU scoped to a company.
// BoxWeight is stored but always derived as PackageWeight * UnitsPerBox.
type Product struct {
	ID            int64     `json:"id" db:"id"`
	CompanyID     int64     `json:"company_id" db:"company_id"`
	NameInternal  string    `json:"name_internal" db:"name_internal"`
	NameRussian   string    `json:"name_russian" db:"name_russian"`
	NameChinese   string    `json:"name_chinese" db:"name_chinese"`
	PackageWeight float64   `json:"package_weight" db:"package_weight"`
	UnitsPerBox   int       `json:"units_per_box" db:"units_per_box"`
	BoxWeight     float64   `json:"box_weight" db:"box_weight"`
	PricePerBox   float64   `json:"price_per_box" db:"price_per_box"`
	Unit          Unit      `json:"unit" db:"unit"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// SupplyWeight converts a box count into the product's weight figure:
// kilograms for weight units, pieces for шт.
func (p Product) SupplyWeight(boxes int) float64 {
	if p.Unit == UnitPiece {
		return float64(boxes * p.UnitsPerBox)
	}
	return float64(boxes) * p.BoxWeight
}

// SnapshotWeight converts a package count into the product's weight figure.
func (p Product) SnapshotWeight(quantity float64) float64 {
	return quantity * p.PackageWeight
}

// StockSnapshot is the measured on-hand quantity for one product at the end
// of a working day. (CompanyID, ProductID, Date) is unique; writes upsert.
type StockSnapshot struct {
	ID        int64     `json:"id" db:"id"`
	CompanyID int64     `json:"company_id" db:"company_id"`
	ProductID int64     `json:"product_id" db:"product_id"`
	Date      DateKey   `json:"date" db:"date"`
	Quantity  float64   `json:"quantity" db:"quantity"`
	Weight    float64   `json:"weight" db:"weight"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SupplyEvent is an inbound shipment. Append-only; multiple rows per
// (product, date) are allowed.
type SupplyEvent struct {
	ID        int64     `json:"id" db:"id"`
	CompanyID int64     `json:"company_id" db:"company_id"`
	ProductID int64     `json:"product_id" db:"product_id"`
	Date      DateKey   `json:"date" db:"date"`
	Boxes     int       `json:"boxes" db:"boxes"`
	Weight    float64   `json:"weight" db:"weight"`
	Cost      float64   `json:"cost" db:"cost"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PendingOrder is a committed but not-yet-received purchase.
type PendingOrder struct {
	ID        int64       `json:"id" db:"id"`
	CompanyID int64       `json:"company_id" db:"company_id"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	Status    OrderStatus `json:"status" db:"status"`
	TotalCost float64     `json:"total_cost" db:"total_cost"`
	Notes     string      `json:"notes" db:"notes"`
}

type PendingOrderItem struct {
	ID            int64   `json:"id" db:"id"`
	OrderID       int64   `json:"order_id" db:"order_id"`
	ProductID     int64   `json:"product_id" db:"product_id"`
	BoxesOrdered  int     `json:"boxes_ordered" db:"boxes_ordered"`
	WeightOrdered float64 `json:"weight_ordered" db:"weight_ordered"`
	Cost          float64 `json:"cost" db:"cost"`
}

// OrderItemInput is a caller-supplied order line.
type OrderItemInput struct {
	ProductID     int64   `json:"product_id"`
	BoxesOrdered  int     `json:"boxes_ordered"`
	WeightOrdered float64 `json:"weight_ordered"`
	Cost          float64 `json:"cost"`
}

// StockSubmission is an employee-proposed snapshot set awaiting admin review.
type StockSubmission struct {
	ID              int64            `json:"id" db:"id"`
	CompanyID       int64            `json:"company_id" db:"company_id"`
	SubmittedBy     int64            `json:"submitted_by" db:"submitted_by"`
	SubmissionDate  DateKey          `json:"submission_date" db:"submission_date"`
	Status          SubmissionStatus `json:"status" db:"status"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
	ReviewedAt      *time.Time       `json:"reviewed_at,omitempty" db:"reviewed_at"`
	ReviewedBy      *int64           `json:"reviewed_by,omitempty" db:"reviewed_by"`
	RejectionReason *string          `json:"rejection_reason,omitempty" db:"rejection_reason"`
	ItemsCount      int              `json:"items_count" db:"items_count"`
}

// SubmissionItem holds the submitted values plus the optional admin override.
// The override wins on approval.
type SubmissionItem struct {
	ID             int64    `json:"id" db:"id"`
	SubmissionID   int64    `json:"submission_id" db:"submission_id"`
	ProductID      int64    `json:"product_id" db:"product_id"`
	Quantity       float64  `json:"quantity" db:"quantity"`
	Weight         float64  `json:"weight" db:"weight"`
	EditedQuantity *float64 `json:"edited_quantity,omitempty" db:"edited_quantity"`
	EditedWeight   *float64 `json:"edited_weight,omitempty" db:"edited_weight"`
}

// EffectiveQuantity returns the admin override if set, the submitted value
// otherwise.
func (i SubmissionItem) EffectiveQuantity() float64 {
	if i.EditedQuantity != nil {
		return *i.EditedQuantity
	}
	return i.Quantity
}

func (i SubmissionItem) EffectiveWeight() float64 {
	if i.EditedWeight != nil {
		return *i.EditedWeight
	}
	return i.Weight
}

// SubmissionItemInput is a caller-supplied submission line. Weight is derived
// from the product's packaging, never trusted from the caller.
type SubmissionItemInput struct {
	ProductID int64   `json:"product_id"`
	Quantity  float64 `json:"quantity"`
}

// Actor is the identity the core authorizes against. It is supplied by the
// surrounding surface (bot, HTTP); the core never authenticates.
type Actor struct {
	UserID    int64
	CompanyID int64
	Role      Role
}

// IsSuperAdmin reports whether the actor is an admin of the system tenant.
func (a Actor) IsSuperAdmin() bool {
	return a.Role == RoleAdmin && a.CompanyID == SystemCompanyID
}
