package service

import (
	"context"
	"sort"
	"time"

	"github.com/coldbrew-labs/franchise-inventory/internal/domain"
	"github.com/coldbrew-labs/franchise-inventory/internal/repository"
)

// fakeStore is an in-memory implementation of every repository interface,
// faithful to the contracts the postgres implementations honor: guarded state
// flips return ErrConflict, duplicate pending submissions collide, approval
// promotes effective values into the stock ledger.
type fakeStore struct {
	companies       map[int64]*domain.Company
	users           map[int64]*domain.User
	products        map[int64]*domain.Product
	snapshots       []*domain.StockSnapshot
	supplies        []*domain.SupplyEvent
	orders          map[int64]*domain.PendingOrder
	orderItems      map[int64][]*domain.PendingOrderItem
	submissions     map[int64]*domain.StockSubmission
	submissionItems map[int64][]*domain.SubmissionItem
	nextID          int64
}

func newFakeStore() *fakeStore {
	s := &fakeStore{
		companies:       make(map[int64]*domain.Company),
		users:           make(map[int64]*domain.User),
		products:        make(map[int64]*domain.Product),
		orders:          make(map[int64]*domain.PendingOrder),
		orderItems:      make(map[int64][]*domain.PendingOrderItem),
		submissions:     make(map[int64]*domain.StockSubmission),
		submissionItems: make(map[int64][]*domain.SubmissionItem),
	}
	s.companies[domain.SystemCompanyID] = &domain.Company{
		ID: domain.SystemCompanyID, Name: "System", SubscriptionStatus: domain.SubscriptionActive,
	}
	s.nextID = 100
	return s
}

func (s *fakeStore) id() int64 {
	s.nextID++
	return s.nextID
}

// --- TenantRepository ---

func (s *fakeStore) CreateCompany(ctx context.Context, name string, status domain.SubscriptionStatus) (*domain.Company, error) {
	c := &domain.Company{ID: s.id(), Name: name, SubscriptionStatus: status, CreatedAt: time.Now()}
	s.companies[c.ID] = c
	return c, nil
}

func (s *fakeStore) GetCompany(ctx context.Context, id int64) (*domain.Company, error) {
	c, ok := s.companies[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "company", ID: id}
	}
	return c, nil
}

func (s *fakeStore) ListCompanies(ctx context.Context) ([]*domain.Company, error) {
	var out []*domain.Company
	for _, c := range s.companies {
		out = append(out, c)
	}
	return out, nil
}

func (s *fakeStore) ListActiveCompanies(ctx context.Context) ([]*domain.Company, error) {
	var out []*domain.Company
	for _, c := range s.companies {
		if c.SubscriptionStatus == domain.SubscriptionActive || c.SubscriptionStatus == domain.SubscriptionTrial {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeStore) UpdateSubscription(ctx context.Context, id int64, status domain.SubscriptionStatus, endsAt *time.Time) error {
	c, ok := s.companies[id]
	if !ok {
		return &domain.NotFoundError{Entity: "company", ID: id}
	}
	c.SubscriptionStatus = status
	c.SubscriptionEndsAt = endsAt
	return nil
}

func (s *fakeStore) DeleteCompany(ctx context.Context, id int64) error {
	if _, ok := s.companies[id]; !ok {
		return &domain.NotFoundError{Entity: "company", ID: id}
	}
	delete(s.companies, id)
	return nil
}

func (s *fakeStore) CloneCatalogFromSystem(ctx context.Context, companyID int64) (int, error) {
	count := 0
	for _, p := range s.products {
		if p.CompanyID != domain.SystemCompanyID {
			continue
		}
		clone := *p
		clone.ID = s.id()
		clone.CompanyID = companyID
		s.products[clone.ID] = &clone
		count++
	}
	return count, nil
}

func (s *fakeStore) EnsureUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	if existing, ok := s.users[user.ID]; ok {
		existing.Username = user.Username
		existing.FirstName = user.FirstName
		existing.LastName = user.LastName
		existing.LastSeen = time.Now()
		return existing, nil
	}
	u := *user
	u.Role = domain.RoleEmployee
	u.IsActive = true
	u.CreatedAt = time.Now()
	u.LastSeen = u.CreatedAt
	s.users[u.ID] = &u
	return &u, nil
}

func (s *fakeStore) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "user", ID: id}
	}
	return u, nil
}

func (s *fakeStore) UsersByCompany(ctx context.Context, companyID int64) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range s.users {
		if u.CompanyID != nil && *u.CompanyID == companyID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *fakeStore) AdminIDs(ctx context.Context, companyID int64) ([]int64, error) {
	var out []int64
	for _, u := range s.users {
		if u.CompanyID != nil && *u.CompanyID == companyID && u.Role == domain.RoleAdmin && u.IsActive {
			out = append(out, u.ID)
		}
	}
	return out, nil
}

func (s *fakeStore) ActiveUserIDs(ctx context.Context, companyID int64) ([]int64, error) {
	var out []int64
	for _, u := range s.users {
		if u.CompanyID != nil && *u.CompanyID == companyID && u.IsActive {
			out = append(out, u.ID)
		}
	}
	return out, nil
}

func (s *fakeStore) AssignUserToCompany(ctx context.Context, userID, companyID int64, role domain.Role) error {
	u, ok := s.users[userID]
	if !ok {
		return &domain.NotFoundError{Entity: "user", ID: userID}
	}
	if u.CompanyID != nil && *u.CompanyID != companyID {
		return domain.ErrConflict
	}
	u.CompanyID = &companyID
	u.Role = role
	return nil
}

func (s *fakeStore) SetUserRole(ctx context.Context, companyID, userID int64, role domain.Role) error {
	u, ok := s.users[userID]
	if !ok || u.CompanyID == nil || *u.CompanyID != companyID {
		return &domain.NotFoundError{Entity: "user", ID: userID}
	}
	u.Role = role
	return nil
}

// --- CatalogRepository ---

func (s *fakeStore) AddProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	for _, existing := range s.products {
		if existing.CompanyID == p.CompanyID && existing.NameInternal == p.NameInternal {
			return nil, domain.ErrConflict
		}
	}
	clone := *p
	clone.ID = s.id()
	clone.CreatedAt = time.Now()
	s.products[clone.ID] = &clone
	return &clone, nil
}

func (s *fakeStore) GetProduct(ctx context.Context, companyID, productID int64) (*domain.Product, error) {
	p, ok := s.products[productID]
	if !ok || p.CompanyID != companyID {
		return nil, &domain.NotFoundError{Entity: "product", ID: productID}
	}
	return p, nil
}

func (s *fakeStore) GetByInternalName(ctx context.Context, companyID int64, nameInternal string) (*domain.Product, error) {
	for _, p := range s.products {
		if p.CompanyID == companyID && p.NameInternal == nameInternal {
			return p, nil
		}
	}
	return nil, &domain.NotFoundError{Entity: "product", ID: nameInternal}
}

func (s *fakeStore) ListProducts(ctx context.Context, companyID int64) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range s.products {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- LedgerRepository ---

func (s *fakeStore) UpsertSnapshot(ctx context.Context, snap *domain.StockSnapshot) error {
	for _, existing := range s.snapshots {
		if existing.CompanyID == snap.CompanyID && existing.ProductID == snap.ProductID && existing.Date.Equal(snap.Date) {
			existing.Quantity = snap.Quantity
			existing.Weight = snap.Weight
			snap.ID = existing.ID
			return nil
		}
	}
	snap.ID = s.id()
	snap.CreatedAt = time.Now()
	clone := *snap
	s.snapshots = append(s.snapshots, &clone)
	return nil
}

func (s *fakeStore) InsertSupply(ctx context.Context, supply *domain.SupplyEvent) error {
	supply.ID = s.id()
	supply.CreatedAt = time.Now()
	clone := *supply
	s.supplies = append(s.supplies, &clone)
	return nil
}

func (s *fakeStore) LatestSnapshots(ctx context.Context, companyID int64) ([]*domain.StockSnapshot, error) {
	latest := make(map[int64]*domain.StockSnapshot)
	for _, snap := range s.snapshots {
		if snap.CompanyID != companyID {
			continue
		}
		if cur, ok := latest[snap.ProductID]; !ok || snap.Date.After(cur.Date) {
			latest[snap.ProductID] = snap
		}
	}
	var out []*domain.StockSnapshot
	for _, snap := range latest {
		out = append(out, snap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (s *fakeStore) SnapshotOn(ctx context.Context, companyID int64, date domain.DateKey) ([]*domain.StockSnapshot, error) {
	var out []*domain.StockSnapshot
	for _, snap := range s.snapshots {
		if snap.CompanyID == companyID && snap.Date.Equal(date) {
			out = append(out, snap)
		}
	}
	return out, nil
}

func (s *fakeStore) HasSnapshotOn(ctx context.Context, companyID int64, date domain.DateKey) (bool, error) {
	snaps, _ := s.SnapshotOn(ctx, companyID, date)
	return len(snaps) > 0, nil
}

func (s *fakeStore) History(ctx context.Context, companyID, productID int64, windowDays int) ([]domain.StockSnapshot, error) {
	var max domain.DateKey
	for _, snap := range s.snapshots {
		if snap.CompanyID == companyID && snap.ProductID == productID && snap.Date.After(max) {
			max = snap.Date
		}
	}
	if max.IsZero() {
		return nil, nil
	}
	cutoff := max.AddDays(-windowDays)
	var out []domain.StockSnapshot
	for _, snap := range s.snapshots {
		if snap.CompanyID == companyID && snap.ProductID == productID && !snap.Date.Before(cutoff) {
			out = append(out, *snap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *fakeStore) SuppliesBetween(ctx context.Context, companyID, productID int64, start, end domain.DateKey) ([]domain.SupplyEvent, error) {
	var out []domain.SupplyEvent
	for _, sup := range s.supplies {
		if sup.CompanyID != companyID {
			continue
		}
		if productID != 0 && sup.ProductID != productID {
			continue
		}
		if sup.Date.After(start) && !sup.Date.After(end) {
			out = append(out, *sup)
		}
	}
	return out, nil
}

func (s *fakeStore) SuppliesSince(ctx context.Context, companyID, productID int64, since domain.DateKey) ([]domain.SupplyEvent, error) {
	var out []domain.SupplyEvent
	for _, sup := range s.supplies {
		if sup.CompanyID == companyID && sup.ProductID == productID && !sup.Date.Before(since) {
			out = append(out, *sup)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *fakeStore) SnapshotBounds(ctx context.Context, companyID int64, start, end domain.DateKey) (domain.DateKey, domain.DateKey, bool, error) {
	var earliest, latest domain.DateKey
	found := false
	for _, snap := range s.snapshots {
		if snap.CompanyID != companyID || snap.Date.Before(start) || snap.Date.After(end) {
			continue
		}
		if !found || snap.Date.Before(earliest) {
			earliest = snap.Date
		}
		if !found || snap.Date.After(latest) {
			latest = snap.Date
		}
		found = true
	}
	return earliest, latest, found, nil
}

func (s *fakeStore) SnapshotDatesSummary(ctx context.Context, companyID int64) ([]repository.StockDateSummary, error) {
	byDate := make(map[domain.DateKey]*repository.StockDateSummary)
	for _, snap := range s.snapshots {
		if snap.CompanyID != companyID {
			continue
		}
		row, ok := byDate[snap.Date]
		if !ok {
			row = &repository.StockDateSummary{Date: snap.Date}
			byDate[snap.Date] = row
		}
		row.ProductCount++
		if p, ok := s.products[snap.ProductID]; ok && p.Unit != domain.UnitPiece {
			row.TotalWeight += snap.Weight
		}
	}
	var out []repository.StockDateSummary
	for _, row := range byDate {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// --- OrderRepository ---

func (s *fakeStore) CreateOrder(ctx context.Context, companyID int64, items []domain.OrderItemInput, notes string, totalCost float64) (*domain.PendingOrder, error) {
	order := &domain.PendingOrder{
		ID: s.id(), CompanyID: companyID, CreatedAt: time.Now(),
		Status: domain.OrderPending, TotalCost: totalCost, Notes: notes,
	}
	s.orders[order.ID] = order
	for _, in := range items {
		s.orderItems[order.ID] = append(s.orderItems[order.ID], &domain.PendingOrderItem{
			ID: s.id(), OrderID: order.ID, ProductID: in.ProductID,
			BoxesOrdered: in.BoxesOrdered, WeightOrdered: in.WeightOrdered, Cost: in.Cost,
		})
	}
	return order, nil
}

func (s *fakeStore) GetOrder(ctx context.Context, companyID, orderID int64) (*domain.PendingOrder, error) {
	order, ok := s.orders[orderID]
	if !ok || order.CompanyID != companyID {
		return nil, &domain.NotFoundError{Entity: "order", ID: orderID}
	}
	return order, nil
}

func (s *fakeStore) ListPending(ctx context.Context, companyID int64) ([]*domain.PendingOrder, error) {
	var out []*domain.PendingOrder
	for _, order := range s.orders {
		if order.CompanyID == companyID && order.Status == domain.OrderPending {
			out = append(out, order)
		}
	}
	return out, nil
}

func (s *fakeStore) OrderItems(ctx context.Context, companyID, orderID int64) ([]*domain.PendingOrderItem, error) {
	if _, err := s.GetOrder(ctx, companyID, orderID); err != nil {
		return nil, err
	}
	return s.orderItems[orderID], nil
}

func (s *fakeStore) CompleteOrder(ctx context.Context, companyID, orderID int64, receivedOn domain.DateKey) error {
	order, err := s.GetOrder(ctx, companyID, orderID)
	if err != nil {
		return err
	}
	if order.Status != domain.OrderPending {
		return domain.ErrConflict
	}
	order.Status = domain.OrderCompleted
	for _, item := range s.orderItems[orderID] {
		s.supplies = append(s.supplies, &domain.SupplyEvent{
			ID: s.id(), CompanyID: companyID, ProductID: item.ProductID,
			Date: receivedOn, Boxes: item.BoxesOrdered, Weight: item.WeightOrdered, Cost: item.Cost,
		})
	}
	return nil
}

func (s *fakeStore) CancelOrder(ctx context.Context, companyID, orderID int64) error {
	order, err := s.GetOrder(ctx, companyID, orderID)
	if err != nil {
		return err
	}
	if order.Status != domain.OrderPending {
		return domain.ErrConflict
	}
	order.Status = domain.OrderCancelled
	return nil
}

func (s *fakeStore) InTransitWeight(ctx context.Context, companyID, productID int64) (float64, error) {
	weights, _ := s.InTransitWeights(ctx, companyID)
	return weights[productID], nil
}

func (s *fakeStore) InTransitWeights(ctx context.Context, companyID int64) (map[int64]float64, error) {
	out := make(map[int64]float64)
	for _, order := range s.orders {
		if order.CompanyID != companyID || order.Status != domain.OrderPending {
			continue
		}
		for _, item := range s.orderItems[order.ID] {
			out[item.ProductID] += item.WeightOrdered
		}
	}
	return out, nil
}

// --- SubmissionRepository ---

func (s *fakeStore) CreateSubmission(ctx context.Context, companyID, userID int64, date domain.DateKey, items []*domain.SubmissionItem) (*domain.StockSubmission, error) {
	for _, sub := range s.submissions {
		if sub.CompanyID == companyID && sub.SubmittedBy == userID &&
			sub.SubmissionDate.Equal(date) && sub.Status == domain.SubmissionPending {
			return nil, domain.ErrConflict
		}
	}
	sub := &domain.StockSubmission{
		ID: s.id(), CompanyID: companyID, SubmittedBy: userID, SubmissionDate: date,
		Status: domain.SubmissionPending, CreatedAt: time.Now(), ItemsCount: len(items),
	}
	s.submissions[sub.ID] = sub
	for _, item := range items {
		clone := *item
		clone.ID = s.id()
		clone.SubmissionID = sub.ID
		s.submissionItems[sub.ID] = append(s.submissionItems[sub.ID], &clone)
	}
	return sub, nil
}

func (s *fakeStore) GetSubmission(ctx context.Context, companyID, submissionID int64) (*domain.StockSubmission, error) {
	sub, ok := s.submissions[submissionID]
	if !ok || sub.CompanyID != companyID {
		return nil, &domain.NotFoundError{Entity: "submission", ID: submissionID}
	}
	return sub, nil
}

func (s *fakeStore) SubmissionItems(ctx context.Context, companyID, submissionID int64) ([]*domain.SubmissionItem, error) {
	if _, err := s.GetSubmission(ctx, companyID, submissionID); err != nil {
		return nil, err
	}
	return s.submissionItems[submissionID], nil
}

func (s *fakeStore) ListPendingForCompany(ctx context.Context, companyID int64) ([]*domain.StockSubmission, error) {
	var out []*domain.StockSubmission
	for _, sub := range s.submissions {
		if sub.CompanyID == companyID && sub.Status == domain.SubmissionPending {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *fakeStore) UserSubmissions(ctx context.Context, companyID, userID int64, limit int) ([]*domain.StockSubmission, error) {
	var out []*domain.StockSubmission
	for _, sub := range s.submissions {
		if sub.CompanyID == companyID && sub.SubmittedBy == userID {
			out = append(out, sub)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeStore) EditItem(ctx context.Context, companyID, submissionID, productID int64, quantity, weight float64) error {
	sub, err := s.GetSubmission(ctx, companyID, submissionID)
	if err != nil {
		return err
	}
	if sub.Status != domain.SubmissionPending {
		return domain.ErrConflict
	}
	for _, item := range s.submissionItems[submissionID] {
		if item.ProductID == productID {
			q, w := quantity, weight
			item.EditedQuantity, item.EditedWeight = &q, &w
			return nil
		}
	}
	return &domain.NotFoundError{Entity: "submission item", ID: productID}
}

func (s *fakeStore) Approve(ctx context.Context, companyID, submissionID, adminID int64, reviewedAt time.Time) (int64, error) {
	sub, err := s.GetSubmission(ctx, companyID, submissionID)
	if err != nil {
		return 0, err
	}
	if sub.Status != domain.SubmissionPending {
		return 0, domain.ErrConflict
	}
	for _, item := range s.submissionItems[submissionID] {
		snap := &domain.StockSnapshot{
			CompanyID: companyID, ProductID: item.ProductID, Date: sub.SubmissionDate,
			Quantity: item.EffectiveQuantity(), Weight: item.EffectiveWeight(),
		}
		if err := s.UpsertSnapshot(ctx, snap); err != nil {
			return 0, err
		}
	}
	sub.Status = domain.SubmissionApproved
	sub.ReviewedAt = &reviewedAt
	sub.ReviewedBy = &adminID
	return sub.SubmittedBy, nil
}

func (s *fakeStore) Reject(ctx context.Context, companyID, submissionID, adminID int64, reason string, reviewedAt time.Time) (int64, error) {
	sub, err := s.GetSubmission(ctx, companyID, submissionID)
	if err != nil {
		return 0, err
	}
	if sub.Status != domain.SubmissionPending {
		return 0, domain.ErrConflict
	}
	sub.Status = domain.SubmissionRejected
	sub.ReviewedAt = &reviewedAt
	sub.ReviewedBy = &adminID
	sub.RejectionReason = &reason
	return sub.SubmittedBy, nil
}

// recordingNotifier captures every notification for assertions.
type recordingNotifier struct {
	newSubmissions []string
	reviews        []reviewNote
	reminders      []string
}

type reviewNote struct {
	recipientID int64
	approved    bool
	reason      string
}

func (n *recordingNotifier) OnNewSubmission(ctx context.Context, companyID int64, summary string, recipientIDs []int64) error {
	n.newSubmissions = append(n.newSubmissions, summary)
	return nil
}

func (n *recordingNotifier) OnSubmissionReviewed(ctx context.Context, companyID int64, recipientID int64, approved bool, reason string) error {
	n.reviews = append(n.reviews, reviewNote{recipientID: recipientID, approved: approved, reason: reason})
	return nil
}

func (n *recordingNotifier) OnReminder(ctx context.Context, companyID int64, message string, recipientIDs []int64) error {
	n.reminders = append(n.reminders, message)
	return nil
}
