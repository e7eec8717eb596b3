package service

import (
	"context"
	"sync"
	"time"

	"github.com/dmaia/balanco/internal/core/domain"
	"github.com/dmaia/balanco/internal/port"
)

// mockStore is an in-memory persistence gateway, event bus, close
// guard, audit sink, and identity source for service tests. The claim
// compare-and-swap runs under one mutex, matching the atomicity the
// real gateway provides.
type mockStore struct {
	mu          sync.Mutex
	sectors     map[int64]*domain.Sector
	products    map[int64]*domain.Product
	counts      []domain.Count
	inventories map[int64]*domain.Inventory
	operators   map[string]*domain.Operator

	aggregateUnsupported bool

	published []domain.CountEvent
	subs      map[chan domain.CountEvent]struct{}

	closeLocks map[int64]bool
	audits     []port.AuditEntry
}

func newMockStore() *mockStore {
	return &mockStore{
		sectors:     make(map[int64]*domain.Sector),
		products:    make(map[int64]*domain.Product),
		inventories: make(map[int64]*domain.Inventory),
		operators:   make(map[string]*domain.Operator),
		subs:        make(map[chan domain.CountEvent]struct{}),
		closeLocks:  make(map[int64]bool),
	}
}

func (m *mockStore) addSector(s domain.Sector) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := s
	m.sectors[s.ID] = &cp
}

func (m *mockStore) addProduct(p domain.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := p
	m.products[p.ID] = &cp
}

func (m *mockStore) addInventory(inv domain.Inventory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := inv
	m.inventories[inv.ID] = &cp
}

func (m *mockStore) addOperator(op domain.Operator) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := op
	m.operators[op.ID] = &cp
}

func (m *mockStore) addCount(c domain.Count) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts = append(m.counts, c)
}

// SectorRepository

func (m *mockStore) GetSector(ctx context.Context, id int64) (*domain.Sector, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sectors[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *mockStore) ListSectors(ctx context.Context, inventoryID int64) ([]domain.Sector, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Sector
	for _, s := range m.sectors {
		if s.InventoryID == inventoryID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockStore) SectorHeldBy(ctx context.Context, inventoryID int64, operatorID string) (*domain.Sector, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sectors {
		if s.InventoryID == inventoryID && s.HeldBy == operatorID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockStore) ClaimSector(ctx context.Context, sectorID int64, operatorID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sectors[sectorID]
	if !ok || s.Status == domain.SectorClosed {
		return false, nil
	}
	if s.HeldBy != "" && s.HeldBy != operatorID {
		return false, nil
	}
	s.Status = domain.SectorCounting
	s.HeldBy = operatorID
	return true, nil
}

func (m *mockStore) ReleaseSector(ctx context.Context, sectorID int64, operatorID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sectors[sectorID]
	if !ok || s.Status != domain.SectorCounting || s.HeldBy != operatorID {
		return false, nil
	}
	s.Status = domain.SectorPending
	s.HeldBy = ""
	return true, nil
}

func (m *mockStore) FinalizeSector(ctx context.Context, sectorID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sectors[sectorID]
	if !ok || s.Status == domain.SectorClosed {
		return false, nil
	}
	s.Status = domain.SectorClosed
	s.HeldBy = ""
	return true, nil
}

// CountRepository

func (m *mockStore) CreateCount(ctx context.Context, count domain.Count) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts = append(m.counts, count)
	return nil
}

func (m *mockStore) ListCountsBySectors(ctx context.Context, sectorIDs []int64) ([]domain.Count, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wanted := make(map[int64]struct{}, len(sectorIDs))
	for _, id := range sectorIDs {
		wanted[id] = struct{}{}
	}
	var out []domain.Count
	for _, c := range m.counts {
		if _, ok := wanted[c.SectorID]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockStore) MarkReconciled(ctx context.Context, countID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.counts {
		if m.counts[i].ID == countID {
			m.counts[i].Reconciled = true
		}
	}
	return nil
}

// AggregatePendingDivergences mirrors the gateway's single-pass SQL:
// per-product SUM over counts in the inventory's sectors, MAX of the
// reconciled flags, compared against the expected balance.
func (m *mockStore) AggregatePendingDivergences(ctx context.Context, inventoryID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.aggregateUnsupported {
		return 0, port.ErrAggregateUnsupported
	}

	inInventory := make(map[int64]struct{})
	for _, s := range m.sectors {
		if s.InventoryID == inventoryID {
			inInventory[s.ID] = struct{}{}
		}
	}

	sums := make(map[int64]int64)
	reconciled := make(map[int64]bool)
	for _, c := range m.counts {
		if _, ok := inInventory[c.SectorID]; !ok {
			continue
		}
		sums[c.ProductID] += c.Quantity
		if c.Reconciled {
			reconciled[c.ProductID] = true
		}
	}

	pending := 0
	for _, p := range m.products {
		if p.InventoryID != inventoryID {
			continue
		}
		if sums[p.ID] != p.ExpectedBalance && !reconciled[p.ID] {
			pending++
		}
	}
	return pending, nil
}

func (m *mockStore) SectorStats(ctx context.Context, inventoryID int64) ([]domain.SectorStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.SectorStats
	for _, s := range m.sectors {
		if s.InventoryID != inventoryID {
			continue
		}
		st := domain.SectorStats{
			SectorID:   s.ID,
			Prefix:     s.Prefix,
			RangeStart: s.RangeStart,
			RangeEnd:   s.RangeEnd,
			Status:     s.Status,
			HeldBy:     s.HeldBy,
		}
		for _, c := range m.counts {
			if c.SectorID == s.ID {
				st.Counts++
				st.TotalQuantity += c.Quantity
			}
		}
		out = append(out, st)
	}
	return out, nil
}

func (m *mockStore) Timeline(ctx context.Context, inventoryID int64, since time.Time) ([]domain.TimelineBucket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	buckets := make(map[time.Time]*domain.TimelineBucket)
	for _, c := range m.counts {
		if c.CreatedAt.Before(since) {
			continue
		}
		minute := c.CreatedAt.Truncate(time.Minute)
		b, ok := buckets[minute]
		if !ok {
			b = &domain.TimelineBucket{Minute: minute}
			buckets[minute] = b
		}
		b.Counts++
		b.Quantity += c.Quantity
	}
	var out []domain.TimelineBucket
	for _, b := range buckets {
		out = append(out, *b)
	}
	return out, nil
}

func (m *mockStore) ActivityStats(ctx context.Context, inventoryID int64, since time.Time) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	operators := make(map[string]struct{})
	sectors := make(map[int64]struct{})
	for _, c := range m.counts {
		if c.CreatedAt.Before(since) {
			continue
		}
		operators[c.OperatorID] = struct{}{}
		sectors[c.SectorID] = struct{}{}
	}
	return len(operators), len(sectors), nil
}

// ProductRepository

func (m *mockStore) ListProducts(ctx context.Context, inventoryID int64) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Product
	for _, p := range m.products {
		if p.InventoryID == inventoryID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockStore) RefreshDivergentFlags(ctx context.Context, inventoryID int64) error {
	return nil
}

// InventoryRepository

func (m *mockStore) GetInventory(ctx context.Context, id int64) (*domain.Inventory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.inventories[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (m *mockStore) CloseInventory(ctx context.Context, id int64, closedBy, justification string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.inventories[id]
	if !ok || !inv.Active {
		return false, nil
	}
	inv.Active = false
	inv.ClosedAt = &at
	inv.ClosedBy = closedBy
	inv.ClosingJustification = justification
	return true, nil
}

// EventBus

func (m *mockStore) PublishCount(ctx context.Context, event domain.CountEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, event)
	for ch := range m.subs {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

func (m *mockStore) SubscribeCounts(ctx context.Context, inventoryID int64) (<-chan domain.CountEvent, error) {
	ch := make(chan domain.CountEvent, 16)
	m.mu.Lock()
	m.subs[ch] = struct{}{}
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		delete(m.subs, ch)
		close(ch)
		m.mu.Unlock()
	}()
	return ch, nil
}

// CloseGuard

func (m *mockStore) AcquireCloseLock(ctx context.Context, inventoryID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closeLocks[inventoryID] {
		return false, nil
	}
	m.closeLocks[inventoryID] = true
	return true, nil
}

func (m *mockStore) ReleaseCloseLock(ctx context.Context, inventoryID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.closeLocks, inventoryID)
	return nil
}

// AuditRecorder

func (m *mockStore) Record(ctx context.Context, entry port.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.audits = append(m.audits, entry)
	return nil
}

// IdentityProvider

func (m *mockStore) Lookup(ctx context.Context, operatorID string) (*domain.Operator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	op, ok := m.operators[operatorID]
	if !ok {
		return nil, nil
	}
	cp := *op
	return &cp, nil
}
