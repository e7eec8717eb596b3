package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmaia/balanco/internal/core/domain"
	"github.com/dmaia/balanco/internal/port"
)

// MySQLAdapter is the persistence gateway. Every state transition with
// a correctness-critical write path (sector claim, release, finalize,
// inventory close) is a single conditional UPDATE checked through
// RowsAffected, never a read-then-write.
type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

const sectorColumns = `id, inventory_id, prefix, range_start, range_end, description, status, held_by, updated_at`

func scanSector(row interface{ Scan(...any) error }) (*domain.Sector, error) {
	var s domain.Sector
	var heldBy sql.NullString
	err := row.Scan(&s.ID, &s.InventoryID, &s.Prefix, &s.RangeStart, &s.RangeEnd,
		&s.Description, &s.Status, &heldBy, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.HeldBy = heldBy.String
	return &s, nil
}

func (m *MySQLAdapter) GetSector(ctx context.Context, id int64) (*domain.Sector, error) {
	row := m.db.QueryRowContext(ctx,
		`SELECT `+sectorColumns+` FROM sectors WHERE id = ?`, id)
	s, err := scanSector(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query sector: %w", err)
	}
	return s, nil
}

func (m *MySQLAdapter) ListSectors(ctx context.Context, inventoryID int64) ([]domain.Sector, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT `+sectorColumns+` FROM sectors WHERE inventory_id = ? ORDER BY prefix, range_start`,
		inventoryID)
	if err != nil {
		return nil, fmt.Errorf("list sectors: %w", err)
	}
	defer rows.Close()

	var sectors []domain.Sector
	for rows.Next() {
		s, err := scanSector(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sector: %w", err)
		}
		sectors = append(sectors, *s)
	}
	return sectors, rows.Err()
}

func (m *MySQLAdapter) SectorHeldBy(ctx context.Context, inventoryID int64, operatorID string) (*domain.Sector, error) {
	row := m.db.QueryRowContext(ctx,
		`SELECT `+sectorColumns+` FROM sectors WHERE inventory_id = ? AND held_by = ? LIMIT 1`,
		inventoryID, operatorID)
	s, err := scanSector(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query held sector: %w", err)
	}
	return s, nil
}

func (m *MySQLAdapter) ClaimSector(ctx context.Context, sectorID int64, operatorID string) (bool, error) {
	result, err := m.db.ExecContext(ctx, `
		UPDATE sectors
		SET status = 'counting', held_by = ?, updated_at = NOW()
		WHERE id = ? AND status <> 'closed' AND (held_by IS NULL OR held_by = ?)`,
		operatorID, sectorID, operatorID)
	if err != nil {
		return false, fmt.Errorf("claim sector: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (m *MySQLAdapter) ReleaseSector(ctx context.Context, sectorID int64, operatorID string) (bool, error) {
	result, err := m.db.ExecContext(ctx, `
		UPDATE sectors
		SET status = 'pending', held_by = NULL, updated_at = NOW()
		WHERE id = ? AND status = 'counting' AND held_by = ?`,
		sectorID, operatorID)
	if err != nil {
		return false, fmt.Errorf("release sector: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (m *MySQLAdapter) FinalizeSector(ctx context.Context, sectorID int64) (bool, error) {
	result, err := m.db.ExecContext(ctx, `
		UPDATE sectors
		SET status = 'closed', held_by = NULL, updated_at = NOW()
		WHERE id = ? AND status <> 'closed'`,
		sectorID)
	if err != nil {
		return false, fmt.Errorf("finalize sector: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (m *MySQLAdapter) CreateCount(ctx context.Context, count domain.Count) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO counts (id, sector_id, product_id, quantity, batch, expiry, operator_id, divergent, reconciled, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		count.ID, count.SectorID, count.ProductID, count.Quantity, count.Batch, count.Expiry,
		count.OperatorID, count.Divergent, count.Reconciled, count.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert count: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) ListCountsBySectors(ctx context.Context, sectorIDs []int64) ([]domain.Count, error) {
	if len(sectorIDs) == 0 {
		return nil, nil
	}
	placeholders := ""
	args := make([]any, len(sectorIDs))
	for i, id := range sectorIDs {
		if i > 0 {
			placeholders += ","
		}
		placeholders += "?"
		args[i] = id
	}
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, sector_id, product_id, quantity, batch, expiry, operator_id, divergent, reconciled, created_at
		FROM counts WHERE sector_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("list counts: %w", err)
	}
	defer rows.Close()

	var counts []domain.Count
	for rows.Next() {
		var c domain.Count
		var expiry sql.NullTime
		if err := rows.Scan(&c.ID, &c.SectorID, &c.ProductID, &c.Quantity, &c.Batch, &expiry,
			&c.OperatorID, &c.Divergent, &c.Reconciled, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		if expiry.Valid {
			c.Expiry = &expiry.Time
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (m *MySQLAdapter) MarkReconciled(ctx context.Context, countID string) error {
	_, err := m.db.ExecContext(ctx,
		`UPDATE counts SET reconciled = 1 WHERE id = ?`, countID)
	if err != nil {
		return fmt.Errorf("mark reconciled: %w", err)
	}
	return nil
}

// AggregatePendingDivergences is the single-pass path: one GROUP BY
// over the count ledger joined back to products. A product with no
// counts aggregates as sum 0 through the LEFT JOIN.
func (m *MySQLAdapter) AggregatePendingDivergences(ctx context.Context, inventoryID int64) (int, error) {
	var pending int
	err := m.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM products p
		LEFT JOIN (
			SELECT c.product_id, SUM(c.quantity) AS counted, MAX(c.reconciled) AS reconciled
			FROM counts c
			JOIN sectors s ON s.id = c.sector_id
			WHERE s.inventory_id = ?
			GROUP BY c.product_id
		) agg ON agg.product_id = p.id
		WHERE p.inventory_id = ?
		  AND COALESCE(agg.counted, 0) <> p.expected_balance
		  AND COALESCE(agg.reconciled, 0) = 0`,
		inventoryID, inventoryID,
	).Scan(&pending)
	if err != nil {
		return 0, fmt.Errorf("aggregate divergences: %w", err)
	}
	return pending, nil
}

func (m *MySQLAdapter) SectorStats(ctx context.Context, inventoryID int64) ([]domain.SectorStats, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT s.id, s.prefix, s.range_start, s.range_end, s.status, s.held_by,
		       COUNT(c.id), COALESCE(SUM(c.quantity), 0), MAX(c.created_at)
		FROM sectors s
		LEFT JOIN counts c ON c.sector_id = s.id
		WHERE s.inventory_id = ?
		GROUP BY s.id, s.prefix, s.range_start, s.range_end, s.status, s.held_by
		ORDER BY s.prefix, s.range_start`,
		inventoryID)
	if err != nil {
		return nil, fmt.Errorf("sector stats: %w", err)
	}
	defer rows.Close()

	var stats []domain.SectorStats
	for rows.Next() {
		var st domain.SectorStats
		var heldBy sql.NullString
		var last sql.NullTime
		if err := rows.Scan(&st.SectorID, &st.Prefix, &st.RangeStart, &st.RangeEnd, &st.Status,
			&heldBy, &st.Counts, &st.TotalQuantity, &last); err != nil {
			return nil, fmt.Errorf("scan sector stats: %w", err)
		}
		st.HeldBy = heldBy.String
		if last.Valid {
			st.LastCountAt = &last.Time
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

func (m *MySQLAdapter) Timeline(ctx context.Context, inventoryID int64, since time.Time) ([]domain.TimelineBucket, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT DATE_FORMAT(c.created_at, '%Y-%m-%d %H:%i:00'),
		       COUNT(*), SUM(c.quantity), COUNT(DISTINCT c.operator_id)
		FROM counts c
		JOIN sectors s ON s.id = c.sector_id
		WHERE s.inventory_id = ? AND c.created_at >= ?
		GROUP BY 1
		ORDER BY 1`,
		inventoryID, since)
	if err != nil {
		return nil, fmt.Errorf("timeline: %w", err)
	}
	defer rows.Close()

	var buckets []domain.TimelineBucket
	for rows.Next() {
		var b domain.TimelineBucket
		var minute string
		if err := rows.Scan(&minute, &b.Counts, &b.Quantity, &b.Operators); err != nil {
			return nil, fmt.Errorf("scan timeline: %w", err)
		}
		b.Minute, err = time.ParseInLocation("2006-01-02 15:04:05", minute, time.Local)
		if err != nil {
			return nil, fmt.Errorf("parse timeline minute: %w", err)
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

func (m *MySQLAdapter) ActivityStats(ctx context.Context, inventoryID int64, since time.Time) (int, int, error) {
	var operators, sectors int
	err := m.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT c.operator_id), COUNT(DISTINCT c.sector_id)
		FROM counts c
		JOIN sectors s ON s.id = c.sector_id
		WHERE s.inventory_id = ? AND c.created_at >= ?`,
		inventoryID, since,
	).Scan(&operators, &sectors)
	if err != nil {
		return 0, 0, fmt.Errorf("activity stats: %w", err)
	}
	return operators, sectors, nil
}

func (m *MySQLAdapter) ListProducts(ctx context.Context, inventoryID int64) ([]domain.Product, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, inventory_id, code, barcode, description, expected_balance, batch, expiry, divergent
		FROM products WHERE inventory_id = ?`,
		inventoryID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		var expiry sql.NullTime
		if err := rows.Scan(&p.ID, &p.InventoryID, &p.Code, &p.Barcode, &p.Description,
			&p.ExpectedBalance, &p.Batch, &expiry, &p.Divergent); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if expiry.Valid {
			p.Expiry = &expiry.Time
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (m *MySQLAdapter) RefreshDivergentFlags(ctx context.Context, inventoryID int64) error {
	_, err := m.db.ExecContext(ctx, `
		UPDATE products p
		LEFT JOIN (
			SELECT c.product_id, SUM(c.quantity) AS counted
			FROM counts c
			JOIN sectors s ON s.id = c.sector_id
			WHERE s.inventory_id = ?
			GROUP BY c.product_id
		) agg ON agg.product_id = p.id
		SET p.divergent = (COALESCE(agg.counted, 0) <> p.expected_balance)
		WHERE p.inventory_id = ?`,
		inventoryID, inventoryID)
	if err != nil {
		return fmt.Errorf("refresh divergent flags: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) GetInventory(ctx context.Context, id int64) (*domain.Inventory, error) {
	var inv domain.Inventory
	var closedAt sql.NullTime
	var closedBy, justification sql.NullString
	err := m.db.QueryRowContext(ctx, `
		SELECT id, store_id, description, active, closed_at, closed_by, closing_justification, created_at
		FROM inventories WHERE id = ?`, id,
	).Scan(&inv.ID, &inv.StoreID, &inv.Description, &inv.Active, &closedAt, &closedBy, &justification, &inv.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query inventory: %w", err)
	}
	if closedAt.Valid {
		inv.ClosedAt = &closedAt.Time
	}
	inv.ClosedBy = closedBy.String
	inv.ClosingJustification = justification.String
	return &inv, nil
}

func (m *MySQLAdapter) CloseInventory(ctx context.Context, id int64, closedBy, justification string, at time.Time) (bool, error) {
	result, err := m.db.ExecContext(ctx, `
		UPDATE inventories
		SET active = 0, closed_at = ?, closed_by = ?, closing_justification = ?
		WHERE id = ? AND active = 1`,
		at, closedBy, justification, id)
	if err != nil {
		return false, fmt.Errorf("close inventory: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (m *MySQLAdapter) Lookup(ctx context.Context, operatorID string) (*domain.Operator, error) {
	var op domain.Operator
	err := m.db.QueryRowContext(ctx,
		`SELECT id, name, supervisor FROM operators WHERE id = ?`, operatorID,
	).Scan(&op.ID, &op.Name, &op.Supervisor)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query operator: %w", err)
	}
	return &op, nil
}

func (m *MySQLAdapter) Record(ctx context.Context, entry port.AuditEntry) error {
	metadata, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("marshal audit metadata: %w", err)
	}
	_, err = m.db.ExecContext(ctx, `
		INSERT INTO audit_log (action, actor_id, inventory_id, metadata, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		entry.Action, entry.ActorID, entry.InventoryID, metadata, entry.At)
	if err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	return nil
}
