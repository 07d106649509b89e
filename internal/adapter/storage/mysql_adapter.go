package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rl1809/batch-allocation/internal/core/domain"
	"github.com/rl1809/batch-allocation/internal/port"
)

const mysqlDuplicateEntry = 1062

var schema = []string{
	`CREATE TABLE IF NOT EXISTS batches (
		reference VARCHAR(255) NOT NULL PRIMARY KEY,
		sku VARCHAR(255) NOT NULL,
		purchased_quantity INT NOT NULL,
		eta DATE NULL,
		created_at TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		INDEX idx_batches_sku (sku)
	)`,
	`CREATE TABLE IF NOT EXISTS allocations (
		id CHAR(36) NOT NULL PRIMARY KEY,
		batch_reference VARCHAR(255) NOT NULL,
		order_id VARCHAR(255) NOT NULL,
		sku VARCHAR(255) NOT NULL,
		qty INT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_allocations_line (order_id, sku, qty),
		CONSTRAINT fk_allocations_batch FOREIGN KEY (batch_reference) REFERENCES batches (reference)
	)`,
}

var _ port.BatchRepository = (*MySQLAdapter)(nil)

type MySQLAdapter struct {
	db  *sql.DB
	log zerolog.Logger
}

func NewMySQLAdapter(db *sql.DB, log zerolog.Logger) *MySQLAdapter {
	return &MySQLAdapter{
		db:  db,
		log: log.With().Str("component", "mysql_adapter").Logger(),
	}
}

// Migrate creates the batches and allocations tables if they are missing.
func (m *MySQLAdapter) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (m *MySQLAdapter) AddBatch(ctx context.Context, batch *domain.Batch) error {
	var eta any
	if batch.ETA != nil {
		eta = *batch.ETA
	}

	_, err := m.db.ExecContext(ctx, `
		INSERT INTO batches (reference, sku, purchased_quantity, eta)
		VALUES (?, ?, ?, ?)`,
		batch.Reference, batch.SKU, batch.PurchasedQuantity(), eta,
	)
	if isDuplicate(err) {
		return port.ErrBatchExists
	}
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) ListBySKU(ctx context.Context, sku string) ([]*domain.Batch, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT reference, sku, purchased_quantity, eta
		FROM batches WHERE sku = ?
		ORDER BY created_at, reference`, sku,
	)
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}
	defer rows.Close()

	var batches []*domain.Batch
	byRef := make(map[string]*domain.Batch)
	for rows.Next() {
		var (
			ref, batchSKU string
			qty           int
			eta           sql.NullTime
		)
		if err := rows.Scan(&ref, &batchSKU, &qty, &eta); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		var etaPtr *time.Time
		if eta.Valid {
			t := eta.Time
			etaPtr = &t
		}
		b := domain.NewBatch(ref, batchSKU, qty, etaPtr)
		batches = append(batches, b)
		byRef[ref] = b
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batches: %w", err)
	}

	lines, err := m.db.QueryContext(ctx, `
		SELECT a.batch_reference, a.order_id, a.sku, a.qty
		FROM allocations a
		JOIN batches b ON b.reference = a.batch_reference
		WHERE b.sku = ?`, sku,
	)
	if err != nil {
		return nil, fmt.Errorf("query allocations: %w", err)
	}
	defer lines.Close()

	skipped := 0
	for lines.Next() {
		var ref string
		var line domain.OrderLine
		if err := lines.Scan(&ref, &line.OrderID, &line.SKU, &line.Qty); err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		if !restoreAllocation(byRef[ref], line) {
			skipped++
			m.log.Warn().
				Str("batch_ref", ref).
				Str("order_id", line.OrderID).
				Str("sku", line.SKU).
				Int("qty", line.Qty).
				Msg("stored allocation does not fit batch, skipped")
		}
	}
	if err := lines.Err(); err != nil {
		return nil, fmt.Errorf("iterate allocations: %w", err)
	}
	if skipped > 0 {
		m.log.Error().Str("sku", sku).Int("skipped", skipped).Msg("allocations out of sync with batches")
	}

	return batches, nil
}

// restoreAllocation replays a stored line onto b and reports whether it
// was applied.
func restoreAllocation(b *domain.Batch, line domain.OrderLine) bool {
	if b == nil || !b.CanAllocate(line) {
		return false
	}
	b.Allocate(line)
	return true
}

// SaveAllocation inserts line only if the batch still has room for it. A
// concurrent writer that got there first yields port.ErrAllocationConflict.
func (m *MySQLAdapter) SaveAllocation(ctx context.Context, batchRef string, line domain.OrderLine) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var purchased int
	err = tx.QueryRowContext(ctx, `
		SELECT purchased_quantity FROM batches
		WHERE reference = ? AND sku = ? FOR UPDATE`,
		batchRef, line.SKU,
	).Scan(&purchased)
	if errors.Is(err, sql.ErrNoRows) {
		return port.ErrAllocationConflict
	}
	if err != nil {
		return fmt.Errorf("lock batch: %w", err)
	}

	var allocated int
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(qty), 0) FROM allocations
		WHERE batch_reference = ?`, batchRef,
	).Scan(&allocated)
	if err != nil {
		return fmt.Errorf("sum allocations: %w", err)
	}

	if purchased-allocated < line.Qty {
		return port.ErrAllocationConflict
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO allocations (id, batch_reference, order_id, sku, qty)
		VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), batchRef, line.OrderID, line.SKU, line.Qty,
	)
	if isDuplicate(err) {
		return port.ErrAllocationConflict
	}
	if err != nil {
		return fmt.Errorf("insert allocation: %w", err)
	}

	return tx.Commit()
}

func (m *MySQLAdapter) DeleteAllocation(ctx context.Context, line domain.OrderLine) (string, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var ref string
	err = tx.QueryRowContext(ctx, `
		SELECT batch_reference FROM allocations
		WHERE order_id = ? AND sku = ? AND qty = ? FOR UPDATE`,
		line.OrderID, line.SKU, line.Qty,
	).Scan(&ref)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query allocation: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM allocations
		WHERE order_id = ? AND sku = ? AND qty = ?`,
		line.OrderID, line.SKU, line.Qty,
	); err != nil {
		return "", fmt.Errorf("delete allocation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return ref, nil
}

func isDuplicate(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
