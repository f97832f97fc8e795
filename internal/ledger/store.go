package ledger

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/omkar-009/stockflow-inventory/internal/domain"
	apperrors "github.com/omkar-009/stockflow-inventory/internal/errors"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type StockRepository interface {
	FindByKey(ctx context.Context, key domain.StockKey) (*domain.StockRecord, error)
	FindByKeyForUpdate(ctx context.Context, tx *sql.Tx, key domain.StockKey) (*domain.StockRecord, error)
	Insert(ctx context.Context, tx *sql.Tx, record domain.StockRecord) (int, error)
	UpdateQuantities(ctx context.Context, tx *sql.Tx, id, quantity, reservedQuantity int) error
	ListByProduct(ctx context.Context, productID int) ([]domain.StockRecord, error)
	TotalByProduct(ctx context.Context, productID int) (int, error)
}

type MovementRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, event domain.MovementEvent) error
}

// Adjustment is one signed quantity change for one stock key.
type Adjustment struct {
	Key       domain.StockKey
	Delta     int
	Reason    domain.MovementReason
	CompanyID int
	OrderID   *string
}

// Store owns all mutation of stock rows. Every write goes through a
// transaction with row locks; no other component touches quantity or
// reserved_quantity directly.
type Store struct {
	db           TransactionManager
	stockRepo    StockRepository
	movementRepo MovementRepository
	logger       *zap.Logger
	txTimeout    time.Duration
}

func NewStore(
	db TransactionManager,
	stockRepo StockRepository,
	movementRepo MovementRepository,
	logger *zap.Logger,
	txTimeout time.Duration,
) *Store {
	if txTimeout <= 0 {
		txTimeout = 5 * time.Second
	}
	return &Store{
		db:           db,
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		logger:       logger,
		txTimeout:    txTimeout,
	}
}

// Get returns a read-committed snapshot of one stock record.
func (s *Store) Get(ctx context.Context, key domain.StockKey) (*domain.StockRecord, error) {
	return s.stockRepo.FindByKey(ctx, key)
}

// Adjust applies a single signed delta. See AdjustMany for the semantics.
func (s *Store) Adjust(ctx context.Context, adj Adjustment) (*domain.StockRecord, error) {
	records, err := s.AdjustMany(ctx, []Adjustment{adj})
	if err != nil {
		return nil, err
	}
	return &records[0], nil
}

// AdjustMany applies every delta or none. Rows are locked in ascending
// (productID, locationID) order so two concurrent calls over overlapping
// keys cannot deadlock each other. A positive delta on an unknown key
// creates the record (upsert); a negative delta must be covered by the key's
// available quantity or the whole call fails with InsufficientStock.
// Sale and restock adjustments append a MovementEvent inside the same
// transaction.
func (s *Store) AdjustMany(ctx context.Context, adjustments []Adjustment) ([]domain.StockRecord, error) {
	if len(adjustments) == 0 {
		return nil, apperrors.NewValidationError("at least one adjustment is required")
	}
	for _, adj := range adjustments {
		if adj.Delta == 0 {
			return nil, apperrors.NewValidationError("adjustment delta must be non-zero")
		}
	}

	ordered := sortAdjustments(adjustments)

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, translateError(err)
	}
	// Rollback is a no-op after a successful commit.
	defer tx.Rollback()

	records := make([]domain.StockRecord, 0, len(ordered))
	for _, adj := range ordered {
		record, err := s.applyAdjustment(txCtx, tx, adj)
		if err != nil {
			return nil, translateError(err)
		}
		records = append(records, *record)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit adjustments", zap.Error(err))
		return nil, translateError(err)
	}

	return records, nil
}

func (s *Store) applyAdjustment(ctx context.Context, tx *sql.Tx, adj Adjustment) (*domain.StockRecord, error) {
	record, err := s.stockRepo.FindByKeyForUpdate(ctx, tx, adj.Key)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if record == nil {
		if adj.Delta < 0 {
			return nil, apperrors.NewInsufficientStockError(adj.Key.ProductID, adj.Key.LocationID, -adj.Delta, 0)
		}
		id, err := s.stockRepo.Insert(ctx, tx, domain.StockRecord{
			ProductID:  adj.Key.ProductID,
			LocationID: adj.Key.LocationID,
			Quantity:   adj.Delta,
		})
		if err != nil {
			return nil, err
		}
		record = &domain.StockRecord{
			ID:          id,
			ProductID:   adj.Key.ProductID,
			LocationID:  adj.Key.LocationID,
			Quantity:    adj.Delta,
			LastUpdated: now,
		}
	} else {
		// A decrement must be covered by unreserved stock: the new quantity
		// may neither go negative nor drop below reserved_quantity.
		if adj.Delta < 0 && record.Available() < -adj.Delta {
			return nil, apperrors.NewInsufficientStockError(adj.Key.ProductID, adj.Key.LocationID, -adj.Delta, record.Available())
		}
		record.Quantity += adj.Delta
		record.LastUpdated = now
		if err := s.stockRepo.UpdateQuantities(ctx, tx, record.ID, record.Quantity, record.ReservedQuantity); err != nil {
			return nil, err
		}
	}

	if adj.Reason.RecordsMovement() {
		event := domain.MovementEvent{
			ProductID:  adj.Key.ProductID,
			CompanyID:  adj.CompanyID,
			LocationID: adj.Key.LocationID,
			Quantity:   adj.Delta,
			Reason:     adj.Reason,
			OrderID:    adj.OrderID,
			OccurredAt: now,
		}
		if err := s.movementRepo.Insert(ctx, tx, event); err != nil {
			return nil, err
		}
	}

	return record, nil
}

// Reserve moves stock from available to reserved without changing quantity.
func (s *Store) Reserve(ctx context.Context, key domain.StockKey, amount int) (*domain.StockRecord, error) {
	if amount <= 0 {
		return nil, apperrors.NewValidationError("reserve amount must be positive")
	}

	return s.withLockedRecord(ctx, key, func(txCtx context.Context, tx *sql.Tx, record *domain.StockRecord) error {
		if record.Available() < amount {
			return apperrors.NewInsufficientAvailableError(key.ProductID, key.LocationID, amount, record.Available())
		}
		record.ReservedQuantity += amount
		return s.stockRepo.UpdateQuantities(txCtx, tx, record.ID, record.Quantity, record.ReservedQuantity)
	})
}

// Release returns previously reserved stock to the available pool.
func (s *Store) Release(ctx context.Context, key domain.StockKey, amount int) (*domain.StockRecord, error) {
	if amount <= 0 {
		return nil, apperrors.NewValidationError("release amount must be positive")
	}

	return s.withLockedRecord(ctx, key, func(txCtx context.Context, tx *sql.Tx, record *domain.StockRecord) error {
		if amount > record.ReservedQuantity {
			return apperrors.NewConflictError("release exceeds reserved quantity")
		}
		record.ReservedQuantity -= amount
		return s.stockRepo.UpdateQuantities(txCtx, tx, record.ID, record.Quantity, record.ReservedQuantity)
	})
}

// CommitReserved consumes held stock: quantity and reserved_quantity drop
// together and a sale movement is appended. This completes the
// reserve -> commit lifecycle for hold-before-payment flows.
func (s *Store) CommitReserved(ctx context.Context, key domain.StockKey, amount, companyID int, orderID *string) (*domain.StockRecord, error) {
	if amount <= 0 {
		return nil, apperrors.NewValidationError("commit amount must be positive")
	}

	return s.withLockedRecord(ctx, key, func(txCtx context.Context, tx *sql.Tx, record *domain.StockRecord) error {
		if amount > record.ReservedQuantity {
			return apperrors.NewConflictError("commit exceeds reserved quantity")
		}
		record.Quantity -= amount
		record.ReservedQuantity -= amount
		if err := s.stockRepo.UpdateQuantities(txCtx, tx, record.ID, record.Quantity, record.ReservedQuantity); err != nil {
			return err
		}
		return s.movementRepo.Insert(txCtx, tx, domain.MovementEvent{
			ProductID:  key.ProductID,
			CompanyID:  companyID,
			LocationID: key.LocationID,
			Quantity:   -amount,
			Reason:     domain.MovementReasonSale,
			OrderID:    orderID,
			OccurredAt: time.Now().UTC(),
		})
	})
}

// withLockedRecord runs fn against one locked stock row inside its own
// transaction. Rollback on every early return, commit only after fn
// succeeds.
func (s *Store) withLockedRecord(ctx context.Context, key domain.StockKey, fn func(context.Context, *sql.Tx, *domain.StockRecord) error) (*domain.StockRecord, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, translateError(err)
	}
	defer tx.Rollback()

	record, err := s.stockRepo.FindByKeyForUpdate(txCtx, tx, key)
	if err != nil {
		return nil, translateError(err)
	}
	if record == nil {
		return nil, apperrors.NewNotFoundError("no stock record for the given product and location")
	}

	if err := fn(txCtx, tx, record); err != nil {
		return nil, translateError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit", zap.Error(err))
		return nil, translateError(err)
	}

	record.LastUpdated = time.Now().UTC()
	return record, nil
}

// sortAdjustments returns a copy ordered by the canonical lock order.
func sortAdjustments(adjustments []Adjustment) []Adjustment {
	ordered := make([]Adjustment, len(adjustments))
	copy(ordered, adjustments)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Key.Less(ordered[j].Key) })
	return ordered
}

// translateError maps driver and context failures to the error taxonomy.
// Deadlock victims are retryable conflicts; lock wait and deadline
// expirations are timeouts. Typed application errors pass through.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1213:
			return apperrors.NewConflictError("deadlock detected, retry the operation")
		case 1205:
			return apperrors.NewTimeoutError("timed out waiting for row locks")
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeoutError("ledger transaction timed out")
	}

	return err
}
