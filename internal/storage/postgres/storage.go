package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/kmeans4/phenofarm/internal/domain/errors"
	"github.com/kmeans4/phenofarm/internal/domain/model"
	"github.com/kmeans4/phenofarm/internal/domain/repository"
)

// Pool is the subset of pgxpool.Pool the storage relies on. Declared as an
// interface so mock pools can stand in during tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   Pool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type productRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Products() repository.ProductRepository {
	return &productRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id UUID PRIMARY KEY,
            email TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL,
            store_id UUID NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS products (
            id UUID PRIMARY KEY,
            seller_store_id UUID NOT NULL,
            name TEXT NOT NULL,
            unit_price_cents INT NOT NULL CHECK (unit_price_cents >= 0),
            available_qty INT NOT NULL DEFAULT 0 CHECK (available_qty >= 0),
            is_available BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id UUID PRIMARY KEY,
            number TEXT UNIQUE NOT NULL,
            seller_store_id UUID NOT NULL,
            buyer_store_id UUID NOT NULL,
            status TEXT NOT NULL,
            subtotal_cents INT NOT NULL,
            tax_cents INT NOT NULL,
            shipping_fee_cents INT NOT NULL,
            total_cents INT NOT NULL,
            notes TEXT NOT NULL DEFAULT '',
            shipped_at TIMESTAMPTZ,
            delivered_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_lines (
            id UUID PRIMARY KEY,
            order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
            product_id UUID NOT NULL,
            seller_store_id UUID NOT NULL,
            quantity INT NOT NULL CHECK (quantity > 0),
            unit_price_cents INT NOT NULL,
            line_total_cents INT NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_products_seller ON products(seller_store_id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_seller ON orders(seller_store_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_buyer ON orders(buyer_store_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_order_lines_order ON order_lines(order_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, email, passwordHash string, role model.Role, storeID uuid.UUID) (*model.User, error) {
	const query = `INSERT INTO users (id, email, password_hash, role, store_id) VALUES ($1, $2, $3, $4, $5) RETURNING created_at`
	u := model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		StoreID:      storeID,
	}
	err := r.storage.pool.QueryRow(ctx, query, u.ID, email, passwordHash, role, storeID).Scan(&u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const query = `SELECT id, email, password_hash, role, store_id, created_at FROM users WHERE email=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.StoreID, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	const query = `SELECT id, email, password_hash, role, store_id, created_at FROM users WHERE id=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.StoreID, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// --- ProductRepository implementation ---

func (r *productRepository) Create(ctx context.Context, p *model.Product) (*model.Product, error) {
	const query = `INSERT INTO products (id, seller_store_id, name, unit_price_cents, available_qty, is_available)
                   VALUES ($1, $2, $3, $4, $5, $6)
                   RETURNING created_at, updated_at`
	created := *p
	if created.ID == uuid.Nil {
		created.ID = uuid.New()
	}
	err := r.storage.pool.QueryRow(ctx, query,
		created.ID, created.SellerStoreID, created.Name,
		created.UnitPriceCents, created.AvailableQty, created.IsAvailable,
	).Scan(&created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	const query = `SELECT id, seller_store_id, name, unit_price_cents, available_qty, is_available, created_at, updated_at
                   FROM products WHERE id=$1`
	var p model.Product
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.SellerStoreID, &p.Name, &p.UnitPriceCents,
		&p.AvailableQty, &p.IsAvailable, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) ListBySeller(ctx context.Context, sellerStoreID uuid.UUID) ([]model.Product, error) {
	const query = `SELECT id, seller_store_id, name, unit_price_cents, available_qty, is_available, created_at, updated_at
                   FROM products WHERE seller_store_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, sellerStoreID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.SellerStoreID, &p.Name, &p.UnitPriceCents, &p.AvailableQty, &p.IsAvailable, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *productRepository) CheckAvailability(ctx context.Context, productID uuid.UUID, quantity int) (bool, error) {
	const query = `SELECT available_qty, is_available FROM products WHERE id=$1`
	var available int
	var flag bool
	err := r.storage.pool.QueryRow(ctx, query, productID).Scan(&available, &flag)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return flag && available >= quantity, nil
}

// decrementStockSQL subtracts stock as one conditional update so concurrent
// checkouts can never drive the quantity negative.
const decrementStockSQL = `UPDATE products
                           SET available_qty = available_qty - $2, updated_at = NOW()
                           WHERE id=$1 AND is_available AND available_qty >= $2`

func (r *productRepository) DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return domainErrors.ErrInvalidQuantity
	}
	ct, err := r.storage.pool.Exec(ctx, decrementStockSQL, productID, quantity)
	if err != nil {
		return err
	}
	if ct.RowsAffected() > 0 {
		return nil
	}

	const probe = `SELECT is_available FROM products WHERE id=$1`
	var flag bool
	if err := r.storage.pool.QueryRow(ctx, probe, productID).Scan(&flag); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainErrors.ErrNotFound
		}
		return err
	}
	if !flag {
		return domainErrors.ErrNotFound
	}
	return domainErrors.ErrInsufficientStock
}

const restoreStockSQL = `UPDATE products
                         SET available_qty = available_qty + $2, updated_at = NOW()
                         WHERE id=$1`

func (r *productRepository) RestoreStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return domainErrors.ErrInvalidQuantity
	}
	ct, err := r.storage.pool.Exec(ctx, restoreStockSQL, productID, quantity)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		r.storage.logger.Warn("stock restore skipped, product no longer exists",
			slog.String("product_id", productID.String()),
			slog.Int("quantity", quantity),
		)
	}
	return nil
}

// --- OrderRepository implementation ---

// decrementLineSQL re-reads the server-side price and decrements stock in a
// single statement; the RETURNING clause only fires when the product exists,
// belongs to the claimed vendor, is available and has enough stock.
const decrementLineSQL = `UPDATE products
                          SET available_qty = available_qty - $2, updated_at = NOW()
                          WHERE id=$1 AND seller_store_id=$3 AND is_available AND available_qty >= $2
                          RETURNING unit_price_cents`

func (r *orderRepository) CreateForVendor(ctx context.Context, draft model.OrderDraft) (*model.Order, []model.LineFailure, error) {
	var (
		order    *model.Order
		failures []model.LineFailure
	)

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		var accepted []model.OrderLine
		for _, line := range draft.Lines {
			var priceCents int
			err := tx.QueryRow(ctx, decrementLineSQL, line.ProductID, line.Quantity, draft.SellerStoreID).Scan(&priceCents)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					failure, ferr := classifyLineFailure(ctx, tx, line, draft.SellerStoreID)
					if ferr != nil {
						return ferr
					}
					failures = append(failures, failure)
					continue
				}
				return err
			}
			accepted = append(accepted, model.OrderLine{
				ID:             uuid.New(),
				ProductID:      line.ProductID,
				SellerStoreID:  draft.SellerStoreID,
				Quantity:       line.Quantity,
				UnitPriceCents: priceCents,
				LineTotalCents: priceCents * line.Quantity,
			})
		}

		if len(accepted) == 0 {
			// Nothing was decremented; the empty transaction commits with
			// no effect and no order is created for this vendor group.
			return nil
		}

		subtotal := 0
		for _, l := range accepted {
			subtotal += l.LineTotalCents
		}
		tax := model.TaxFor(subtotal, draft.TaxRateBps)

		o := model.Order{
			ID:               uuid.New(),
			Number:           draft.Number,
			SellerStoreID:    draft.SellerStoreID,
			BuyerStoreID:     draft.BuyerStoreID,
			Status:           model.OrderStatusPending,
			SubtotalCents:    subtotal,
			TaxCents:         tax,
			ShippingFeeCents: draft.ShippingFeeCents,
			TotalCents:       subtotal + tax + draft.ShippingFeeCents,
			Notes:            draft.Notes,
		}

		const insertOrder = `INSERT INTO orders
                (id, number, seller_store_id, buyer_store_id, status, subtotal_cents, tax_cents, shipping_fee_cents, total_cents, notes)
                VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
                RETURNING created_at, updated_at`
		if err := tx.QueryRow(ctx, insertOrder,
			o.ID, o.Number, o.SellerStoreID, o.BuyerStoreID, o.Status,
			o.SubtotalCents, o.TaxCents, o.ShippingFeeCents, o.TotalCents, o.Notes,
		).Scan(&o.CreatedAt, &o.UpdatedAt); err != nil {
			return err
		}

		const insertLine = `INSERT INTO order_lines
                (id, order_id, product_id, seller_store_id, quantity, unit_price_cents, line_total_cents)
                VALUES ($1, $2, $3, $4, $5, $6, $7)`
		for i := range accepted {
			accepted[i].OrderID = o.ID
			l := accepted[i]
			if _, err := tx.Exec(ctx, insertLine,
				l.ID, l.OrderID, l.ProductID, l.SellerStoreID,
				l.Quantity, l.UnitPriceCents, l.LineTotalCents,
			); err != nil {
				return err
			}
		}

		o.Lines = accepted
		order = &o
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return order, failures, nil
}

func classifyLineFailure(ctx context.Context, tx pgx.Tx, line model.CartLine, sellerStoreID uuid.UUID) (model.LineFailure, error) {
	failure := model.LineFailure{
		ProductID:     line.ProductID,
		SellerStoreID: sellerStoreID,
		Requested:     line.Quantity,
	}

	const probe = `SELECT seller_store_id, available_qty, is_available FROM products WHERE id=$1`
	var (
		owner     uuid.UUID
		available int
		flag      bool
	)
	err := tx.QueryRow(ctx, probe, line.ProductID).Scan(&owner, &available, &flag)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			failure.Reason = model.FailureProductNotFound
			return failure, nil
		}
		return model.LineFailure{}, err
	}

	if owner != sellerStoreID || !flag {
		failure.Reason = model.FailureUnavailable
		return failure, nil
	}

	failure.Available = available
	failure.Reason = model.FailureInsufficientStock
	return failure, nil
}

const selectOrderColumns = `id, number, seller_store_id, buyer_store_id, status, subtotal_cents, tax_cents,
                            shipping_fee_cents, total_cents, notes, shipped_at, delivered_at, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID, &o.Number, &o.SellerStoreID, &o.BuyerStoreID, &o.Status,
		&o.SubtotalCents, &o.TaxCents, &o.ShippingFeeCents, &o.TotalCents,
		&o.Notes, &o.ShippedAt, &o.DeliveredAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + selectOrderColumns + ` FROM orders WHERE id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}

	const linesQuery = `SELECT id, order_id, product_id, seller_store_id, quantity, unit_price_cents, line_total_cents
                        FROM order_lines WHERE order_id=$1`
	rows, err := r.storage.pool.Query(ctx, linesQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var l model.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.SellerStoreID, &l.Quantity, &l.UnitPriceCents, &l.LineTotalCents); err != nil {
			return nil, err
		}
		order.Lines = append(order.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) listByStore(ctx context.Context, column string, storeID uuid.UUID) ([]model.Order, error) {
	query := `SELECT ` + selectOrderColumns + ` FROM orders WHERE ` + column + `=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) ListBySeller(ctx context.Context, sellerStoreID uuid.UUID) ([]model.Order, error) {
	return r.listByStore(ctx, "seller_store_id", sellerStoreID)
}

func (r *orderRepository) ListByBuyer(ctx context.Context, buyerStoreID uuid.UUID) ([]model.Order, error) {
	return r.listByStore(ctx, "buyer_store_id", buyerStoreID)
}

// applyStatusSQL stamps shipped_at/delivered_at only on the first entry into
// the corresponding state.
const applyStatusSQL = `UPDATE orders
                        SET status=$2,
                            shipped_at = CASE WHEN $2='SHIPPED' THEN COALESCE(shipped_at, NOW()) ELSE shipped_at END,
                            delivered_at = CASE WHEN $2='DELIVERED' THEN COALESCE(delivered_at, NOW()) ELSE delivered_at END,
                            updated_at = NOW()
                        WHERE id=$1
                        RETURNING shipped_at, delivered_at, updated_at`

func (r *orderRepository) UpdateStatus(ctx context.Context, actor model.Principal, orderID uuid.UUID, next model.OrderStatus) (*model.Order, model.OrderStatus, error) {
	var (
		updated  *model.Order
		previous model.OrderStatus
	)
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		lockQuery := `SELECT ` + selectOrderColumns + ` FROM orders WHERE id=$1 FOR UPDATE`
		order, err := scanOrder(tx.QueryRow(ctx, lockQuery, orderID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}

		if !actor.Owns(order.SellerStoreID) {
			return domainErrors.ErrForbidden
		}

		previous = order.Status

		if order.Status == next {
			// Idempotent re-application.
			updated = order
			return nil
		}

		if !model.CanTransition(order.Status, next) {
			return domainErrors.NewInvalidTransition(order.Status, next)
		}

		if next == model.OrderStatusCancelled {
			if _, err := restoreOrderLines(ctx, tx, r.storage.logger, orderID); err != nil {
				return err
			}
		}

		order.Status = next
		if err := tx.QueryRow(ctx, applyStatusSQL, orderID, next).Scan(&order.ShippedAt, &order.DeliveredAt, &order.UpdatedAt); err != nil {
			return err
		}

		updated = order
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return updated, previous, nil
}

func (r *orderRepository) BatchUpdateStatus(ctx context.Context, actor model.Principal, orderIDs []uuid.UUID, next model.OrderStatus) (int, error) {
	ids := dedupe(orderIDs)
	var updatedCount int

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		// Lock in id order so concurrent batches cannot deadlock.
		const lockQuery = `SELECT id, seller_store_id, status FROM orders WHERE id = ANY($1) ORDER BY id FOR UPDATE`
		rows, err := tx.Query(ctx, lockQuery, ids)
		if err != nil {
			return err
		}
		defer rows.Close()

		type lockedOrder struct {
			sellerStoreID uuid.UUID
			status        model.OrderStatus
		}
		found := make(map[uuid.UUID]lockedOrder, len(ids))
		for rows.Next() {
			var id uuid.UUID
			var lo lockedOrder
			if err := rows.Scan(&id, &lo.sellerStoreID, &lo.status); err != nil {
				return err
			}
			found[id] = lo
		}
		if err := rows.Err(); err != nil {
			return err
		}

		// The whole batch is validated before any write: missing ids,
		// foreign ownership and illegal transitions each reject everything.
		var toUpdate []uuid.UUID
		for _, id := range ids {
			lo, ok := found[id]
			if !ok {
				return domainErrors.ErrNotFound
			}
			if !actor.Owns(lo.sellerStoreID) {
				return domainErrors.ErrForbidden
			}
			if lo.status == next {
				continue
			}
			if !model.CanTransition(lo.status, next) {
				return domainErrors.NewInvalidTransition(lo.status, next)
			}
			toUpdate = append(toUpdate, id)
		}

		if next == model.OrderStatusCancelled {
			for _, id := range toUpdate {
				if _, err := restoreOrderLines(ctx, tx, r.storage.logger, id); err != nil {
					return err
				}
			}
		}

		for _, id := range toUpdate {
			var shippedAt, deliveredAt *time.Time
			var updatedAt time.Time
			if err := tx.QueryRow(ctx, applyStatusSQL, id, next).Scan(&shippedAt, &deliveredAt, &updatedAt); err != nil {
				return err
			}
		}

		updatedCount = len(toUpdate)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updatedCount, nil
}

func (r *orderRepository) Delete(ctx context.Context, actor model.Principal, orderID uuid.UUID) (*model.Order, error) {
	var deleted *model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		lockQuery := `SELECT ` + selectOrderColumns + ` FROM orders WHERE id=$1 FOR UPDATE`
		order, err := scanOrder(tx.QueryRow(ctx, lockQuery, orderID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}

		if !actor.Owns(order.SellerStoreID) && !actor.Owns(order.BuyerStoreID) {
			return domainErrors.ErrForbidden
		}

		if !model.Cancellable(order.Status) {
			return domainErrors.ErrNotCancellable
		}

		if _, err := restoreOrderLines(ctx, tx, r.storage.logger, orderID); err != nil {
			return err
		}

		// Lines cascade with the order row.
		if _, err := tx.Exec(ctx, `DELETE FROM orders WHERE id=$1`, orderID); err != nil {
			return err
		}
		deleted = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// restoreOrderLines puts every line's quantity back onto its product within
// the caller's transaction. A product that disappeared since the order was
// placed is logged and skipped.
func restoreOrderLines(ctx context.Context, tx pgx.Tx, logger *slog.Logger, orderID uuid.UUID) (int, error) {
	const linesQuery = `SELECT product_id, quantity FROM order_lines WHERE order_id=$1`
	rows, err := tx.Query(ctx, linesQuery, orderID)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	type lineQty struct {
		productID uuid.UUID
		quantity  int
	}
	var lines []lineQty
	for rows.Next() {
		var l lineQty
		if err := rows.Scan(&l.productID, &l.quantity); err != nil {
			return 0, err
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	rows.Close()

	restored := 0
	for _, l := range lines {
		ct, err := tx.Exec(ctx, restoreStockSQL, l.productID, l.quantity)
		if err != nil {
			return restored, err
		}
		if ct.RowsAffected() == 0 {
			logger.Warn("stock restore skipped, product no longer exists",
				slog.String("order_id", orderID.String()),
				slog.String("product_id", l.productID.String()),
				slog.Int("quantity", l.quantity),
			)
			continue
		}
		restored += l.quantity
	}
	return restored, nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
