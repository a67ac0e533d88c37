package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/RDarrylR/dsql-kabob-store/internal/db"
	"github.com/RDarrylR/dsql-kabob-store/internal/logger"
)

// ConnProvider hands out a live database handle. The store borrows it for one
// unit of work and never caches it; the session manager owns its lifecycle.
type ConnProvider interface {
	Conn(ctx context.Context) (*sql.DB, error)
}

type Service struct {
	sessions ConnProvider
}

func NewService(sessions ConnProvider) *Service {
	return &Service{sessions: sessions}
}

const maxFieldLength = 255

const selectOrderColumns = `
	SELECT id, customer_name, customer_email, items, total_amount, status, created_at
	FROM orders`

// sanitizeString strips NUL bytes, truncates and trims. The typed validation
// layer already ran; this is defense in depth.
func sanitizeString(value string, maxLength int) string {
	value = strings.ReplaceAll(value, "\x00", "")
	if len(value) > maxLength {
		value = value[:maxLength]
	}
	return strings.TrimSpace(value)
}

// CreateOrder persists a new order and confirms the write by re-reading it.
// The whole unit of work runs in one transaction: commit on success, rollback
// on any failure.
func (s *Service) CreateOrder(ctx context.Context, customerName, customerEmail string, lines []OrderLine, totalAmount float64) (Order, error) {

	customerName = sanitizeString(customerName, maxFieldLength)
	customerEmail = sanitizeString(customerEmail, maxFieldLength)

	if customerName == "" || customerEmail == "" {
		return Order{}, &ValidationError{Field: "customer", Message: "customer name and email are required"}
	}
	if len(lines) == 0 {
		return Order{}, &ValidationError{Field: "items", Message: "order must contain at least one item"}
	}
	if totalAmount <= 0 || totalAmount > 100000 {
		return Order{}, &ValidationError{Field: "total_amount", Message: "invalid total amount"}
	}

	itemsJSON, err := json.Marshal(lines)
	if err != nil {
		return Order{}, fmt.Errorf("store: encode order items: %w", err)
	}

	conn, err := s.sessions.Conn(ctx)
	if err != nil {
		return Order{}, err
	}

	orderID := uuid.NewString()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return Order{}, fmt.Errorf("store: begin order transaction: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, customer_name, customer_email, items, total_amount, status)
		VALUES ($1::uuid, $2, $3, $4, $5, $6)
	`, orderID, customerName, customerEmail, string(itemsJSON), totalAmount, "pending")
	if err != nil {
		_ = tx.Rollback()
		return Order{}, fmt.Errorf("store: insert order: %w", err)
	}

	order, err := readBackOrder(ctx, tx, orderID)
	if err != nil {
		_ = tx.Rollback()
		return Order{}, err
	}

	if err := tx.Commit(); err != nil {
		return Order{}, fmt.Errorf("store: commit order: %w", err)
	}

	logger.Info("order created", map[string]any{
		"order_id":     order.ID,
		"total_amount": order.TotalAmount,
	})
	return order, nil
}

// readBackOrder confirms the insert became durable. A miss by ID surfaces a
// possible read-after-write anomaly; fall back to the most recent order,
// which assumes no concurrent insert slipped in between. If that also yields
// nothing, the order is unreadable.
func readBackOrder(ctx context.Context, tx *sql.Tx, orderID string) (Order, error) {
	order, err := scanOrder(tx.QueryRowContext(ctx, selectOrderColumns+` WHERE id = $1::uuid`, orderID))
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Order{}, fmt.Errorf("store: read back order: %w", err)
	}

	logger.Warn("created order not readable by id, checking most recent", map[string]any{
		"order_id": orderID,
	})

	order, err = scanOrder(tx.QueryRowContext(ctx, selectOrderColumns+` ORDER BY created_at DESC LIMIT 1`))
	if errors.Is(err, sql.ErrNoRows) {
		return Order{}, ErrOrderUnreadable
	}
	if err != nil {
		return Order{}, fmt.Errorf("store: read back order: %w", err)
	}
	return order, nil
}

// MenuItems lists available items ordered by category then name. On any
// failure it degrades to the in-memory sample list: menu browsing must stay
// usable even when storage is down. The fallback decision lives here, at the
// call site, not in the query helper.
func (s *Service) MenuItems(ctx context.Context) []MenuItem {
	items, err := s.queryMenuItems(ctx)
	if err != nil {
		logger.Error("menu query failed, serving sample items", map[string]any{
			"error": err.Error(),
		})
		return SampleMenuItems()
	}
	return items
}

func (s *Service) queryMenuItems(ctx context.Context) ([]MenuItem, error) {
	conn, err := s.sessions.Conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := conn.QueryContext(ctx, `
		SELECT id, name, description, price, category, image_url, available, created_at
		FROM menu_items WHERE available = true
		ORDER BY category, name
	`)
	if err != nil {
		return nil, fmt.Errorf("store: query menu items: %w", err)
	}
	defer rows.Close()

	items := make([]MenuItem, 0)
	for rows.Next() {
		var (
			item        MenuItem
			description sql.NullString
			imageURL    sql.NullString
			createdAt   sql.NullTime
		)
		if err := rows.Scan(&item.ID, &item.Name, &description, &item.Price, &item.Category, &imageURL, &item.Available, &createdAt); err != nil {
			return nil, fmt.Errorf("store: scan menu item: %w", err)
		}
		item.Description = description.String
		item.ImageURL = imageURL.String
		item.CreatedAt = createdAt.Time
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate menu items: %w", err)
	}
	return items, nil
}

// Orders lists all orders newest-first. On failure it returns an empty list
// instead of erroring, same degrade-gracefully policy as the menu.
func (s *Service) Orders(ctx context.Context) []Order {
	orders, err := s.queryOrders(ctx)
	if err != nil {
		logger.Error("orders query failed, returning empty list", map[string]any{
			"error": err.Error(),
		})
		return []Order{}
	}
	return orders
}

func (s *Service) queryOrders(ctx context.Context) ([]Order, error) {
	conn, err := s.sessions.Conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := conn.QueryContext(ctx, selectOrderColumns+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate orders: %w", err)
	}
	return orders, nil
}

// ClearOrders deletes every order. Exposed only through the unprotected
// development endpoint.
func (s *Service) ClearOrders(ctx context.Context) error {
	conn, err := s.sessions.Conn(ctx)
	if err != nil {
		return err
	}
	if _, err := conn.ExecContext(ctx, `DELETE FROM orders`); err != nil {
		return fmt.Errorf("store: clear orders: %w", err)
	}
	logger.Info("all orders deleted", nil)
	return nil
}

// Initialize ensures the schema exists and seeds the menu on first boot.
// Seeding only runs when the menu is empty, so repeated calls are
// non-destructive no-ops.
func (s *Service) Initialize(ctx context.Context) error {
	conn, err := s.sessions.Conn(ctx)
	if err != nil {
		return err
	}

	if err := db.EnsureTables(ctx, conn); err != nil {
		return err
	}

	count, err := db.CountMenuItems(ctx, conn)
	if err != nil {
		return fmt.Errorf("store: count menu items: %w", err)
	}
	if count > 0 {
		logger.Info("menu items already exist, skipping seed", map[string]any{"count": count})
		return nil
	}

	logger.Info("no menu items found, creating sample data", nil)
	return db.SeedMenuItems(ctx, conn)
}

// Counts reports current menu item and order counts.
func (s *Service) Counts(ctx context.Context) (menuItems, orders int, err error) {
	conn, err := s.sessions.Conn(ctx)
	if err != nil {
		return 0, 0, err
	}
	menuItems, err = db.CountMenuItems(ctx, conn)
	if err != nil {
		return 0, 0, fmt.Errorf("store: count menu items: %w", err)
	}
	orders, err = db.CountOrders(ctx, conn)
	if err != nil {
		return 0, 0, fmt.Errorf("store: count orders: %w", err)
	}
	return menuItems, orders, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (Order, error) {
	var (
		order     Order
		createdAt sql.NullTime
	)
	err := row.Scan(&order.ID, &order.CustomerName, &order.CustomerEmail, &order.Items, &order.TotalAmount, &order.Status, &createdAt)
	if err != nil {
		return Order{}, err
	}
	order.CreatedAt = createdAt.Time
	return order, nil
}
