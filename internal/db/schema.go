package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/RDarrylR/dsql-kabob-store/internal/logger"
)

const createMenuItemsTable = `
CREATE TABLE IF NOT EXISTS menu_items (
    id UUID PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    description TEXT,
    price NUMERIC(10, 2) NOT NULL,
    category VARCHAR(100) NOT NULL,
    image_url VARCHAR(500),
    available BOOLEAN DEFAULT TRUE,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

const createOrdersTable = `
CREATE TABLE IF NOT EXISTS orders (
    id UUID PRIMARY KEY,
    customer_name VARCHAR(255) NOT NULL,
    customer_email VARCHAR(255) NOT NULL,
    items TEXT NOT NULL,
    total_amount NUMERIC(10, 2) NOT NULL,
    status VARCHAR(50) DEFAULT 'pending',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

// EnsureTables creates the required tables. Idempotent. DSQL permits only one
// DDL statement per transaction, so each CREATE TABLE gets its own commit;
// batching them would fail.
func EnsureTables(ctx context.Context, db *sql.DB) error {
	for _, ddl := range []string{createMenuItemsTable, createOrdersTable} {
		if err := execInTx(ctx, db, ddl); err != nil {
			return fmt.Errorf("db: ensure tables: %w", err)
		}
	}
	logger.Info("database tables ensured", nil)
	return nil
}

func execInTx(ctx context.Context, db *sql.DB, stmt string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// SeedItem is one row of the fixed first-boot menu.
type SeedItem struct {
	Name        string
	Description string
	Price       float64
	Category    string
	ImageURL    string
}

// SeedMenu returns the fixed seed set: 6 items across Kabobs, Appetizers and
// Desserts.
func SeedMenu() []SeedItem {
	return []SeedItem{
		{"Chicken Kabob", "Grilled chicken skewers with Mediterranean spices", 12.99, "Kabobs", "https://carlsbadcravings.com/wp-content/uploads/2023/06/Chicken-Kabobs-5.jpg"},
		{"Beef Kabob", "Tender beef cubes marinated in herbs", 14.99, "Kabobs", "https://www.recipetineats.com/tachyon/2018/07/Beef-Kabobs_2.jpg?resize=900%2C1260&zoom=1"},
		{"Lamb Kabob", "Succulent lamb with traditional seasonings", 16.99, "Kabobs", "https://www.acommunaltable.com/wp-content/uploads/2022/08/lamb-kebab-with-drizzle-1024x1536.jpeg"},
		{"Vegetable Kabob", "Fresh seasonal vegetables grilled to perfection", 9.99, "Kabobs", "https://www.veggiessavetheday.com/wp-content/uploads/2021/05/Grilled-Veggie-Kabobs-platter-1200x1800-1.jpg"},
		{"Hummus & Pita", "Creamy chickpea dip with olive oil", 6.99, "Appetizers", "https://images.squarespace-cdn.com/content/v1/5ed666a6924cd0017d343b01/1593544179725-1WMOUEETKOKCYY7JZ5FJ/bite-me-more-roasted-red-pepper-hummus-spiced-pita-chips-recipe.jpg?format=2500w"},
		{"Baklava", "Sweet pastry with nuts and honey", 4.99, "Desserts", "https://img.sndimg.com/food/image/upload/f_auto,c_thumb,q_55,w_860,ar_3:2/v1/img/recipes/59/86/3/Ye35HYGSEGgc0oGCIUag_Baklava-2.jpg"},
	}
}

// SeedMenuItems clears and repopulates the menu inside a single transaction
// (DML, so batching is allowed). Each item gets a freshly generated ID.
func SeedMenuItems(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db: seed menu items: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM menu_items`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("db: clear menu items: %w", err)
	}

	for _, item := range SeedMenu() {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO menu_items (id, name, description, price, category, image_url, available)
			VALUES ($1::uuid, $2, $3, $4, $5, $6, $7)
		`, uuid.NewString(), item.Name, item.Description, item.Price, item.Category, item.ImageURL, true)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("db: insert seed item %q: %w", item.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("db: seed menu items: %w", err)
	}

	logger.Info("sample menu items created", map[string]any{"count": len(SeedMenu())})
	return nil
}

func CountMenuItems(ctx context.Context, db *sql.DB) (int, error) {
	return count(ctx, db, `SELECT COUNT(*) FROM menu_items`)
}

func CountOrders(ctx context.Context, db *sql.DB) (int, error) {
	return count(ctx, db, `SELECT COUNT(*) FROM orders`)
}

func count(ctx context.Context, db *sql.DB, query string) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
