package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS ingredients (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			category VARCHAR(20) NOT NULL,
			quantity DECIMAL(12, 2) NOT NULL DEFAULT 0,
			unit VARCHAR(20) NOT NULL DEFAULT '',
			price DECIMAL(10, 4) NOT NULL DEFAULT 0,
			threshold DECIMAL(12, 2) NOT NULL DEFAULT 0,
			image_url TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS packs (
			id VARCHAR(100) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price DECIMAL(10, 2) NOT NULL,
			image_url TEXT NOT NULL DEFAULT '',
			ingredients JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(100) PRIMARY KEY,
			email VARCHAR(255) NOT NULL DEFAULT '',
			username VARCHAR(255) NOT NULL DEFAULT '',
			full_name VARCHAR(255) NOT NULL DEFAULT '',
			role VARCHAR(20) NOT NULL DEFAULT 'USER',
			contact_number VARCHAR(50) NOT NULL DEFAULT '',
			address_label VARCHAR(100) NOT NULL DEFAULT '',
			address_line TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS carts (
			user_id VARCHAR(100) PRIMARY KEY,
			total_amount DECIMAL(10, 2) NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS cart_items (
			id UUID PRIMARY KEY,
			user_id VARCHAR(100) NOT NULL REFERENCES carts(user_id) ON DELETE CASCADE,
			position INT NOT NULL DEFAULT 0,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price DECIMAL(10, 2) NOT NULL,
			quantity INT NOT NULL,
			pack_id VARCHAR(100),
			custom_build JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			user_id VARCHAR(100) NOT NULL,
			status VARCHAR(20) NOT NULL,
			total_price DECIMAL(10, 2) NOT NULL,
			customer_name VARCHAR(255) NOT NULL,
			customer_phone VARCHAR(50) NOT NULL,
			address_label VARCHAR(100) NOT NULL DEFAULT '',
			address_line TEXT NOT NULL,
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS order_items (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			position INT NOT NULL DEFAULT 0,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price DECIMAL(10, 2) NOT NULL,
			quantity INT NOT NULL,
			pack_id VARCHAR(100),
			custom_build JSONB
		);

		CREATE TABLE IF NOT EXISTS order_status_log (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			from_status VARCHAR(20) NOT NULL,
			to_status VARCHAR(20) NOT NULL,
			changed_by VARCHAR(100) NOT NULL,
			changed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS stock_movements (
			id UUID PRIMARY KEY,
			ingredient_name VARCHAR(255) NOT NULL,
			delta DECIMAL(12, 2) NOT NULL,
			reason VARCHAR(30) NOT NULL,
			order_id UUID,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`

	if _, err := pool.Exec(ctx, schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// CleanupDB truncates all tables between test cases.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()
	_, err := pool.Exec(ctx, `
		TRUNCATE stock_movements, order_status_log, order_items, orders,
			cart_items, carts, users, packs, ingredients CASCADE
	`)
	if err != nil {
		t.Fatalf("failed to clean database: %v", err)
	}
}

// SeedCatalog inserts a small ingredient and pack catalog for tests.
func SeedCatalog(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	ingredients := []struct {
		name      string
		category  string
		quantity  float64
		threshold float64
	}{
		{"Classic Dough", "BASE", 50, 10},
		{"Tomato Sauce", "SAUCE", 5000, 1000},
		{"Mozzarella", "CHEESE", 4000, 800},
		{"Mushrooms", "VEGGIE", 2000, 400},
		{"Pepperoni", "MEAT", 1500, 300},
	}
	for _, i := range ingredients {
		_, err := pool.Exec(ctx, `
			INSERT INTO ingredients (id, name, category, quantity, unit, price, threshold)
			VALUES ($1, $2, $3, $4, 'g', 0.01, $5)
		`, uuid.New(), i.name, i.category, i.quantity, i.threshold)
		if err != nil {
			t.Fatalf("failed to seed ingredient %s: %v", i.name, err)
		}
	}

	_, err := pool.Exec(ctx, `
		INSERT INTO packs (id, name, description, price, ingredients)
		VALUES ('margherita', 'Margherita', 'The classic', 9.99,
			'["Classic Dough", "Tomato Sauce", "Mozzarella"]')
	`)
	if err != nil {
		t.Fatalf("failed to seed pack: %v", err)
	}
}

// SeedUser inserts a user row with the given role.
func SeedUser(t *testing.T, pool *pgxpool.Pool, id string, role string) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `
		INSERT INTO users (id, email, role) VALUES ($1, $2, $3)
	`, id, id+"@example.com", role)
	if err != nil {
		t.Fatalf("failed to seed user %s: %v", id, err)
	}
}
