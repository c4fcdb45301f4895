package tests

import (
    "context"
    "path/filepath"
    "runtime"
    "testing"
    "time"

    "github.com/jackc/pgx/v5/pgxpool"
    "github.com/testcontainers/testcontainers-go"
    "github.com/testcontainers/testcontainers-go/modules/postgres"
    "github.com/testcontainers/testcontainers-go/wait"
)

// SetupTestDB создает тестовую БД с помощью testcontainers
func SetupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
    t.Helper()
    ctx := context.Background()

    // Находим путь к миграциям
    _, filename, _, _ := runtime.Caller(0)
    projectRoot := filepath.Dir(filepath.Dir(filename))
    migrationsPath := filepath.Join(projectRoot, "migrations")

    // Создаем PostgreSQL контейнер
    pgContainer, err := postgres.Run(ctx,
        "postgres:15-alpine",
        postgres.WithDatabase("testdb"),
        postgres.WithUsername("testuser"),
        postgres.WithPassword("testpass"),
        postgres.WithInitScripts(filepath.Join(migrationsPath, "000001_init.up.sql")),
        testcontainers.WithWaitStrategy(
            wait.ForLog("database system is ready to accept connections").
                WithOccurrence(2).
                WithStartupTimeout(30*time.Second),
        ),
    )
    if err != nil {
        t.Fatalf("Failed to start postgres container: %v", err)
    }

    connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
    if err != nil {
        t.Fatalf("Failed to get connection string: %v", err)
    }

    pool, err := pgxpool.New(ctx, connStr)
    if err != nil {
        t.Fatalf("Failed to connect to database: %v", err)
    }

    if err := pool.Ping(ctx); err != nil {
        t.Fatalf("Failed to ping database: %v", err)
    }

    cleanup := func() {
        pool.Close()
        if err := pgContainer.Terminate(ctx); err != nil {
            t.Errorf("Failed to terminate container: %v", err)
        }
    }

    return pool, cleanup
}

// TruncateTables очищает все таблицы
func TruncateTables(t *testing.T, pool *pgxpool.Pool) {
    t.Helper()
    ctx := context.Background()

    _, err := pool.Exec(ctx, "TRUNCATE tasks, inventory_transactions, inventory_items RESTART IDENTITY CASCADE")
    if err != nil {
        t.Fatalf("Failed to truncate tables: %v", err)
    }
}

// SeedTask вставляет задачу напрямую, минуя сервисный слой
func SeedTask(t *testing.T, pool *pgxpool.Pool, description, requester, urgency, category, status string, createdAt time.Time) string {
    t.Helper()
    ctx := context.Background()

    var id string
    err := pool.QueryRow(ctx, `
        INSERT INTO tasks (id, description, requester, urgency, category, status, created_at)
        VALUES (gen_random_uuid()::text, $1, $2, $3::urgency_level, $4::task_category, $5::task_status, $6)
        RETURNING id
    `, description, requester, urgency, category, status, createdAt).Scan(&id)
    if err != nil {
        t.Fatalf("Failed to seed task: %v", err)
    }
    return id
}

// SeedItem вставляет позицию склада напрямую
func SeedItem(t *testing.T, pool *pgxpool.Pool, name, category string, quantity int) string {
    t.Helper()
    ctx := context.Background()

    var id string
    err := pool.QueryRow(ctx, `
        INSERT INTO inventory_items (id, name, category, quantity)
        VALUES (gen_random_uuid()::text, $1, $2::inventory_category, $3)
        RETURNING id
    `, name, category, quantity).Scan(&id)
    if err != nil {
        t.Fatalf("Failed to seed item: %v", err)
    }
    return id
}

// WaitForCondition ждет выполнения условия с таймаутом
func WaitForCondition(t *testing.T, timeout time.Duration, condition func() bool) bool {
    t.Helper()

    deadline := time.Now().Add(timeout)
    for time.Now().Before(deadline) {
        if condition() {
            return true
        }
        time.Sleep(100 * time.Millisecond)
    }
    return false
}
