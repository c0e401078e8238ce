package testhelpers

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-blueprint/pkg/database"
)

const (
	// PostgresImage is the stock PostgreSQL image used for integration tests.
	PostgresImage = "postgres:17-alpine"
	// RedisImage is the stock Redis image used for cache integration tests.
	RedisImage = "redis:7-alpine"

	blueprintTestDatabase = "ekaya_blueprint_test"
)

// TestDB holds a shared test database container and a superuser connection pool.
type TestDB struct {
	Container testcontainers.Container
	Pool      *pgxpool.Pool
	ConnStr   string
}

var (
	sharedTestDB     *TestDB
	sharedTestDBOnce sync.Once
	sharedTestDBErr  error
)

// GetTestDB returns a shared PostgreSQL container for integration tests.
// The container is created once and reused across all tests in the run.
func GetTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	sharedTestDBOnce.Do(func() {
		sharedTestDB, sharedTestDBErr = setupTestDB()
	})

	if sharedTestDBErr != nil {
		t.Fatalf("Failed to setup test database: %v", sharedTestDBErr)
	}

	return sharedTestDB
}

func setupTestDB() (*TestDB, error) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        PostgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "postgres",
			"POSTGRES_USER":     "ekaya",
			"POSTGRES_PASSWORD": "test_password",
		},
		// The entrypoint restarts the server once after init, so the line appears twice.
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start test container: %w", err)
	}

	connStr, err := containerConnString(ctx, container, "postgres")
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection with retry
	for i := 0; i < 10; i++ {
		if err := pool.Ping(ctx); err == nil {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}

	return &TestDB{
		Container: container,
		Pool:      pool,
		ConnStr:   connStr,
	}, nil
}

func containerConnString(ctx context.Context, container testcontainers.Container, dbName string) (string, error) {
	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return "", fmt.Errorf("failed to get container port: %w", err)
	}

	return fmt.Sprintf("postgres://ekaya:test_password@%s:%s/%s?sslmode=disable",
		host, port.Port(), dbName), nil
}

// BlueprintDB holds the application database with migrations applied.
// Use this for testing handlers, services, and repositories against a real database.
// The connection user is a superuser, so row level security is bypassed;
// repositories still filter by owner explicitly.
type BlueprintDB struct {
	DB      *database.DB
	ConnStr string
}

var (
	sharedBlueprintDB     *BlueprintDB
	sharedBlueprintDBOnce sync.Once
	sharedBlueprintDBErr  error
)

// GetBlueprintDB returns a shared application database for integration tests.
// The database has migrations applied and is reused across all tests.
func GetBlueprintDB(t *testing.T) *BlueprintDB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	testDB := GetTestDB(t)

	sharedBlueprintDBOnce.Do(func() {
		sharedBlueprintDB, sharedBlueprintDBErr = setupBlueprintDB(testDB)
	})

	if sharedBlueprintDBErr != nil {
		t.Fatalf("Failed to setup blueprint database: %v", sharedBlueprintDBErr)
	}

	return sharedBlueprintDB
}

func setupBlueprintDB(testDB *TestDB) (*BlueprintDB, error) {
	ctx := context.Background()

	_, _ = testDB.Pool.Exec(ctx, "DROP DATABASE IF EXISTS "+blueprintTestDatabase)
	if _, err := testDB.Pool.Exec(ctx, "CREATE DATABASE "+blueprintTestDatabase); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", blueprintTestDatabase, err)
	}

	connStr, err := containerConnString(ctx, testDB.Container, blueprintTestDatabase)
	if err != nil {
		return nil, err
	}

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            connStr,
		MaxConnections: 10,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to blueprint database: %w", err)
	}

	// Run migrations using database/sql (required by golang-migrate)
	sqlDB, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open sql connection: %w", err)
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &BlueprintDB{
		DB:      db,
		ConnStr: connStr,
	}, nil
}

// CreateOwnerScope returns a context holding an owner scope for ownerID.
// The scope is closed when the test finishes.
func (b *BlueprintDB) CreateOwnerScope(t *testing.T, ownerID string) context.Context {
	t.Helper()

	provider := database.NewOwnerScopeProvider(b.DB)
	ctx, cleanup, err := provider.WithOwnerScope(context.Background(), ownerID)
	if err != nil {
		t.Fatalf("Failed to create owner scope: %v", err)
	}
	t.Cleanup(cleanup)
	return ctx
}

// Truncate removes every row from the application tables.
func (b *BlueprintDB) Truncate(t *testing.T) {
	t.Helper()
	_, err := b.DB.Exec(context.Background(), "TRUNCATE bp_projects CASCADE")
	if err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
}

var (
	sharedRedis     *redis.Client
	sharedRedisOnce sync.Once
	sharedRedisErr  error
)

// GetTestRedis returns a client for a shared Redis container.
// Each call flushes the database so tests start empty.
func GetTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	sharedRedisOnce.Do(func() {
		sharedRedis, sharedRedisErr = setupRedis()
	})

	if sharedRedisErr != nil {
		t.Fatalf("Failed to setup test redis: %v", sharedRedisErr)
	}

	if err := sharedRedis.FlushDB(context.Background()).Err(); err != nil {
		t.Fatalf("Failed to flush redis: %v", err)
	}
	return sharedRedis
}

func setupRedis() (*redis.Client, error) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        RedisImage,
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start redis container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	client := redis.NewClient(&redis.Options{Addr: host + ":" + port.Port()})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}
