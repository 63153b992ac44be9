// Package integration runs the credit service against a real PostgreSQL
// started with testcontainers and migrated with the embedded schema.
package integration

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creditline/backend/internal/infrastructure/migration"
	"github.com/creditline/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const postgresImage = "postgres:16-alpine"

// testPool keeps each test's footprint small; TestDatabase_HealthProbe
// asserts MaxOpenConns.
var testPool = persistence.PoolSettings{
	MaxOpenConns:    5,
	MaxIdleConns:    2,
	ConnMaxLifetime: 5 * time.Minute,
}

// sharedPG is the container reused by NewSharedTestDB, migrated once
var sharedPG struct {
	mu        sync.Mutex
	container *tcpostgres.PostgresContainer
	dsn       string
}

// TestDB is a migrated database for one test
type TestDB struct {
	DB    *gorm.DB
	SqlDB *sql.DB
	t     *testing.T
}

// NewTestDB starts a private container. Use it for tests that change the
// schema itself.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	skipIfShort(t)

	container, dsn := startPostgres(t, "credit_test")
	t.Cleanup(func() { terminate(t, container) })

	tdb := connect(t, dsn)
	migrateUp(t, tdb.SqlDB)
	return tdb
}

// NewSharedTestDB connects to the package container, starting and migrating
// it on first use, and empties every table.
func NewSharedTestDB(t *testing.T) *TestDB {
	t.Helper()
	skipIfShort(t)

	sharedPG.mu.Lock()
	if sharedPG.container == nil {
		container, dsn := startPostgres(t, "credit_shared_test")
		bootstrap := connect(t, dsn)
		migrateUp(t, bootstrap.SqlDB)
		_ = bootstrap.SqlDB.Close()
		sharedPG.container, sharedPG.dsn = container, dsn
	}
	dsn := sharedPG.dsn
	sharedPG.mu.Unlock()

	tdb := connect(t, dsn)
	tdb.CleanTables()
	return tdb
}

// CleanTables empties the application tables and resets their sequences
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	var tables []string
	require.NoError(tdb.t, tdb.DB.Raw(`
		SELECT quote_ident(tablename) FROM pg_tables
		WHERE schemaname = 'public' AND tablename <> 'schema_migrations'
	`).Scan(&tables).Error, "Failed to list tables")
	if len(tables) == 0 {
		return
	}

	stmt := "TRUNCATE TABLE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE"
	require.NoError(tdb.t, tdb.DB.Exec(stmt).Error, "Failed to truncate tables")
}

// Migrator returns a migrator on the embedded schema. Closing it closes
// SqlDB too.
func (tdb *TestDB) Migrator() *migration.Migrator {
	tdb.t.Helper()

	m, err := migration.New(tdb.SqlDB, "", zaptest.NewLogger(tdb.t))
	require.NoError(tdb.t, err, "Failed to create migrator")
	return m
}

// CleanupSharedContainer stops the package container. Called from TestMain.
func CleanupSharedContainer() {
	sharedPG.mu.Lock()
	defer sharedPG.mu.Unlock()

	if sharedPG.container == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = sharedPG.container.Terminate(ctx)
	sharedPG.container, sharedPG.dsn = nil, ""
}

func skipIfShort(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}

func startPostgres(t *testing.T, dbName string) (*tcpostgres.PostgresContainer, string) {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, postgresImage,
		tcpostgres.WithDatabase(dbName),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")
	return container, dsn
}

func terminate(t *testing.T, container *tcpostgres.PostgresContainer) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := container.Terminate(ctx); err != nil {
		t.Logf("Warning: failed to terminate container: %v", err)
	}
}

// connect opens the database the way the server does. TEST_DB_DEBUG=1
// prints every statement.
func connect(t *testing.T, dsn string) *TestDB {
	t.Helper()

	gormLog := gormlogger.Discard
	if os.Getenv("TEST_DB_DEBUG") != "" {
		gormLog = gormlogger.Default.LogMode(gormlogger.Info)
	}

	db, err := persistence.Open(context.Background(), gormpostgres.Open(dsn), testPool, gormLog)
	require.NoError(t, err, "Failed to connect to database")
	sqlDB, err := db.SQL()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return &TestDB{DB: db.DB, SqlDB: sqlDB, t: t}
}

// migrateUp applies the embedded schema. The migrator is left open since
// closing it would close sqlDB.
func migrateUp(t *testing.T, sqlDB *sql.DB) {
	t.Helper()

	m, err := migration.New(sqlDB, "", zap.NewNop())
	require.NoError(t, err, "Failed to create migrator")
	require.NoError(t, m.Up(), "Failed to run migrations")
}
