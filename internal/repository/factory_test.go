package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestGormDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestNewRepositories(t *testing.T) {
	db := newTestGormDB(t)

	repos := NewRepositories(db, "sqlite")
	require.NotNil(t, repos)
	assert.NotNil(t, repos.Job)
}

func TestRepositories_Close(t *testing.T) {
	db := newTestGormDB(t)
	repos := NewRepositories(db, "sqlite")

	err := repos.Close()
	assert.NoError(t, err)
}

func TestRepositories_DB(t *testing.T) {
	db := newTestGormDB(t)
	repos := NewRepositories(db, "sqlite")

	sqlDB := repos.DB()
	assert.NotNil(t, sqlDB)
}

func TestRepositories_GormDB(t *testing.T) {
	db := newTestGormDB(t)
	repos := NewRepositories(db, "sqlite")

	gormDB := repos.GormDB()
	assert.Equal(t, db, gormDB)
}

func TestRepositories_HealthCheck_Success(t *testing.T) {
	db := newTestGormDB(t)
	repos := NewRepositories(db, "sqlite")

	err := repos.HealthCheck(context.Background())
	assert.NoError(t, err)
}

// TestRepositories_HealthCheck_Failure simulates a broken connection
// without a real database, driving the ping through go-sqlmock's expectation
// queue rather than sqlite (sqlite has no notion of a dropped connection).
func TestRepositories_HealthCheck_Failure(t *testing.T) {
	sqlDB, mockDB, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mockDB.ExpectPing().WillReturnError(assert.AnError)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Silent),
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	repos := NewRepositories(gormDB, "postgres")
	err = repos.HealthCheck(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
	require.NoError(t, mockDB.ExpectationsWereMet())
}

func TestDBConfig_Validation(t *testing.T) {
	t.Run("ValidPostgresConfig", func(t *testing.T) {
		cfg := &DBConfig{
			Type:     "postgres",
			Host:     "localhost",
			Port:     5432,
			Database: "testdb",
			User:     "testuser",
			Password: "testpass",
			MaxConns: 10,
		}
		assert.Equal(t, "postgres", cfg.Type)
		assert.Equal(t, 5432, cfg.Port)
	})

	t.Run("ValidMySQLConfig", func(t *testing.T) {
		cfg := &DBConfig{
			Type:     "mysql",
			Host:     "localhost",
			Port:     3306,
			Database: "testdb",
			User:     "testuser",
			Password: "testpass",
			MaxConns: 10,
		}
		assert.Equal(t, "mysql", cfg.Type)
		assert.Equal(t, 3306, cfg.Port)
	})

	t.Run("ValidSQLiteConfig", func(t *testing.T) {
		cfg := &DBConfig{
			Type:     "sqlite",
			Database: "/tmp/layout.db",
		}
		assert.Equal(t, "sqlite", cfg.Type)
	})
}
