package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/scafi/integration-backend/internal/domain/relay"
	"github.com/scafi/integration-backend/internal/domain/shared"
)

func newMockIntegrationLogRepository(t *testing.T) (*GormIntegrationLogRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormIntegrationLogRepository(db, false, zap.NewNop()), mock
}

func TestGormIntegrationLogRepository_Append(t *testing.T) {
	t.Run("inserts one row and assigns an id", func(t *testing.T) {
		repo, mock := newMockIntegrationLogRepository(t)

		mock.ExpectExec(`INSERT INTO "integration_log"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		entry := &relay.IntegrationLogEntry{
			ObjectID:        "INV-001",
			ObjectType:      "fattura",
			Message:         "OK",
			Status:          "SUCCESS",
			LogID:           "77",
			IntegrationType: relay.DocumentTypeInvoice,
			Company:         "00001",
		}

		err := repo.Append(context.Background(), entry)
		require.NoError(t, err)
		assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", entry.ID.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("keeps a caller supplied id", func(t *testing.T) {
		repo, mock := newMockIntegrationLogRepository(t)

		mock.ExpectExec(`INSERT INTO "integration_log"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		id := uuid.New()
		entry := &relay.IntegrationLogEntry{ID: id, ObjectID: "P-1"}

		err := repo.Append(context.Background(), entry)
		require.NoError(t, err)
		assert.Equal(t, id, entry.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates database errors", func(t *testing.T) {
		repo, mock := newMockIntegrationLogRepository(t)

		mock.ExpectExec(`INSERT INTO "integration_log"`).
			WillReturnError(assert.AnError)

		err := repo.Append(context.Background(), &relay.IntegrationLogEntry{ObjectID: "INV-002"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to insert integration log")
	})
}

func TestGormIntegrationLogRepository_AmendMessage(t *testing.T) {
	t.Run("updates message by log id", func(t *testing.T) {
		repo, mock := newMockIntegrationLogRepository(t)

		mock.ExpectExec(`UPDATE "integration_log" SET "message"`).
			WithArgs("detailed error text", "42").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.AmendMessage(context.Background(), "42", "detailed error text")
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports a missing log id as not found", func(t *testing.T) {
		repo, mock := newMockIntegrationLogRepository(t)

		mock.ExpectExec(`UPDATE "integration_log" SET "message"`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.AmendMessage(context.Background(), "99", "text")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("propagates database errors", func(t *testing.T) {
		repo, mock := newMockIntegrationLogRepository(t)

		mock.ExpectExec(`UPDATE "integration_log" SET "message"`).
			WillReturnError(assert.AnError)

		err := repo.AmendMessage(context.Background(), "42", "text")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to update integration log")
	})
}

func TestGormIntegrationLogRepository_Offline(t *testing.T) {
	repo := NewGormIntegrationLogRepository(nil, true, zap.NewNop())

	assert.NoError(t, repo.Append(context.Background(), &relay.IntegrationLogEntry{ObjectID: "INV-003"}))
	assert.NoError(t, repo.AmendMessage(context.Background(), "42", "text"))
}
