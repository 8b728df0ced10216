package catalog_test

import (
	"context"
	"errors"
	"testing"

	"event-sync/feature/events/catalog"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestUpsertLookupFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	upserter := newUpserter(db)

	mock.ExpectQuery("SELECT (.+) FROM `events`").
		WillReturnError(errors.New("connection lost"))

	rec := catalog.CanonicalEvent{
		ExternalID: "EB1",
		Source:     catalog.SourceEventbrite,
		Status:     "live",
	}

	outcome, err := upserter.Upsert(context.Background(), rec, true, 0)
	assert.Equal(t, catalog.OutcomeFailed, outcome)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection lost")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertVenueFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	logger := zap.NewNop()
	venues := catalog.NewVenueResolver(db, logger)
	upserter := catalog.NewUpserter(db, venues, nil, logger)

	// Event lookup misses, then the place lookup blows up.
	mock.ExpectQuery("SELECT (.+) FROM `events`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT (.+) FROM `places`").
		WillReturnError(errors.New("connection lost"))

	rec := catalog.CanonicalEvent{
		ExternalID: "EB2",
		Source:     catalog.SourceEventbrite,
		Status:     "live",
		Venue:      &catalog.VenueInfo{Name: "Blue Note"},
	}

	outcome, err := upserter.Upsert(context.Background(), rec, true, 0)
	assert.Equal(t, catalog.OutcomeFailed, outcome)
	assert.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
