package repository

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motolog/motolog/internal/models"
)

// testDB connects to MOTOLOG_TEST_DATABASE_URL, skipping when it is not set.
func testDB(t *testing.T) *DB {
	t.Helper()
	url := os.Getenv("MOTOLOG_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("MOTOLOG_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := New(ctx, url)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx))
	t.Cleanup(db.Close)
	return db
}

func newTestRider(t *testing.T, db *DB) string {
	t.Helper()
	rider := "test-" + uuid.NewString()
	t.Cleanup(func() {
		db.Pool.Exec(context.Background(), `DELETE FROM maintenances WHERE rider_id = $1`, rider)
	})
	return rider
}

func TestMaintenanceLog_KeepsOneOpenPerType(t *testing.T) {
	db := testDB(t)
	repo := NewMaintenanceRepository(db)
	rider := newTestRider(t, db)
	ctx := context.Background()

	logs := []models.Maintenance{
		{Type: "oil", Odometer: 1000},
		{Type: "tyres", Odometer: 1500},
		{Type: " Oil ", Odometer: 2000},
		{Type: "oil", Odometer: 3000},
	}
	var lastClosed *models.Maintenance
	for i := range logs {
		m := logs[i]
		m.RiderID = rider
		m.PerformedAt = time.Now()
		closed, err := repo.Log(ctx, &m)
		require.NoError(t, err)
		lastClosed = closed
	}

	require.NotNil(t, lastClosed)
	assert.Equal(t, 2000.0, lastClosed.Odometer)

	open, err := repo.ListOpen(ctx, rider)
	require.NoError(t, err)
	require.Len(t, open, 2)

	count, err := repo.CountByRider(ctx, rider)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestMaintenanceLog_ConcurrentLogsOfOneType(t *testing.T) {
	db := testDB(t)
	repo := NewMaintenanceRepository(db)
	rider := newTestRider(t, db)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(odometer float64) {
			defer wg.Done()
			m := &models.Maintenance{RiderID: rider, Type: "chain", Odometer: odometer, PerformedAt: time.Now()}
			_, err := repo.Log(ctx, m)
			errs <- err
		}(float64(1000 + i))
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	open, err := repo.ListOpen(ctx, rider)
	require.NoError(t, err)
	assert.Len(t, open, 1)

	count, err := repo.CountByRider(ctx, rider)
	require.NoError(t, err)
	assert.Equal(t, int64(n), count)
}
