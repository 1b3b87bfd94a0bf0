package inventory

import (
	"context"
	"testing"
	"time"

	"harborstay-backend/internal/database"
	"harborstay-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupInventoryTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return &Service{DB: db}, db
}

func createRoomType(t *testing.T, db *gorm.DB) domain.RoomType {
	roomType := domain.RoomType{Name: "Deluxe King", Code: "DLX-" + uuid.New().String()[:8], BaseRate: 150}
	require.NoError(t, db.Create(&roomType).Error)
	return roomType
}

func date(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSeed_CreatesRows(t *testing.T) {
	svc, db := setupInventoryTest(t)
	roomType := createRoomType(t, db)

	seeded, err := svc.Seed(context.Background(), roomType.RoomTypeID, date("2026-10-01"), date("2026-10-04"), 10)
	require.NoError(t, err)
	assert.Equal(t, 3, seeded)

	var rows []domain.InventoryRow
	require.NoError(t, db.Where("room_type_id = ?", roomType.RoomTypeID).Order("date").Find(&rows).Error)
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Equal(t, 10, row.Capacity)
		assert.Equal(t, 10, row.Available)
	}
}

func TestSeed_ReseedKeepsConsumption(t *testing.T) {
	svc, db := setupInventoryTest(t)
	roomType := createRoomType(t, db)

	_, err := svc.Seed(context.Background(), roomType.RoomTypeID, date("2026-10-01"), date("2026-10-02"), 10)
	require.NoError(t, err)

	// Consume 4 units, then grow capacity to 12.
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		row, err := svc.LockNight(tx, roomType.RoomTypeID, date("2026-10-01"))
		require.NoError(t, err)
		return svc.Adjust(tx, row, -4)
	}))

	_, err = svc.Seed(context.Background(), roomType.RoomTypeID, date("2026-10-01"), date("2026-10-02"), 12)
	require.NoError(t, err)

	var row domain.InventoryRow
	require.NoError(t, db.Where("room_type_id = ? AND date = ?", roomType.RoomTypeID, date("2026-10-01")).First(&row).Error)
	assert.Equal(t, 12, row.Capacity)
	assert.Equal(t, 8, row.Available) // 4 still consumed
}

func TestSeed_UnknownRoomType(t *testing.T) {
	svc, _ := setupInventoryTest(t)
	_, err := svc.Seed(context.Background(), uuid.New(), date("2026-10-01"), date("2026-10-02"), 10)
	assert.ErrorIs(t, err, domain.ErrRoomTypeNotFound)
}

func TestCheckAvailability_MissingNightIsZeroCapacity(t *testing.T) {
	svc, db := setupInventoryTest(t)
	roomType := createRoomType(t, db)

	_, err := svc.Seed(context.Background(), roomType.RoomTypeID, date("2026-10-01"), date("2026-10-02"), 5)
	require.NoError(t, err)

	result, err := svc.CheckAvailability(context.Background(), roomType.RoomTypeID, date("2026-10-01"), date("2026-10-03"))
	require.NoError(t, err)
	require.Len(t, result.PerNight, 2)
	assert.Equal(t, 5, result.PerNight[0].Available)
	assert.Equal(t, 0, result.PerNight[1].Capacity)
	assert.Equal(t, 0, result.PerNight[1].Available)
	assert.Equal(t, 0, result.MinAvailable)
	assert.False(t, result.IsAvailable)
}

func TestCheckAvailability_InvalidRange(t *testing.T) {
	svc, db := setupInventoryTest(t)
	roomType := createRoomType(t, db)

	_, err := svc.CheckAvailability(context.Background(), roomType.RoomTypeID, date("2026-10-03"), date("2026-10-03"))
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}

func TestLockNight_MissingRowIsHardFailure(t *testing.T) {
	svc, db := setupInventoryTest(t)
	roomType := createRoomType(t, db)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := svc.LockNight(tx, roomType.RoomTypeID, date("2026-10-01"))
		return err
	})
	assert.ErrorIs(t, err, domain.ErrNoInventoryRow)
}

func TestAdjust_BumpsVersion(t *testing.T) {
	svc, db := setupInventoryTest(t)
	roomType := createRoomType(t, db)

	_, err := svc.Seed(context.Background(), roomType.RoomTypeID, date("2026-10-01"), date("2026-10-02"), 10)
	require.NoError(t, err)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		row, err := svc.LockNight(tx, roomType.RoomTypeID, date("2026-10-01"))
		require.NoError(t, err)
		return svc.Adjust(tx, row, -3)
	}))

	var row domain.InventoryRow
	require.NoError(t, db.Where("room_type_id = ?", roomType.RoomTypeID).First(&row).Error)
	assert.Equal(t, 7, row.Available)
	assert.Equal(t, 1, row.Version)
}
