package blocks

import (
	"context"
	"testing"
	"time"

	"harborstay-backend/internal/database"
	"harborstay-backend/internal/domain"
	"harborstay-backend/internal/inventory"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupBlocksTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return &Service{DB: db, Inventory: &inventory.Service{DB: db}}, db
}

func blockDate(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func seedType(t *testing.T, svc *Service, from, to string, capacity int) uuid.UUID {
	roomType := domain.RoomType{Name: "Deluxe King", Code: "DLX-" + uuid.New().String()[:8], BaseRate: 150}
	require.NoError(t, svc.DB.Create(&roomType).Error)
	_, err := svc.Inventory.Seed(context.Background(), roomType.RoomTypeID, blockDate(from), blockDate(to), capacity)
	require.NoError(t, err)
	return roomType.RoomTypeID
}

func available(t *testing.T, db *gorm.DB, roomTypeID uuid.UUID, day string) int {
	var row domain.InventoryRow
	require.NoError(t, db.Where("room_type_id = ? AND date = ?", roomTypeID, blockDate(day)).First(&row).Error)
	return row.Available
}

func TestCreateBlock_DecrementsInclusiveRange(t *testing.T) {
	svc, db := setupBlocksTest(t)
	roomTypeID := seedType(t, svc, "2026-11-01", "2026-11-10", 10)

	block, err := svc.CreateBlock(context.Background(), CreateBlockInput{
		RoomTypeID: &roomTypeID,
		StartDate:  blockDate("2026-11-03"),
		EndDate:    blockDate("2026-11-05"),
		BlockType:  domain.BlockMaintenance,
		Quantity:   2,
		Reason:     "plumbing",
	})
	require.NoError(t, err)
	require.NotNil(t, block)

	// End date inclusive: the 3rd, 4th and 5th are all held.
	assert.Equal(t, 10, available(t, db, roomTypeID, "2026-11-02"))
	assert.Equal(t, 8, available(t, db, roomTypeID, "2026-11-03"))
	assert.Equal(t, 8, available(t, db, roomTypeID, "2026-11-04"))
	assert.Equal(t, 8, available(t, db, roomTypeID, "2026-11-05"))
	assert.Equal(t, 10, available(t, db, roomTypeID, "2026-11-06"))
}

func TestCreateBlock_SkipsOverbookingCeiling(t *testing.T) {
	svc, db := setupBlocksTest(t)
	roomTypeID := seedType(t, svc, "2026-11-01", "2026-11-03", 2)

	// Admin holds can push availability negative; there is no policy
	// check on this path.
	_, err := svc.CreateBlock(context.Background(), CreateBlockInput{
		RoomTypeID: &roomTypeID,
		StartDate:  blockDate("2026-11-01"),
		EndDate:    blockDate("2026-11-01"),
		BlockType:  domain.BlockOverbookingBuffer,
		Quantity:   5,
	})
	require.NoError(t, err)
	assert.Equal(t, -3, available(t, db, roomTypeID, "2026-11-01"))
}

func TestCreateBlock_MissingInventoryRowFails(t *testing.T) {
	svc, db := setupBlocksTest(t)
	roomTypeID := seedType(t, svc, "2026-11-01", "2026-11-03", 5)

	// Range runs past the seeded ledger; the whole block rolls back.
	_, err := svc.CreateBlock(context.Background(), CreateBlockInput{
		RoomTypeID: &roomTypeID,
		StartDate:  blockDate("2026-11-02"),
		EndDate:    blockDate("2026-11-04"),
		BlockType:  domain.BlockRenovation,
		Quantity:   1,
	})
	assert.ErrorIs(t, err, domain.ErrNoInventoryRow)
	assert.Equal(t, 5, available(t, db, roomTypeID, "2026-11-02"))
}

func TestCreateBlock_ValidatesInput(t *testing.T) {
	svc, _ := setupBlocksTest(t)
	roomTypeID := seedType(t, svc, "2026-11-01", "2026-11-03", 5)

	_, err := svc.CreateBlock(context.Background(), CreateBlockInput{
		RoomTypeID: &roomTypeID,
		StartDate:  blockDate("2026-11-01"),
		EndDate:    blockDate("2026-11-01"),
		BlockType:  "vacation",
		Quantity:   1,
	})
	assert.Error(t, err)

	_, err = svc.CreateBlock(context.Background(), CreateBlockInput{
		RoomTypeID: &roomTypeID,
		StartDate:  blockDate("2026-11-02"),
		EndDate:    blockDate("2026-11-01"),
		BlockType:  domain.BlockMaintenance,
		Quantity:   1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)

	_, err = svc.CreateBlock(context.Background(), CreateBlockInput{
		RoomTypeID: &roomTypeID,
		StartDate:  blockDate("2026-11-01"),
		EndDate:    blockDate("2026-11-01"),
		BlockType:  domain.BlockMaintenance,
		Quantity:   0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestCreateBlock_RoomSpecificOutOfOrder(t *testing.T) {
	svc, db := setupBlocksTest(t)
	roomTypeID := seedType(t, svc, "2026-11-01", "2026-11-03", 5)
	room := domain.Room{RoomTypeID: roomTypeID, Number: "301", Status: domain.RoomStatusVacant}
	require.NoError(t, db.Create(&room).Error)

	roomID := room.RoomID
	block, err := svc.CreateBlock(context.Background(), CreateBlockInput{
		RoomID:    &roomID,
		StartDate: blockDate("2026-11-01"),
		EndDate:   blockDate("2026-11-02"),
		BlockType: domain.BlockMaintenance,
		Quantity:  1,
		Reason:    "broken AC",
	})
	require.NoError(t, err)

	var updated domain.Room
	require.NoError(t, db.Where("room_id = ?", roomID).First(&updated).Error)
	assert.Equal(t, domain.RoomStatusOutOfOrder, updated.Status)

	// Room-specific blocks never touch the type ledger.
	assert.Equal(t, 5, available(t, db, roomTypeID, "2026-11-01"))

	_, err = svc.ReleaseBlock(context.Background(), block.BlockID)
	require.NoError(t, err)
	require.NoError(t, db.Where("room_id = ?", roomID).First(&updated).Error)
	assert.Equal(t, domain.RoomStatusVacant, updated.Status)
}

func TestReleaseBlock_RestoresFullQuantity(t *testing.T) {
	svc, db := setupBlocksTest(t)
	roomTypeID := seedType(t, svc, "2026-11-01", "2026-11-10", 10)

	block, err := svc.CreateBlock(context.Background(), CreateBlockInput{
		RoomTypeID: &roomTypeID,
		StartDate:  blockDate("2026-11-03"),
		EndDate:    blockDate("2026-11-05"),
		BlockType:  domain.BlockGroupHold,
		Quantity:   3,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, available(t, db, roomTypeID, "2026-11-03"))

	result, err := svc.ReleaseBlock(context.Background(), block.BlockID)
	require.NoError(t, err)
	assert.Equal(t, 3, result.ReleasedSlots)
	assert.Equal(t, 0, result.PickedUp)
	assert.NotNil(t, result.Block.ReleasedAt)

	for _, day := range []string{"2026-11-03", "2026-11-04", "2026-11-05"} {
		assert.Equal(t, 10, available(t, db, roomTypeID, day), day)
	}
}

func TestReleaseBlock_SubtractsPickedUpUnits(t *testing.T) {
	svc, db := setupBlocksTest(t)
	roomTypeID := seedType(t, svc, "2026-11-01", "2026-11-10", 10)

	block, err := svc.CreateBlock(context.Background(), CreateBlockInput{
		RoomTypeID: &roomTypeID,
		StartDate:  blockDate("2026-11-03"),
		EndDate:    blockDate("2026-11-05"),
		BlockType:  domain.BlockGroupHold,
		Quantity:   5,
	})
	require.NoError(t, err)

	// A confirmed group picked up 3 of the 5 held units.
	reservation := domain.Reservation{
		ConfirmationCode: "HBS-TEST-1",
		GuestName:        "Group Lead",
		Status:           domain.ReservationConfirmed,
		CheckIn:          blockDate("2026-11-03"),
		CheckOut:         blockDate("2026-11-06"),
	}
	require.NoError(t, db.Create(&reservation).Error)
	blockID := block.BlockID
	require.NoError(t, db.Create(&domain.ReservationRoomLeg{
		ReservationID: reservation.ReservationID,
		RoomTypeID:    roomTypeID,
		BlockID:       &blockID,
		Quantity:      3,
		Status:        domain.ReservationConfirmed,
	}).Error)

	result, err := svc.ReleaseBlock(context.Background(), blockID)
	require.NoError(t, err)
	assert.Equal(t, 3, result.PickedUp)
	assert.Equal(t, 2, result.ReleasedSlots)

	// 10 − 5 held + 2 unreleased back = 7; the picked-up 3 stay consumed.
	assert.Equal(t, 7, available(t, db, roomTypeID, "2026-11-03"))
}

func TestReleaseBlock_CancelledPickupDoesNotCount(t *testing.T) {
	svc, db := setupBlocksTest(t)
	roomTypeID := seedType(t, svc, "2026-11-01", "2026-11-10", 10)

	block, err := svc.CreateBlock(context.Background(), CreateBlockInput{
		RoomTypeID: &roomTypeID,
		StartDate:  blockDate("2026-11-03"),
		EndDate:    blockDate("2026-11-04"),
		BlockType:  domain.BlockGroupHold,
		Quantity:   4,
	})
	require.NoError(t, err)

	reservation := domain.Reservation{
		ConfirmationCode: "HBS-TEST-2",
		GuestName:        "Changed Mind",
		Status:           domain.ReservationCancelled,
		CheckIn:          blockDate("2026-11-03"),
		CheckOut:         blockDate("2026-11-05"),
	}
	require.NoError(t, db.Create(&reservation).Error)
	blockID := block.BlockID
	require.NoError(t, db.Create(&domain.ReservationRoomLeg{
		ReservationID: reservation.ReservationID,
		RoomTypeID:    roomTypeID,
		BlockID:       &blockID,
		Quantity:      2,
		Status:        domain.ReservationCancelled,
	}).Error)

	result, err := svc.ReleaseBlock(context.Background(), blockID)
	require.NoError(t, err)
	assert.Equal(t, 0, result.PickedUp)
	assert.Equal(t, 4, result.ReleasedSlots)
}

func TestReleaseBlock_DoubleReleaseFails(t *testing.T) {
	svc, db := setupBlocksTest(t)
	roomTypeID := seedType(t, svc, "2026-11-01", "2026-11-05", 10)

	block, err := svc.CreateBlock(context.Background(), CreateBlockInput{
		RoomTypeID: &roomTypeID,
		StartDate:  blockDate("2026-11-02"),
		EndDate:    blockDate("2026-11-03"),
		BlockType:  domain.BlockVIPHold,
		Quantity:   1,
	})
	require.NoError(t, err)

	_, err = svc.ReleaseBlock(context.Background(), block.BlockID)
	require.NoError(t, err)

	_, err = svc.ReleaseBlock(context.Background(), block.BlockID)
	assert.ErrorIs(t, err, domain.ErrBlockNotFoundOrReleased)

	// The second attempt restored nothing.
	assert.Equal(t, 10, available(t, db, roomTypeID, "2026-11-02"))
}

func TestReleaseBlock_UnknownBlock(t *testing.T) {
	svc, _ := setupBlocksTest(t)
	_, err := svc.ReleaseBlock(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrBlockNotFoundOrReleased)
}
