package services

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chachabrian/ridebook-backend/internal/config"
	"github.com/chachabrian/ridebook-backend/internal/ledger"
	"github.com/chachabrian/ridebook-backend/internal/models"
)

func TestReceiptArchiverLocal(t *testing.T) {
	dir := t.TempDir()
	a, err := InitStorage(config.Storage{ReceiptDir: dir}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, a.IsUsingS3())

	event := ledger.RideEvent{
		Type: ledger.EventCompleted,
		Ride: models.RideBooking{
			BookingID:     "b1",
			From:          "A",
			To:            "B",
			UserID:        "u1",
			UserName:      "Alice",
			SharedUserIDs: []string{"u2"},
			Fare:          12.5,
			DriverName:    "Jane Smith",
			CarName:       "Ford Focus",
		},
		At: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, a.Notify(context.Background(), event))

	raw, err := os.ReadFile(filepath.Join(dir, "receipts", "b1.json"))
	require.NoError(t, err)
	var receipt Receipt
	require.NoError(t, json.Unmarshal(raw, &receipt))
	assert.Equal(t, "b1", receipt.BookingID)
	assert.Equal(t, []string{"u1", "u2"}, receipt.Riders)
	assert.Equal(t, 12.5, receipt.Fare)
	assert.True(t, event.At.Equal(receipt.CompletedAt))
}

func TestReceiptArchiverIgnoresOtherEvents(t *testing.T) {
	dir := t.TempDir()
	a, err := InitStorage(config.Storage{ReceiptDir: dir}, zap.NewNop())
	require.NoError(t, err)

	for _, typ := range []ledger.EventType{ledger.EventCreated, ledger.EventCancelled, ledger.EventFeedback} {
		require.NoError(t, a.Notify(context.Background(), ledger.RideEvent{Type: typ, Ride: models.RideBooking{BookingID: "b1"}}))
	}
	entries, err := os.ReadDir(filepath.Join(dir, "receipts"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReceiptPathStaysInFolder(t *testing.T) {
	dir := t.TempDir()
	a, err := InitStorage(config.Storage{ReceiptDir: dir}, zap.NewNop())
	require.NoError(t, err)

	path, err := a.Archive(context.Background(), Receipt{BookingID: "../../etc/passwd"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "receipts"), filepath.Dir(path))
}
