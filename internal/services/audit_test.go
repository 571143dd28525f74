package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/esgboard-dev/esgboard/db"
	"github.com/esgboard-dev/esgboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordPurchaseCapturesSnapshot(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice", "alice@example.com")
	org := "Acme Capital"
	require.NoError(t, db.DB.Model(user).Update("organization", org).Error)
	user.Organization = org

	entry, err := RecordPurchase(user, "Reliance Industries")
	require.NoError(t, err)

	require.NotNil(t, entry.UserID)
	require.NotNil(t, entry.UserIDRecorded)
	assert.EqualValues(t, user.ID, *entry.UserID)
	assert.EqualValues(t, user.ID, *entry.UserIDRecorded)
	assert.Equal(t, "Reliance Industries", entry.CompanyName)

	var snapshot models.UserSnapshotData
	require.NoError(t, json.Unmarshal(entry.UserSnapshot, &snapshot))
	assert.Equal(t, "alice", snapshot.Username)
	assert.Equal(t, "Acme Capital", snapshot.Organization)
}

func TestPurchaseLogSurvivesUserDeletion(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice", "alice@example.com")
	userID := user.ID

	_, err := RecordPurchase(user, "Reliance Industries")
	require.NoError(t, err)

	require.NoError(t, DeleteAccount(userID))

	entries, err := ListPurchaseLogs()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Nil(t, entry.UserID, "user reference cleared on deletion")
	require.NotNil(t, entry.UserIDRecorded)
	assert.EqualValues(t, userID, *entry.UserIDRecorded)
	assert.Contains(t, entry.DisplayName(), "Deleted User")
}

func TestListPurchaseLogsNewestFirst(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice", "alice@example.com")

	first, err := RecordPurchase(user, "Reliance Industries")
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	second, err := RecordPurchase(user, "Tata Motors")
	require.NoError(t, err)

	entries, err := ListPurchaseLogs()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, second.ID, entries[0].ID)
	assert.Equal(t, first.ID, entries[1].ID)
	assert.Equal(t, "alice", entries[0].User.Username, "user preloaded while the account exists")
}

func TestRecordPurchaseWithoutUser(t *testing.T) {
	setupTestDB(t)

	entry, err := RecordPurchase(nil, "Reliance Industries")
	require.NoError(t, err)

	assert.Nil(t, entry.UserID)
	assert.Nil(t, entry.UserIDRecorded)
	assert.Equal(t, "Unknown User", entry.DisplayName())
}
