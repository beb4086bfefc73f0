package services

import (
	"testing"
	"time"

	"insightboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBlacklistService() *BlacklistService {
	audit := NewAuditService()
	security := NewSecurityService(nil)
	return NewBlacklistService(audit, security)
}

func TestBlockAndIsBlocked(t *testing.T) {
	setupTestDB(t)
	svc := newBlacklistService()

	blocked, err := svc.IsBlocked("10.0.0.5")
	require.NoError(t, err)
	assert.False(t, blocked)

	_, err = svc.Block("10.0.0.5", "abuse", true, nil, nil)
	require.NoError(t, err)

	// Idempotent reads
	for i := 0; i < 3; i++ {
		blocked, err = svc.IsBlocked("10.0.0.5")
		require.NoError(t, err)
		assert.True(t, blocked)
	}
}

func TestBlockDuplicateActive(t *testing.T) {
	setupTestDB(t)
	svc := newBlacklistService()

	_, err := svc.Block("10.0.0.5", "abuse", true, nil, nil)
	require.NoError(t, err)

	_, err = svc.Block("10.0.0.5", "more abuse", false, nil, nil)
	assert.ErrorIs(t, err, ErrAlreadyBlacklisted)

	var count int64
	models.DB.Model(&models.IPBlacklistEntry{}).Where("ip = ?", "10.0.0.5").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestExpiredEntryIsInactive(t *testing.T) {
	setupTestDB(t)
	svc := newBlacklistService()

	past := time.Now().Add(-1 * time.Hour)
	entry := &models.IPBlacklistEntry{
		IP:           "10.0.0.6",
		Reason:       "temporary",
		BlockedUntil: &past,
	}
	require.NoError(t, models.DB.Create(entry).Error)

	assert.False(t, entry.IsActive(time.Now()))

	blocked, err := svc.IsBlocked("10.0.0.6")
	require.NoError(t, err)
	assert.False(t, blocked)

	// The expired row stays; a new block for the same IP is allowed
	_, err = svc.Block("10.0.0.6", "again", true, nil, nil)
	require.NoError(t, err)

	var count int64
	models.DB.Model(&models.IPBlacklistEntry{}).Where("ip = ?", "10.0.0.6").Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestUnblockKeepsRow(t *testing.T) {
	setupTestDB(t)
	svc := newBlacklistService()

	_, err := svc.Block("10.0.0.7", "abuse", true, nil, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Unblock("10.0.0.7", nil))

	blocked, err := svc.IsBlocked("10.0.0.7")
	require.NoError(t, err)
	assert.False(t, blocked)

	var count int64
	models.DB.Model(&models.IPBlacklistEntry{}).Where("ip = ?", "10.0.0.7").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUnblockMissing(t *testing.T) {
	setupTestDB(t)
	svc := newBlacklistService()

	err := svc.Unblock("10.0.0.99", nil)
	assert.ErrorIs(t, err, ErrNotBlacklisted)
}

func TestTemporaryBlockWindow(t *testing.T) {
	setupTestDB(t)
	svc := newBlacklistService()

	until := time.Now().Add(30 * time.Minute)
	entry, err := svc.Block("10.0.0.8", "cooldown", false, &until, nil)
	require.NoError(t, err)

	assert.True(t, entry.IsActive(time.Now()))
	assert.False(t, entry.IsActive(until.Add(time.Second)))
}
