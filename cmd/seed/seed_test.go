package main

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Anittaa1111/Hostel-Management/internal/models"
	"github.com/Anittaa1111/Hostel-Management/internal/repository"
	"github.com/Anittaa1111/Hostel-Management/internal/utils"
)

func TestSeed_IsRepeatable(t *testing.T) {
	ctx := context.Background()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))
	store := repository.NewGormStore(db)
	t.Cleanup(func() { _ = store.Close(ctx) })

	for i := 0; i < 2; i++ {
		res, err := seed(ctx, store, time.Now)
		require.NoError(t, err)
		assert.Equal(t, 2, res.Users)
		assert.Equal(t, len(sampleHostels), res.Hostels)
	}

	n, err := store.Users.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	admin, err := store.Users.GetByEmail(ctx, adminEmail)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCentralAuthority, admin.Role)
	assert.True(t, admin.CanAuthenticate())
	assert.True(t, utils.CheckPassword(admin.PasswordHash, seedPassword))

	owner, err := store.Users.GetByEmail(ctx, ownerEmail)
	require.NoError(t, err)
	owned, err := store.Hostels.Count(ctx, repository.HostelFilter{OwnerID: owner.ID})
	require.NoError(t, err)
	assert.EqualValues(t, len(sampleHostels), owned)

	verified, err := store.Hostels.Count(ctx, repository.HostelFilter{VerifiedOnly: true})
	require.NoError(t, err)
	assert.EqualValues(t, 5, verified)
}
