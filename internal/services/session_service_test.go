package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/olfat123/profile-creator/internal/cache"
	"github.com/olfat123/profile-creator/internal/models"
	"github.com/olfat123/profile-creator/internal/utils"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionService_Lifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	store := cache.NewRedisCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	svc := NewSessionService(store, time.Hour)
	ctx := context.Background()

	ss, err := svc.Create(ctx, testAccountID, models.RoleUser)
	require.NoError(t, err)
	assert.True(t, mr.Exists("session:"+ss.SessionID))

	got, err := svc.Get(ctx, ss.SessionID)
	require.NoError(t, err)
	assert.Equal(t, testAccountID, got.AccountID)
	assert.Equal(t, "user", got.Role)

	require.NoError(t, svc.Destroy(ctx, ss.SessionID))
	_, err = svc.Get(ctx, ss.SessionID)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestSessionService_Expiry(t *testing.T) {
	mr := miniredis.RunT(t)
	svc := NewSessionService(cache.NewRedisCache(redis.NewClient(&redis.Options{Addr: mr.Addr()})), time.Minute)
	ctx := context.Background()

	ss, err := svc.Create(ctx, testAccountID, models.RoleUser)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	_, err = svc.Get(ctx, ss.SessionID)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestSessionService_RequiresAccount(t *testing.T) {
	svc := NewSessionService(cache.NewMemoryCache(), 0)
	_, err := svc.Create(context.Background(), "", models.RoleUser)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}
