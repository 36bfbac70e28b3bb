package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedUser struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

func setupRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	InitRedis(mr.Addr())
	t.Cleanup(Close)
	return mr
}

func TestGetSetJSON(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()

	found, err := GetJSON(ctx, UserKey(1), &cachedUser{})
	require.NoError(t, err)
	assert.False(t, found)

	want := cachedUser{ID: 1, Email: "reader@example.com"}
	require.NoError(t, SetJSON(ctx, UserKey(1), want, UserTTL))

	var got cachedUser
	found, err = GetJSON(ctx, UserKey(1), &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)
}

func TestAside(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *cachedUser) func() error {
		return func() error {
			calls++
			*dest = cachedUser{ID: 7, Email: "author@example.com"}
			return nil
		}
	}

	var first cachedUser
	require.NoError(t, Aside(ctx, UserKey(7), &first, UserTTL, fetch(&first)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, uint(7), first.ID)

	// Second read is served from cache
	var second cachedUser
	require.NoError(t, Aside(ctx, UserKey(7), &second, UserTTL, fetch(&second)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestInvalidateUser(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, UserKey(3), cachedUser{ID: 3}, UserTTL))
	require.NoError(t, SetJSON(ctx, ProfileKey(3), cachedUser{ID: 3}, ProfileTTL))

	InvalidateUser(ctx, 3)

	found, err := GetJSON(ctx, UserKey(3), &cachedUser{})
	require.NoError(t, err)
	assert.False(t, found)
	found, err = GetJSON(ctx, ProfileKey(3), &cachedUser{})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetJSON_NilClient(t *testing.T) {
	client = nil

	found, err := GetJSON(context.Background(), "user:1", &cachedUser{})
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, SetJSON(context.Background(), "user:1", cachedUser{}, time.Minute))
}
