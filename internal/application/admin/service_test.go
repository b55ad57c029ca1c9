package admin

import (
	"context"
	"errors"
	"testing"

	"github.com/mubs-locator/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClaims keeps claims per uid in a map.
type fakeClaims struct {
	users map[string]map[string]interface{}
}

func (f *fakeClaims) SetCustomClaims(_ context.Context, uid string, claims map[string]interface{}) error {
	if _, ok := f.users[uid]; !ok {
		return domain.ErrNotFound
	}
	f.users[uid] = claims
	return nil
}

func (f *fakeClaims) CustomClaims(_ context.Context, uid string) (map[string]interface{}, error) {
	c, ok := f.users[uid]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func TestGrantAndRevoke_PreserveOtherClaims(t *testing.T) {
	fc := &fakeClaims{users: map[string]map[string]interface{}{
		"uid-1": {"staff": true},
	}}
	svc := NewService(fc)

	claims, err := svc.Grant(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"staff": true, "admin": true}, claims)

	claims, err = svc.Revoke(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"staff": true}, claims)
}

func TestGrant_UnknownUser(t *testing.T) {
	svc := NewService(&fakeClaims{users: map[string]map[string]interface{}{}})
	_, err := svc.Grant(context.Background(), "nobody")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestGrant_EmptyUID(t *testing.T) {
	svc := NewService(&fakeClaims{})
	_, err := svc.Grant(context.Background(), " ")
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}
