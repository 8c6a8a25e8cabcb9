package utils

import (
	"regexp"
	"testing"
	"time"

	"aesthetx/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageSlice(t *testing.T) {
	results := make([]int, 30)
	for i := range results {
		results[i] = i
	}

	first := PageSlice(results, 1, 24)
	require.Len(t, first, 24)
	assert.Equal(t, 0, first[0])
	assert.Equal(t, 23, first[23])

	second := PageSlice(results, 2, 24)
	require.Len(t, second, 6)
	assert.Equal(t, 24, second[0])
	assert.Equal(t, 29, second[5])

	assert.Empty(t, PageSlice(results, 3, 24))
	assert.Equal(t, 2, TotalPages(30, 24))
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(0, 0, 20)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.Limit)
	assert.Equal(t, 0, p.Offset)

	p = NewPagination(3, 500, 20)
	assert.Equal(t, MaxPageSize, p.Limit)
	assert.Equal(t, 2*MaxPageSize, p.Offset)

	p.SetTotal(201)
	assert.Equal(t, 3, p.TotalPages)
}

func TestIdentifierFormats(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`^AX-[0-9a-f]{8}$`), GenerateItemID())

	now := time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC)
	assert.Regexp(t, regexp.MustCompile(`^AX-20240131-[0-9A-F]{6}$`), GenerateOrderNumber(now))
}

func TestSessionTokenRoundTrip(t *testing.T) {
	user := &models.User{ID: 7, Email: "a@b.co", Role: models.RoleAdmin}
	token, err := GenerateSessionToken("secret", "4b1d7c2e-0000-4000-8000-000000000001", user, time.Now().Add(time.Hour))
	require.NoError(t, err)

	claims, err := ParseSessionToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "4b1d7c2e-0000-4000-8000-000000000001", claims.SessionID())
	assert.True(t, claims.HasPermission(models.PermissionProductWrite))

	_, err = ParseSessionToken("other-secret", token)
	assert.Error(t, err)
}

func TestSessionTokenExpired(t *testing.T) {
	user := &models.User{ID: 1, Role: models.RoleUser}
	token, err := GenerateSessionToken("secret", "sid", user, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = ParseSessionToken("secret", token)
	assert.Error(t, err)
}
