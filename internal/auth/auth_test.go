package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkjunho/labor-settlement/internal/model"
)

func TestParseRoundTrip(t *testing.T) {
	parser := NewParser("test-secret")
	teamID := uuid.New()
	principal := model.Principal{
		UserID: uuid.New(),
		Name:   "김반장",
		Role:   model.RoleManager,
		TeamID: &teamID,
	}

	token, err := parser.Sign(principal, time.Minute)
	require.NoError(t, err)

	parsed, err := parser.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, principal.UserID, parsed.UserID)
	assert.Equal(t, principal.Name, parsed.Name)
	assert.Equal(t, model.RoleManager, parsed.Role)
	require.NotNil(t, parsed.TeamID)
	assert.Equal(t, teamID, *parsed.TeamID)
}

func TestParseWithoutTeam(t *testing.T) {
	parser := NewParser("test-secret")
	principal := model.Principal{UserID: uuid.New(), Name: "관리자", Role: model.RoleAdmin}

	token, err := parser.Sign(principal, time.Minute)
	require.NoError(t, err)

	parsed, err := parser.Parse(token)
	require.NoError(t, err)
	assert.Nil(t, parsed.TeamID)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := NewParser("secret-a").Sign(model.Principal{UserID: uuid.New(), Role: model.RoleWorker}, time.Minute)
	require.NoError(t, err)

	_, err = NewParser("secret-b").Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	parser := NewParser("test-secret")
	token, err := parser.Sign(model.Principal{UserID: uuid.New(), Role: model.RoleWorker}, -time.Minute)
	require.NoError(t, err)

	_, err = parser.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsUnknownRole(t *testing.T) {
	parser := NewParser("test-secret")
	token, err := parser.Sign(model.Principal{UserID: uuid.New(), Role: model.Role("SUPERUSER")}, time.Minute)
	require.NoError(t, err)

	_, err = parser.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	parser := NewParser("test-secret")
	for _, raw := range []string{"", "   ", "not-a-token", "a.b.c"} {
		_, err := parser.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}
