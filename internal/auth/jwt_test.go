package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qashsolutions/myhealthguide/pkg/core/model"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testCaregiver() model.Caregiver {
	return model.Caregiver{
		ID:       "cg-1",
		AgencyID: "agency-1",
		Role:     model.RoleAdmin,
	}
}

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	manager := NewJWTManager(testSecret, time.Hour)

	token, err := manager.Generate(testCaregiver())
	require.NoError(t, err)

	claims, err := manager.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "cg-1", claims.CaregiverID)
	assert.Equal(t, "agency-1", claims.AgencyID)
	assert.Equal(t, "admin", claims.Role)
}

func TestJWTManager_ExpiredToken(t *testing.T) {
	manager := NewJWTManager(testSecret, -time.Minute)

	token, err := manager.Generate(testCaregiver())
	require.NoError(t, err)

	_, err = manager.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	manager := NewJWTManager(testSecret, time.Hour)
	other := NewJWTManager("ffffffffffffffffffffffffffffffff", time.Hour)

	token, err := manager.Generate(testCaregiver())
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_Garbage(t *testing.T) {
	manager := NewJWTManager(testSecret, time.Hour)

	_, err := manager.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "correct horse battery"))
	assert.False(t, CheckPassword(hash, "wrong password"))
}

func TestHashPassword_TooShort(t *testing.T) {
	_, err := HashPassword("short")
	assert.ErrorIs(t, err, ErrWeakPassword)
}
