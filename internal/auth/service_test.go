package auth

import (
	"testing"

	"pomona-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestVerifyUser_Nil(t *testing.T) {
	u, err := VerifyUser(nil)
	assert.Nil(t, u)
	assert.Equal(t, ErrNotAuthenticated, err)
}

func TestVerifyUser_EmptyMap(t *testing.T) {
	u, err := VerifyUser(map[string]interface{}{})
	assert.Nil(t, u)
	assert.Equal(t, ErrNotAuthenticated, err)
}

func TestVerifyUser_NoUserID(t *testing.T) {
	u, err := VerifyUser(map[string]interface{}{
		"fullname": "Test",
		"email":    "a@b.com",
	})
	assert.Nil(t, u)
	assert.Equal(t, ErrNotAuthenticated, err)
}

func TestVerifyUser_Valid(t *testing.T) {
	u, err := VerifyUser(map[string]interface{}{
		"user_id":   "550e8400-e29b-41d4-a716-446655440000",
		"fullname":  "Asha Patil",
		"email":     "asha@example.com",
		"role":      models.RoleFarmer,
		"farmer_id": float64(7), // JSON round-trip through Redis
	})
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", u.UserID)
	assert.Equal(t, "Asha Patil", u.Fullname)
	assert.Equal(t, models.RoleFarmer, u.Role)
	require.NotNil(t, u.FarmerID)
	assert.Equal(t, uint(7), *u.FarmerID)
}

func TestVerifyUser_NilFarmerID(t *testing.T) {
	u, err := VerifyUser(map[string]interface{}{
		"user_id":  "550e8400-e29b-41d4-a716-446655440000",
		"fullname": "Verifier",
		"email":    "v@example.com",
		"role":     models.RoleVerifier,
	})
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Nil(t, u.FarmerID)
}

func setupAuthTest(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func TestLoginUser(t *testing.T) {
	db := setupAuthTest(t)

	hash, err := HashPassword("s3cret!pw")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{
		Fullname:     "Asha Patil",
		Email:        "asha@example.com",
		PasswordHash: hash,
		Role:         models.RoleFarmer,
	}).Error)

	u, err := LoginUser(db, LoginInput{Email: "asha@example.com", Password: "s3cret!pw"})
	require.NoError(t, err)
	assert.Equal(t, "Asha Patil", u.Fullname)

	_, err = LoginUser(db, LoginInput{Email: "asha@example.com", Password: "wrong"})
	assert.Equal(t, ErrIncorrectPassword, err)

	_, err = LoginUser(db, LoginInput{Email: "nobody@example.com", Password: "s3cret!pw"})
	assert.Equal(t, ErrInvalidEmail, err)

	_, err = LoginUser(db, LoginInput{Email: "", Password: ""})
	assert.Equal(t, ErrEmailPasswordRequired, err)
}
