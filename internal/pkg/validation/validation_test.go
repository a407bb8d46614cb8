package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEvidenceHash(t *testing.T) {
	hex64 := strings.Repeat("ab", 32)
	assert.True(t, IsValidEvidenceHash(hex64))
	assert.True(t, IsValidEvidenceHash("sha256:"+hex64))
	assert.True(t, IsValidEvidenceHash(strings.ToUpper(hex64)))

	assert.False(t, IsValidEvidenceHash(""))
	assert.False(t, IsValidEvidenceHash("sha256:"))
	assert.False(t, IsValidEvidenceHash(hex64[:63]))
	assert.False(t, IsValidEvidenceHash(hex64+"a"))
	assert.False(t, IsValidEvidenceHash(strings.Repeat("zz", 32)))
	assert.False(t, IsValidEvidenceHash("md5:"+hex64))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("farmer@example.com"))
	assert.False(t, IsValidEmail("farmer@example"))
	assert.False(t, IsValidEmail("not-an-email"))
	assert.False(t, IsValidEmail(""))
}

func TestIsValidPassword(t *testing.T) {
	assert.True(t, IsValidPassword("s3cret!pw"))
	assert.False(t, IsValidPassword("short1!"))
	assert.False(t, IsValidPassword("nodigits!"))
	assert.False(t, IsValidPassword("nospecial1"))
}
