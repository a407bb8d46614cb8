package authority

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve_Defaults(t *testing.T) {
	r := NewRegistry(nil)
	assert.Equal(t, "usda-nop", r.Resolve("USDA"))
	assert.Equal(t, "npop-india", r.Resolve("NPOP"))
	assert.Equal(t, "eu-organic", r.Resolve("EU-BIO"))
}

func TestResolve_Normalizes(t *testing.T) {
	r := NewRegistry(nil)
	assert.Equal(t, "usda-nop", r.Resolve("usda"))
	assert.Equal(t, "usda-nop", r.Resolve("  Usda "))
}

func TestResolve_Unknown(t *testing.T) {
	r := NewRegistry(nil)
	assert.Equal(t, UnknownID, r.Resolve("Regional Cooperative"))
	assert.Equal(t, UnknownID, r.Resolve(""))
}

func TestResolve_CustomEntries(t *testing.T) {
	r := NewRegistry(map[string]string{"acme": "acme-certs"})
	assert.Equal(t, "acme-certs", r.Resolve("ACME"))
	assert.Equal(t, UnknownID, r.Resolve("USDA"))
}
