// Package authority resolves certifying-body names to stable ids for
// attribution on certificates.
package authority

import "strings"

// UnknownID is attributed when a name has no registry entry. Unmatched names
// are still accepted; attribution just stays generic.
const UnknownID = "unknown"

// Registry maps normalized authority names to ids.
type Registry struct {
	byName map[string]string
}

// DefaultEntries covers the certifying bodies the platform launched with.
var DefaultEntries = map[string]string{
	"NPOP":     "npop-india",
	"USDA":     "usda-nop",
	"EU-BIO":   "eu-organic",
	"JAS":      "jas-japan",
	"INDOCERT": "indocert",
}

// NewRegistry builds a registry from entries; nil means DefaultEntries.
func NewRegistry(entries map[string]string) *Registry {
	if entries == nil {
		entries = DefaultEntries
	}
	byName := make(map[string]string, len(entries))
	for name, id := range entries {
		byName[normalize(name)] = id
	}
	return &Registry{byName: byName}
}

// Resolve returns the id for name, or UnknownID when unmatched.
func (r *Registry) Resolve(name string) string {
	if id, ok := r.byName[normalize(name)]; ok {
		return id
	}
	return UnknownID
}

func normalize(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
