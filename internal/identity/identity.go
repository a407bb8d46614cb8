// Package identity is the boundary to the upstream tree/ownership registry.
// The certification engine only ever asks three questions of it.
package identity

import "context"

// Store answers tree liveness and ownership queries. The production registry
// lives upstream; GormStore is the default adapter over a mirrored table.
type Store interface {
	IsTreeActive(ctx context.Context, treeID uint) (bool, error)
	TreeOwner(ctx context.Context, treeID uint) (uint, error)
	FarmerTrees(ctx context.Context, farmerID uint) ([]uint, error)
}
