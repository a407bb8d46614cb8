package identity

import (
	"context"
	"errors"

	"pomona-backend/internal/models"
	"pomona-backend/internal/pkg/apperr"

	"gorm.io/gorm"
)

// TxBinder is implemented by stores whose reads can be rescoped onto an
// active database handle, so ownership checks inside a mutation share the
// transaction the mutation commits on. Remote registry adapters simply
// don't implement it.
type TxBinder interface {
	BindTx(tx *gorm.DB) Store
}

// GormStore implements Store over the mirrored TreeRecords table.
type GormStore struct {
	DB *gorm.DB
}

// BindTx returns a store whose reads run on the supplied transaction.
func (g *GormStore) BindTx(tx *gorm.DB) Store {
	return &GormStore{DB: tx}
}

func (g *GormStore) IsTreeActive(ctx context.Context, treeID uint) (bool, error) {
	var tree models.TreeRecord
	if err := g.DB.WithContext(ctx).First(&tree, treeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperr.Newf(apperr.NotFound, "Tree %d not found", treeID)
		}
		return false, err
	}
	return tree.Active, nil
}

func (g *GormStore) TreeOwner(ctx context.Context, treeID uint) (uint, error) {
	var tree models.TreeRecord
	if err := g.DB.WithContext(ctx).First(&tree, treeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperr.Newf(apperr.NotFound, "Tree %d not found", treeID)
		}
		return 0, err
	}
	return tree.OwnerFarmerID, nil
}

func (g *GormStore) FarmerTrees(ctx context.Context, farmerID uint) ([]uint, error) {
	var ids []uint
	err := g.DB.WithContext(ctx).Model(&models.TreeRecord{}).
		Where("owner_farmer_id = ?", farmerID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
