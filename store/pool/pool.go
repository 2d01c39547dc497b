package pool

import (
	"context"

	"lendpool/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type poolStore struct {
	db *db.DB
}

// New new pool store
func New(db *db.DB) core.IPoolStore {
	return &poolStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Pool{})
		if err := tx.AutoMigrate(core.Pool{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *poolStore) Create(ctx context.Context, tx *db.DB, pool *core.Pool) error {
	return tx.Update().Create(pool).Error
}

func (s *poolStore) Find(ctx context.Context, assetID string) (*core.Pool, error) {
	var pool core.Pool
	if err := s.db.View().Where("asset_id=?", assetID).First(&pool).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return &core.Pool{}, nil
		}
		return nil, err
	}

	return &pool, nil
}

func (s *poolStore) FindBySymbol(ctx context.Context, symbol string) (*core.Pool, error) {
	var pool core.Pool
	if err := s.db.View().Where("symbol=?", symbol).First(&pool).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return &core.Pool{}, nil
		}
		return nil, err
	}

	return &pool, nil
}

func (s *poolStore) All(ctx context.Context) ([]*core.Pool, error) {
	var pools []*core.Pool
	if err := s.db.View().Order("asset_id").Find(&pools).Error; err != nil {
		return nil, err
	}

	return pools, nil
}

func (s *poolStore) Update(ctx context.Context, tx *db.DB, pool *core.Pool) error {
	version := pool.Version
	pool.Version++

	// column map so aggregates that drop back to zero are written through
	updates := map[string]interface{}{
		"total_deposits":   pool.TotalDeposits,
		"total_borrows":    pool.TotalBorrows,
		"total_shares":     pool.TotalShares,
		"reserves":         pool.Reserves,
		"utilization_rate": pool.UtilizationRate,
		"borrow_rate":      pool.BorrowRate,
		"supply_rate":      pool.SupplyRate,
		"active":           pool.Active,
		"version":          pool.Version,
	}

	if err := tx.Update().Model(core.Pool{}).
		Where("asset_id=? and version=?", pool.AssetID, version).
		Updates(updates).Error; err != nil {
		return err
	}

	return nil
}
