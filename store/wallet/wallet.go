package wallet

import (
	"context"
	"fmt"

	"lendpool/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/fox-one/pkg/uuid"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

type walletStore struct {
	db *db.DB
}

// New new custodial balance store
func New(db *db.DB) core.IWalletStore {
	return &walletStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		if err := db.Update().Model(core.Balance{}).AutoMigrate(core.Balance{}).Error; err != nil {
			return err
		}

		if err := db.Update().Model(core.Transfer{}).AutoMigrate(core.Transfer{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *walletStore) Find(ctx context.Context, ownerID, assetID string) (*core.Balance, error) {
	var balance core.Balance
	if err := s.db.View().Where("owner_id=? and asset_id=?", ownerID, assetID).First(&balance).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return &core.Balance{OwnerID: ownerID, AssetID: assetID, Amount: decimal.Zero}, nil
		}
		return nil, err
	}

	return &balance, nil
}

// Move debits from and credits to inside one transaction. The whole move
// fails when the debit side cannot cover the amount.
func (s *walletStore) Move(ctx context.Context, from, to, assetID string, amount decimal.Decimal, traceID string) error {
	if !amount.IsPositive() {
		return fmt.Errorf("move amount %s is not positive", amount)
	}

	if traceID == "" {
		traceID = uuid.New()
	}

	return s.db.Tx(func(tx *db.DB) error {
		source, err := s.findForUpdate(tx, from, assetID)
		if err != nil {
			return err
		}

		if source.Amount.LessThan(amount) {
			return fmt.Errorf("balance of %s/%s is %s, short of %s", from, assetID, source.Amount, amount)
		}

		source.Amount = source.Amount.Sub(amount)
		if err := s.save(tx, source); err != nil {
			return err
		}

		target, err := s.findForUpdate(tx, to, assetID)
		if err != nil {
			return err
		}

		target.Amount = target.Amount.Add(amount)
		if err := s.save(tx, target); err != nil {
			return err
		}

		transfer := &core.Transfer{
			TraceID: traceID,
			AssetID: assetID,
			FromID:  from,
			ToID:    to,
			Amount:  amount,
		}
		return tx.Update().Create(transfer).Error
	})
}

func (s *walletStore) Credit(ctx context.Context, ownerID, assetID string, amount decimal.Decimal) error {
	return s.db.Tx(func(tx *db.DB) error {
		balance, err := s.findForUpdate(tx, ownerID, assetID)
		if err != nil {
			return err
		}

		balance.Amount = balance.Amount.Add(amount)
		return s.save(tx, balance)
	})
}

func (s *walletStore) findForUpdate(tx *db.DB, ownerID, assetID string) (*core.Balance, error) {
	var balance core.Balance
	if err := tx.Update().Where("owner_id=? and asset_id=?", ownerID, assetID).First(&balance).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return &core.Balance{OwnerID: ownerID, AssetID: assetID, Amount: decimal.Zero}, nil
		}
		return nil, err
	}

	return &balance, nil
}

func (s *walletStore) save(tx *db.DB, balance *core.Balance) error {
	if balance.ID == 0 {
		return tx.Update().Create(balance).Error
	}

	version := balance.Version
	balance.Version++
	updates := map[string]interface{}{
		"amount":  balance.Amount,
		"version": balance.Version,
	}
	return tx.Update().Model(core.Balance{}).
		Where("id=? and version=?", balance.ID, version).
		Updates(updates).Error
}
