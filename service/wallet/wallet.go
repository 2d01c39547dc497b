package wallet

import (
	"context"

	"lendpool/core"
	"lendpool/pkg/id"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

type transferService struct {
	wallets     core.IWalletStore
	custodianID string
}

// New default transfer service over the custodial balance ledger. It stands
// in for the external transfer rail: TransferIn moves value from the user
// into custody, TransferOut releases custody back to a user.
func New(wallets core.IWalletStore, custodianID string) core.ITransferService {
	return &transferService{
		wallets:     wallets,
		custodianID: custodianID,
	}
}

func (s *transferService) TransferIn(ctx context.Context, assetID, from string, amount decimal.Decimal) error {
	log := logger.FromContext(ctx).WithField("service", "wallet")

	if err := s.wallets.Move(ctx, from, s.custodianID, assetID, amount, id.GenTraceID()); err != nil {
		log.WithError(err).Errorln("transfer in failed:", assetID, amount)
		return err
	}

	return nil
}

func (s *transferService) TransferOut(ctx context.Context, assetID, to string, amount decimal.Decimal) error {
	log := logger.FromContext(ctx).WithField("service", "wallet")

	if err := s.wallets.Move(ctx, s.custodianID, to, assetID, amount, id.GenTraceID()); err != nil {
		log.WithError(err).Errorln("transfer out failed:", assetID, amount)
		return err
	}

	return nil
}
