package cmd

import (
	"time"

	"lendpool/core"
	lendingservice "lendpool/service/lending"
	walletservice "lendpool/service/wallet"
	"lendpool/store/deposit"
	"lendpool/store/event"
	"lendpool/store/loan"
	"lendpool/store/pool"
	"lendpool/store/wallet"

	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideConfig() *core.Config {
	return &cfg
}

// ---------------store-----------------------------------------

func providePropertyStore(db *db.DB) property.Store {
	return propertystore.New(db)
}

func providePoolStore(db *db.DB) core.IPoolStore {
	return pool.Cache(pool.New(db), time.Minute)
}

func provideDepositStore(db *db.DB) core.IDepositStore {
	return deposit.New(db)
}

func provideLoanStore(db *db.DB) core.ILoanStore {
	return loan.New(db)
}

func provideEventStore(db *db.DB) core.IEventStore {
	return event.New(db)
}

func provideWalletStore(db *db.DB) core.IWalletStore {
	return wallet.New(db)
}

// ------------------service------------------------------------

func provideTransferService(walletStr core.IWalletStore) core.ITransferService {
	return walletservice.New(walletStr, cfg.App.CustodianID)
}

func provideLendingService(database *db.DB) core.ILendingService {
	return lendingservice.New(
		database,
		providePoolStore(database),
		provideDepositStore(database),
		provideLoanStore(database),
		provideEventStore(database),
		provideTransferService(provideWalletStore(database)),
		nil,
	)
}
