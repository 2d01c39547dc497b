package core

import (
	"github.com/fox-one/pkg/store/db"
)

// Config lendpool config
type Config struct {
	App App       `json:"app"`
	DB  db.Config `json:"db"`
}

// App app config
type App struct {
	// CustodianID owner id holding pool custody balances
	CustodianID string `json:"custodian_id" valid:"required"`
	Location    string `json:"location"`
}
