package lending

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"lendpool/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// in-memory fakes standing in for the gorm stores and the transfer rail

type fakeTx struct{}

func (fakeTx) Tx(fn func(tx *db.DB) error) error {
	return fn(nil)
}

type memPools struct {
	mu    sync.Mutex
	pools map[string]*core.Pool
	next  uint64
}

func newMemPools() *memPools {
	return &memPools{pools: map[string]*core.Pool{}}
}

func (s *memPools) Create(_ context.Context, _ *db.DB, pool *core.Pool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	pool.ID = s.next
	cp := *pool
	s.pools[pool.AssetID] = &cp
	return nil
}

func (s *memPools) Find(_ context.Context, assetID string) (*core.Pool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pool, ok := s.pools[assetID]; ok {
		cp := *pool
		return &cp, nil
	}
	return &core.Pool{}, nil
}

func (s *memPools) FindBySymbol(_ context.Context, symbol string) (*core.Pool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, pool := range s.pools {
		if pool.Symbol == symbol {
			cp := *pool
			return &cp, nil
		}
	}
	return &core.Pool{}, nil
}

func (s *memPools) All(_ context.Context) ([]*core.Pool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var pools []*core.Pool
	for _, pool := range s.pools {
		cp := *pool
		pools = append(pools, &cp)
	}
	return pools, nil
}

func (s *memPools) Update(_ context.Context, _ *db.DB, pool *core.Pool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *pool
	s.pools[pool.AssetID] = &cp
	return nil
}

type memDeposits struct {
	mu       sync.Mutex
	deposits map[string]*core.Deposit
	next     uint64
}

func newMemDeposits() *memDeposits {
	return &memDeposits{deposits: map[string]*core.Deposit{}}
}

func depositKey(userID, assetID string) string {
	return userID + "/" + assetID
}

func (s *memDeposits) Save(_ context.Context, _ *db.DB, deposit *core.Deposit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if deposit.ID == 0 {
		s.next++
		deposit.ID = s.next
	}
	cp := *deposit
	s.deposits[depositKey(deposit.UserID, deposit.AssetID)] = &cp
	return nil
}

func (s *memDeposits) Find(_ context.Context, userID, assetID string) (*core.Deposit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if deposit, ok := s.deposits[depositKey(userID, assetID)]; ok {
		cp := *deposit
		return &cp, nil
	}
	return &core.Deposit{UserID: userID, AssetID: assetID}, nil
}

func (s *memDeposits) FindByUser(_ context.Context, userID string) ([]*core.Deposit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deposits []*core.Deposit
	for _, deposit := range s.deposits {
		if deposit.UserID == userID {
			cp := *deposit
			deposits = append(deposits, &cp)
		}
	}
	return deposits, nil
}

func (s *memDeposits) Update(ctx context.Context, tx *db.DB, deposit *core.Deposit) error {
	return s.Save(ctx, tx, deposit)
}

type memLoans struct {
	mu    sync.Mutex
	loans []*core.Loan
	next  uint64
}

func newMemLoans() *memLoans {
	return &memLoans{}
}

func (s *memLoans) Create(_ context.Context, _ *db.DB, loan *core.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	loan.ID = s.next
	cp := *loan
	s.loans = append(s.loans, &cp)
	return nil
}

func (s *memLoans) Find(_ context.Context, userID string, loanID int64) (*core.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, loan := range s.loans {
		if loan.UserID == userID && loan.LoanID == loanID {
			cp := *loan
			return &cp, nil
		}
	}
	return &core.Loan{}, nil
}

func (s *memLoans) FindByUser(_ context.Context, userID string) ([]*core.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var loans []*core.Loan
	for _, loan := range s.loans {
		if loan.UserID == userID {
			cp := *loan
			loans = append(loans, &cp)
		}
	}
	return loans, nil
}

func (s *memLoans) FindByAsset(_ context.Context, assetID string) ([]*core.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var loans []*core.Loan
	for _, loan := range s.loans {
		if loan.AssetID == assetID {
			cp := *loan
			loans = append(loans, &cp)
		}
	}
	return loans, nil
}

func (s *memLoans) NextLoanID(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, loan := range s.loans {
		if loan.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (s *memLoans) Update(_ context.Context, _ *db.DB, loan *core.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.loans {
		if existing.UserID == loan.UserID && existing.LoanID == loan.LoanID {
			cp := *loan
			s.loans[i] = &cp
			return nil
		}
	}
	return fmt.Errorf("loan %s/%d not found", loan.UserID, loan.LoanID)
}

type memEvents struct {
	mu     sync.Mutex
	events []*core.Event
}

func (s *memEvents) Create(_ context.Context, _ *db.DB, event *core.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	event.ID = uint64(len(s.events) + 1)
	cp := *event
	s.events = append(s.events, &cp)
	return nil
}

func (s *memEvents) List(_ context.Context, fromID uint64, limit int) ([]*core.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var events []*core.Event
	for _, event := range s.events {
		if event.ID > fromID && len(events) < limit {
			cp := *event
			events = append(events, &cp)
		}
	}
	return events, nil
}

type transferCall struct {
	assetID string
	owner   string
	amount  decimal.Decimal
}

type fakeTransfers struct {
	mu      sync.Mutex
	ins     []transferCall
	outs    []transferCall
	failIn  bool
	failOut bool
	// failOutAsset fails outbound transfers of one asset only, so a later
	// compensating transfer of another asset still goes through
	failOutAsset string
}

var errRailDown = errors.New("rail down")

func (s *fakeTransfers) TransferIn(_ context.Context, assetID, from string, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failIn {
		return errRailDown
	}
	s.ins = append(s.ins, transferCall{assetID, from, amount})
	return nil
}

func (s *fakeTransfers) TransferOut(_ context.Context, assetID, to string, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOut || (s.failOutAsset != "" && s.failOutAsset == assetID) {
		return errRailDown
	}
	s.outs = append(s.outs, transferCall{assetID, to, amount})
	return nil
}

func (s *fakeTransfers) lastOut() transferCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outs[len(s.outs)-1]
}

func (s *fakeTransfers) lastIn() transferCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ins[len(s.ins)-1]
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEngine struct {
	svc       *service
	pools     *memPools
	deposits  *memDeposits
	loans     *memLoans
	events    *memEvents
	transfers *fakeTransfers
	clock     *fakeClock
}

func newTestEngine() *testEngine {
	e := &testEngine{
		pools:     newMemPools(),
		deposits:  newMemDeposits(),
		loans:     newMemLoans(),
		events:    &memEvents{},
		transfers: &fakeTransfers{},
		clock:     &fakeClock{now: time.Unix(1700000000, 0)},
	}

	e.svc = &service{
		db:        fakeTx{},
		pools:     e.pools,
		deposits:  e.deposits,
		loans:     e.loans,
		events:    e.events,
		transfers: e.transfers,
		clock:     e.clock,
	}

	return e
}
