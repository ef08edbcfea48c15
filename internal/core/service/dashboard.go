package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/cloudpocket/pocket-cli/internal/core/domain"
)

// maxSummaryFetches bounds concurrent transaction fetches per dashboard.
const maxSummaryFetches = 4

// WalletOverview pairs a wallet with the reduction of its transactions.
type WalletOverview struct {
	Wallet  domain.Wallet  `json:"wallet"`
	Summary domain.Summary `json:"summary"`
}

// Dashboard is the landing view: own wallets with balances, shared
// wallets and pending invitations.
type Dashboard struct {
	Wallets []WalletOverview     `json:"wallets"`
	Shared  []domain.WalletShare `json:"shared"`
	Pending []domain.WalletShare `json:"pending"`
	Balance float64              `json:"balance"`
}

// DashboardService assembles the Dashboard.
type DashboardService struct {
	wallets *WalletService
	txs     *TransactionService
	shares  *ShareService
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(gw Gateway) *DashboardService {
	return &DashboardService{
		wallets: NewWalletService(gw),
		txs:     NewTransactionService(gw),
		shares:  NewShareService(gw),
	}
}

// Load fetches wallets, shared wallets and pending shares concurrently,
// then every wallet's transactions. Each call succeeds or fails on its
// own; the first failure is returned.
func (s *DashboardService) Load(ctx context.Context) (*Dashboard, error) {
	var (
		d       Dashboard
		wallets []domain.Wallet
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		wallets, err = s.wallets.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.Shared, err = s.shares.Shared(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.Pending, err = s.shares.Pending(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d.Wallets = make([]WalletOverview, len(wallets))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(maxSummaryFetches)
	for i, w := range wallets {
		g.Go(func() error {
			txs, err := s.txs.List(gctx, w.ID)
			if err != nil {
				return err
			}
			d.Wallets[i] = WalletOverview{Wallet: w, Summary: domain.Summarize(txs, w.Goal)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, o := range d.Wallets {
		d.Balance += o.Summary.Balance
	}
	return &d, nil
}
