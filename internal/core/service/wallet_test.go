package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/cloudpocket/pocket-cli/internal/cli/connection"
	"github.com/cloudpocket/pocket-cli/internal/core/domain"
)

// loggedIn returns a harness with an authenticated token for ann@x.io.
func loggedIn(t *testing.T) *harness {
	t.Helper()
	h := newHarness(t)
	h.backend.addUser(1, "Ann", "ann@x.io", "pw")
	if err := h.session().Login(context.Background(), "ann@x.io", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	return h
}

func TestWalletService_List(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"bare array", `[{"id":1,"name":"Main","goal":100},{"id":2,"name":"Trip"}]`, 2},
		{"envelope", `{"success":true,"data":[{"id":1,"name":"Main"}]}`, 1},
		{"envelope without data", `{"success":true}`, 0},
		{"null", `null`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := loggedIn(t)
			h.backend.handle("GET /api/wallets", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			})

			got, err := NewWalletService(h.gw).List(context.Background())
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("List() returned %d wallets, want %d", len(got), tt.want)
			}
			if got == nil {
				t.Error("List() should return an empty slice, not nil")
			}
		})
	}
}

func TestWalletService_ListEnvelopeFailure(t *testing.T) {
	h := loggedIn(t)
	h.backend.handle("GET /api/wallets", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{"success": false, "message": "quota exceeded"})
	})

	_, err := NewWalletService(h.gw).List(context.Background())
	if Message(err, "") != "quota exceeded" {
		t.Errorf("List() error = %v", err)
	}
	if connection.StatusCode(err) != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", connection.StatusCode(err))
	}
}

func TestWalletService_Get(t *testing.T) {
	h := loggedIn(t)
	h.backend.setWallets(domain.Wallet{ID: 1, Name: "Main"}, domain.Wallet{ID: 4, Name: "Trip"})
	svc := NewWalletService(h.gw)

	w, err := svc.Get(context.Background(), 4)
	if err != nil || w.Name != "Trip" {
		t.Errorf("Get(4) = %+v, %v", w, err)
	}

	_, err = svc.Get(context.Background(), 9)
	if !errors.Is(err, domain.ErrWalletNotFound) {
		t.Errorf("Get(9) error = %v, want ErrWalletNotFound", err)
	}
}

func TestWalletService_Create(t *testing.T) {
	h := loggedIn(t)
	svc := NewWalletService(h.gw)

	w, err := svc.Create(context.Background(), domain.WalletInput{Name: "  Savings ", Goal: 500})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if w.Name != "Savings" {
		t.Errorf("Name = %q, want trimmed", w.Name)
	}
	if !strings.HasPrefix(w.Code, "W") || len(w.Code) != 7 {
		t.Errorf("Code = %q, want generated W-code", w.Code)
	}

	w, err = svc.Create(context.Background(), domain.WalletInput{Name: "Fixed", Code: "ABC"})
	if err != nil || w.Code != "ABC" {
		t.Errorf("Create() with code = %+v, %v", w, err)
	}
}

func TestWalletService_ValidationSkipsNetwork(t *testing.T) {
	h := loggedIn(t)
	svc := NewWalletService(h.gw)
	before := h.backend.calls.Load()

	neg := -1.0
	tests := []struct {
		name string
		call func() error
		want error
	}{
		{"create without name", func() error {
			_, err := svc.Create(context.Background(), domain.WalletInput{Name: " "})
			return err
		}, domain.ErrWalletNameRequired},
		{"create with negative goal", func() error {
			_, err := svc.Create(context.Background(), domain.WalletInput{Name: "x", Goal: -5})
			return err
		}, domain.ErrWalletGoalNegative},
		{"update zero id", func() error {
			_, err := svc.Update(context.Background(), 0, domain.WalletPatch{})
			return err
		}, domain.ErrWalletIDInvalid},
		{"update negative goal", func() error {
			_, err := svc.Update(context.Background(), 1, domain.WalletPatch{Goal: &neg})
			return err
		}, domain.ErrWalletGoalNegative},
		{"delete zero id", func() error {
			return svc.Delete(context.Background(), 0)
		}, domain.ErrWalletIDInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
	if h.backend.calls.Load() != before {
		t.Error("validation failure reached the network")
	}
}

func TestWalletService_UpdateSendsOnlySetFields(t *testing.T) {
	h := loggedIn(t)
	name := "Renamed"

	_, err := NewWalletService(h.gw).Update(context.Background(), 3, domain.WalletPatch{Name: &name})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	body := h.backend.body()
	if len(body) != 1 || body["name"] != "Renamed" {
		t.Errorf("body = %v, want only name", body)
	}
}

func TestWalletService_Summary(t *testing.T) {
	h := loggedIn(t)
	h.backend.setWallets(domain.Wallet{ID: 2, Name: "Main"})
	h.backend.setTxs(2,
		domain.Transaction{ID: 1, Type: domain.Income, Amount: 100},
		domain.Transaction{ID: 2, Type: domain.Expense, Amount: 30.5},
	)

	sum, txs, err := NewWalletService(h.gw).Summary(context.Background(), 2, 140)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if len(txs) != 2 || sum.Balance != 69.5 || sum.Progress < 49.6 || sum.Progress > 49.7 {
		t.Errorf("Summary() = %+v (%d txs)", sum, len(txs))
	}
}

func TestNewWalletCode(t *testing.T) {
	a, b := NewWalletCode(), NewWalletCode()
	if len(a) != 7 || a[0] != 'W' {
		t.Errorf("NewWalletCode() = %q", a)
	}
	if a == b {
		t.Errorf("NewWalletCode() repeated %q", a)
	}
}
