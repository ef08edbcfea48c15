package command

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/cloudpocket/pocket-cli/internal/core/domain"
)

func sampleShare(status domain.ShareStatus) domain.WalletShare {
	return domain.WalletShare{
		ID:         3,
		WalletID:   1,
		Permission: domain.PermissionWrite,
		Status:     status,
		Wallet:     domain.Wallet{ID: 1, Name: "Holiday"},
		Owner:      domain.Party{ID: 2, Name: "Bob", Email: "bob@x.io"},
		SharedWith: domain.Party{ID: 1, Name: "Ann", Email: testEmail},
	}
}

func TestShareCreate(t *testing.T) {
	server := newMockServer(t)
	server.handle("POST /api/wallets/1/share", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusCreated, sampleShare(domain.SharePending))
	})
	a := newTestApp(t, server)
	a.login(t)

	if err := a.run("share", "create", "--email", "bob@x.io", "--permission", "write", "1"); err != nil {
		t.Fatalf("share create error = %v", err)
	}
	body := server.body("POST /api/wallets/1/share")
	if body["email"] != "bob@x.io" || body["permission"] != "write" {
		t.Errorf("body = %v", body)
	}
	if !strings.Contains(a.out.String(), "pending") {
		t.Errorf("output = %q", a.out.String())
	}

	err := a.run("share", "create", "--email", "bob@x.io", "--permission", "admin", "1")
	if !errors.Is(err, domain.ErrSharePermission) {
		t.Errorf("bad permission error = %v, want ErrSharePermission", err)
	}
}

func TestShareLists(t *testing.T) {
	server := newMockServer(t)
	server.handle("GET /api/shared-wallets", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]any{"success": true, "data": []domain.WalletShare{sampleShare(domain.ShareAccepted)}})
	})
	server.handle("GET /api/pending-shares", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, []domain.WalletShare{sampleShare(domain.SharePending)})
	})
	a := newTestApp(t, server)
	a.login(t)

	if err := a.run("share", "list"); err != nil {
		t.Fatalf("share list error = %v", err)
	}
	out := a.out.String()
	for _, want := range []string{"SHARED_WITH", "Holiday", "bob@x.io", "accepted"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if err := a.run("-o", "json", "share", "pending"); err != nil {
		t.Fatalf("share pending error = %v", err)
	}
	var shares []domain.WalletShare
	if err := json.Unmarshal(a.out.Bytes(), &shares); err != nil {
		t.Fatal(err)
	}
	if len(shares) != 1 || shares[0].Status != domain.SharePending {
		t.Errorf("pending = %+v", shares)
	}
}

func TestShareRespond(t *testing.T) {
	server := newMockServer(t)
	server.handle("PUT /api/shares/3", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]string{"message": "Share accepted"})
	})
	a := newTestApp(t, server)
	a.login(t)

	if err := a.run("share", "accept", "3"); err != nil {
		t.Fatalf("share accept error = %v", err)
	}
	if got := a.out.String(); got != "Share accepted\n" {
		t.Errorf("output = %q", got)
	}
	if body := server.body("PUT /api/shares/3"); body["status"] != "accepted" {
		t.Errorf("body = %v", body)
	}

	if err := a.run("share", "reject", "3"); err != nil {
		t.Fatal(err)
	}
	if body := server.body("PUT /api/shares/3"); body["status"] != "rejected" {
		t.Errorf("body = %v", body)
	}
}

func TestDashboard(t *testing.T) {
	server := newMockServer(t)
	server.handle("GET /api/shared-wallets", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, []domain.WalletShare{})
	})
	server.handle("GET /api/pending-shares", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, []domain.WalletShare{sampleShare(domain.SharePending)})
	})
	a := newTestApp(t, server)
	a.login(t)

	if err := a.run("-o", "json", "dashboard"); err != nil {
		t.Fatalf("dashboard error = %v", err)
	}
	var d struct {
		Wallets []struct{ Summary domain.Summary }
		Pending []domain.WalletShare
		Balance float64
	}
	if err := json.Unmarshal(a.out.Bytes(), &d); err != nil {
		t.Fatalf("decode %q: %v", a.out.String(), err)
	}
	if len(d.Wallets) != 2 || d.Balance != 69.5 || len(d.Pending) != 1 {
		t.Errorf("dashboard = %+v", d)
	}

	if err := a.run("dashboard"); err != nil {
		t.Fatal(err)
	}
	out := a.out.String()
	for _, want := range []string{"TOTAL", "69.50", "1 pending invitation(s)", "pocket share pending"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
