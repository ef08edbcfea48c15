package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/cloudpocket/pocket-cli/internal/core/domain"
)

func TestShareService_Share(t *testing.T) {
	h := loggedIn(t)
	h.backend.handle("POST /api/wallets/3/share", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusCreated, map[string]any{
			"id": 21, "wallet_id": 3, "permission": "write", "status": "pending",
			"sharedWith": map[string]any{"id": 2, "email": "bo@x.io"},
		})
	})

	share, err := NewShareService(h.gw).Share(context.Background(), 3, " bo@x.io ", domain.PermissionWrite)
	if err != nil {
		t.Fatalf("Share() error = %v", err)
	}
	if share.ID != 21 || share.Status != domain.SharePending || share.SharedWith.Email != "bo@x.io" {
		t.Errorf("Share() = %+v", share)
	}

	body := h.backend.body()
	if body["email"] != "bo@x.io" || body["permission"] != "write" {
		t.Errorf("body = %v", body)
	}
}

func TestShareService_Validation(t *testing.T) {
	h := loggedIn(t)
	svc := NewShareService(h.gw)
	before := h.backend.calls.Load()

	if _, err := svc.Share(context.Background(), 3, "", domain.PermissionRead); !errors.Is(err, domain.ErrShareEmailRequired) {
		t.Errorf("Share() empty email error = %v", err)
	}
	if _, err := svc.Share(context.Background(), 3, "a@b.c", "admin"); !errors.Is(err, domain.ErrSharePermission) {
		t.Errorf("Share() bad permission error = %v", err)
	}
	if _, err := svc.Respond(context.Background(), 1, domain.SharePending); !errors.Is(err, domain.ErrShareStatusInvalid) {
		t.Errorf("Respond() pending error = %v", err)
	}
	if _, err := svc.Respond(context.Background(), 0, domain.ShareAccepted); !errors.Is(err, domain.ErrShareIDInvalid) {
		t.Errorf("Respond() zero id error = %v", err)
	}
	if h.backend.calls.Load() != before {
		t.Error("validation failure reached the network")
	}
}

func TestShareService_Lists(t *testing.T) {
	h := loggedIn(t)
	h.backend.handle("GET /api/shared-wallets", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, []map[string]any{{"id": 1, "status": "accepted", "permission": "read"}})
	})
	h.backend.handle("GET /api/pending-shares", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{"success": true, "data": []map[string]any{
			{"id": 2, "status": "pending"}, {"id": 3, "status": "pending"},
		}})
	})
	svc := NewShareService(h.gw)

	shared, err := svc.Shared(context.Background())
	if err != nil || len(shared) != 1 || shared[0].Permission != domain.PermissionRead {
		t.Errorf("Shared() = %+v, %v", shared, err)
	}
	pending, err := svc.Pending(context.Background())
	if err != nil || len(pending) != 2 {
		t.Errorf("Pending() = %+v, %v", pending, err)
	}
}

func TestShareService_Respond(t *testing.T) {
	tests := []struct {
		name    string
		status  domain.ShareStatus
		reply   map[string]string
		wantMsg string
	}{
		{"accept with message", domain.ShareAccepted, map[string]string{"message": "Share accepted"}, "Share accepted"},
		{"reject without message", domain.ShareRejected, map[string]string{}, "share rejected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := loggedIn(t)
			h.backend.handle("PUT /api/shares/7", func(w http.ResponseWriter, r *http.Request) {
				respondJSON(w, http.StatusOK, tt.reply)
			})

			msg, err := NewShareService(h.gw).Respond(context.Background(), 7, tt.status)
			if err != nil {
				t.Fatalf("Respond() error = %v", err)
			}
			if msg != tt.wantMsg {
				t.Errorf("Respond() = %q, want %q", msg, tt.wantMsg)
			}

			body := h.backend.body()
			if body["status"] != string(tt.status) {
				t.Errorf("body = %v", body)
			}
		})
	}
}
