package loan_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sacco-portal/sacco-api/internal/domain/loan"
	"github.com/sacco-portal/sacco-api/internal/ledger"
	"github.com/sacco-portal/sacco-api/internal/middleware"
	"github.com/sacco-portal/sacco-api/internal/pkg/identity"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

func newServer(t *testing.T) (*httptest.Server, *ledger.MemoryStore, *identity.Verifier, *ledger.Member, ledger.Admin) {
	t.Helper()
	admin := ledger.Admin{ID: uuid.New(), Email: "ops@sacco.test", DisplayName: "Ops"}
	store := ledger.NewMemoryStore(ledger.WithAdmins([]ledger.Admin{admin}))
	m, err := store.CreateMember(context.Background(), ledger.Member{Username: "awanjiku", DisplayName: "Alice Wanjiku"})
	if err != nil {
		t.Fatalf("create member failed: %v", err)
	}

	verifier := identity.NewVerifier("test-secret")
	handler := loan.NewHandler(loan.NewService(store))
	srv := httptest.NewServer(handler.Routes(middleware.Auth(verifier)))
	t.Cleanup(srv.Close)
	return srv, store, verifier, m, admin
}

func bearer(t *testing.T, verifier *identity.Verifier, id uuid.UUID, role, name string) string {
	t.Helper()
	token, err := verifier.Sign(id, role, name, time.Hour)
	if err != nil {
		t.Fatalf("sign token failed: %v", err)
	}
	return "Bearer " + token
}

func doJSON(t *testing.T, method, url, auth string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body failed: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request failed: %v", err)
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestSubmitAndReviewFlow(t *testing.T) {
	srv, store, verifier, m, admin := newServer(t)
	memberAuth := bearer(t, verifier, m.ID, identity.RoleMember, m.DisplayName)
	adminAuth := bearer(t, verifier, admin.ID, identity.RoleAdmin, admin.DisplayName)

	resp := doJSON(t, http.MethodPost, srv.URL+"/", memberAuth, map[string]any{
		"amount": 250000,
		"reason": "school fees",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("submit status = %d, want 201", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	var created ledger.LoanRequest
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode loan failed: %v", err)
	}
	if created.Status != ledger.LoanPending {
		t.Errorf("status = %s, want pending", created.Status)
	}
	if created.MemberName != "Alice Wanjiku" {
		t.Errorf("member name = %q, want Alice Wanjiku", created.MemberName)
	}

	resp = doJSON(t, http.MethodPatch, srv.URL+"/"+created.ID.String()+"/review", adminAuth, map[string]any{
		"status": "approved",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("review status = %d, want 200", resp.StatusCode)
	}

	entries, err := store.ListAuditLogs(context.Background())
	if err != nil {
		t.Fatalf("list audits failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(entries))
	}
}

func TestMemberCannotReview(t *testing.T) {
	srv, store, verifier, m, _ := newServer(t)
	memberAuth := bearer(t, verifier, m.ID, identity.RoleMember, m.DisplayName)

	created, err := store.CreateLoanRequest(context.Background(), m.ID, 1000, "tools")
	if err != nil {
		t.Fatalf("create loan failed: %v", err)
	}

	resp := doJSON(t, http.MethodPatch, srv.URL+"/"+created.ID.String()+"/review", memberAuth, map[string]any{
		"status": "approved",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}
}

func TestMemberCannotListQueue(t *testing.T) {
	srv, _, verifier, m, _ := newServer(t)
	memberAuth := bearer(t, verifier, m.ID, identity.RoleMember, m.DisplayName)

	resp := doJSON(t, http.MethodGet, srv.URL+"/all", memberAuth, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}
}

func TestRejectsMissingToken(t *testing.T) {
	srv, _, _, _, _ := newServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/", "", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestSubmitValidationHTTP(t *testing.T) {
	srv, _, verifier, m, _ := newServer(t)
	memberAuth := bearer(t, verifier, m.ID, identity.RoleMember, m.DisplayName)

	resp := doJSON(t, http.MethodPost, srv.URL+"/", memberAuth, map[string]any{
		"amount": -50,
		"reason": "",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
}
