package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmatos/fintrack-api-go/internal/domain"
	"github.com/dmatos/fintrack-api-go/internal/infra/resilience"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cb := resilience.NewCircuitBreaker("test")
	cfg := resilience.Config{MaxRetries: 0, InitialBackoff: 10 * time.Millisecond, MaxConcurrency: 10}
	return NewClient(&http.Client{Timeout: 5 * time.Second}, server.URL, "anon-key", "service-key", cb, cfg, zap.NewNop())
}

func TestGetTransaction_Found(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != "anon-key" {
			t.Errorf("missing apikey header")
		}
		if r.URL.Query().Get("id") != "eq.tx-1" || r.URL.Query().Get("owner_id") != "eq.user-1" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]supabaseTransaction{{
			ID:       "tx-1",
			OwnerID:  "user-1",
			Title:    "Groceries",
			Amount:   -42.5,
			Type:     "expense",
			Category: "food",
			Date:     "2026-08-15T00:00:00Z",
		}})
	})

	tx, err := client.GetTransaction(context.Background(), "user-1", "tx-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.Title != "Groceries" || tx.Amount != -42.5 {
		t.Errorf("unexpected transaction: %+v", tx)
	}
	if tx.Date.Month() != time.August {
		t.Errorf("date not parsed: %v", tx.Date)
	}
}

func TestGetTransaction_EmptyResultIsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	})

	_, err := client.GetTransaction(context.Background(), "user-1", "tx-missing")
	var notFound *domain.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if notFound.ID != "tx-missing" {
		t.Errorf("expected id tx-missing, got %s", notFound.ID)
	}
}

func TestGetTransaction_EscapesQueryValues(t *testing.T) {
	// Free-form ids must not be able to smuggle extra PostgREST filters
	// into the path.
	rawID := "tx 1&owner_id=eq.intruder"
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("id"); got != "eq."+rawID {
			t.Errorf("id filter mangled: %q", got)
		}
		if got := r.URL.Query().Get("owner_id"); got != "eq.user-1" {
			t.Errorf("owner filter mangled: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	})

	_, err := client.GetTransaction(context.Background(), "user-1", rawID)
	var notFound *domain.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateTransaction_ZeroRowsIsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("expected PATCH, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	})

	err := client.UpdateTransaction(context.Background(), &domain.Transaction{
		ID:      "tx-other",
		OwnerID: "user-1",
	})
	var notFound *domain.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTransaction_CountsRemovedRows(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"tx-1"}]`))
	})

	if err := client.DeleteTransaction(context.Background(), "user-1", "tx-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestListTransactions_Empty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	})

	list, err := client.ListTransactions(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected empty list, got %d items", len(list))
	}
}

func TestListTransactions_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.ListTransactions(context.Background(), "user-1")
	var external *domain.ErrExternalService
	if !errors.As(err, &external) {
		t.Fatalf("expected ErrExternalService, got %v", err)
	}
}

func TestGetUserByEmail_Missing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	})

	user, err := client.GetUserByEmail(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != nil {
		t.Errorf("expected nil user, got %+v", user)
	}
}

func TestCreateUser_SendsRow(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`[{"id":"user-1"}]`))
	})

	err := client.CreateUser(context.Background(), &domain.User{
		ID:           "user-1",
		Name:         "Ana",
		Email:        "ana@example.com",
		PasswordHash: "hash",
		Role:         "user",
		CreatedAt:    time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["email"] != "ana@example.com" || got["password_hash"] != "hash" {
		t.Errorf("unexpected row payload: %+v", got)
	}
}
