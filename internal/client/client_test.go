package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simp-lee/backoffice/internal/domain"
)

type record struct {
	ID       uint   `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

func writeEnvelope(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"code": status, "message": "success", "data": data})
}

func newServer(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return New(srv.URL, WithTimeout(2*time.Second))
}

func TestResource_ListSendsQueryState(t *testing.T) {
	var got string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/customers", func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.RawQuery
		writeEnvelope(w, http.StatusOK, domain.NewPaginatedResult([]record{{ID: 3, Code: "C-3"}}, 41, 3, 20))
	})
	c := newServer(t, mux)

	state := NewListState(20)
	state.SetFilter("customerType", "RETAIL")
	state.SetPageIndex(2)

	page, err := NewResource[record](c, "customers").List(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, "customerType=RETAIL&pageNumber=3&pageSize=20", got)
	assert.Equal(t, int64(41), page.TotalCount)
	assert.Equal(t, 3, page.TotalPages)
	assert.False(t, page.HasNextPage)
	assert.True(t, page.HasPreviousPage)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "C-3", page.Items[0].Code)
}

func TestResource_GetByCodeEscapesKey(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/items/code/{code}", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, record{ID: 1, Code: r.PathValue("code")})
	})
	c := newServer(t, mux)

	rec, err := NewResource[record](c, "items").GetByCode(context.Background(), "SKU 01")
	require.NoError(t, err)
	assert.Equal(t, "SKU 01", rec.Code)
}

func TestResource_CreateUpdateDelete(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/items", func(w http.ResponseWriter, r *http.Request) {
		var in record
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		in.ID = 7
		writeEnvelope(w, http.StatusCreated, in)
	})
	mux.HandleFunc("PUT /api/v1/items/7", func(w http.ResponseWriter, r *http.Request) {
		var in record
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		in.ID = 7
		writeEnvelope(w, http.StatusOK, in)
	})
	mux.HandleFunc("DELETE /api/v1/items/7", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	c := newServer(t, mux)
	items := NewResource[record](c, "items")
	ctx := context.Background()

	created, err := items.Create(ctx, record{Code: "I-1", Name: "Bolt"})
	require.NoError(t, err)
	assert.Equal(t, uint(7), created.ID)

	updated, err := items.Update(ctx, 7, record{Code: "I-1", Name: "Nut"})
	require.NoError(t, err)
	assert.Equal(t, "Nut", updated.Name)

	require.NoError(t, items.Delete(ctx, 7))
}

func TestClient_ErrorStatusesMapToDomainKinds(t *testing.T) {
	tests := []struct {
		status int
		body   string
		check  func(error) bool
		msg    string
	}{
		{http.StatusNotFound, `{"code":404,"message":"customer not found"}`, domain.IsNotFound, "customer not found"},
		{http.StatusConflict, `{"code":409,"message":"code already exists"}`, domain.IsConflict, "code already exists"},
		{http.StatusBadRequest, `{"code":400,"message":"validation failed","errors":{"name":"required"}}`, domain.IsValidation, "validation failed"},
		{http.StatusUnprocessableEntity, `"bad input"`, domain.IsValidation, "bad input"},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("GET /api/v1/customers/1", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			c := newServer(t, mux)

			_, err := NewResource[record](c, "customers").Get(context.Background(), 1)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected kind for %v", err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.msg, apiErr.Message)
		})
	}
}

func TestClient_LoginKeepsToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		if in["password"] != "secret-pass" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"code":401,"message":"invalid email or password"}`)
			return
		}
		writeEnvelope(w, http.StatusOK, map[string]any{"token": "tok-1", "tokenType": "Bearer"})
	})
	mux.HandleFunc("GET /api/v1/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeEnvelope(w, http.StatusOK, map[string]any{
			"user":        map[string]any{"id": 1, "email": "a@example.com"},
			"permissions": []string{"customers:read"},
		})
	})
	c := newServer(t, mux)
	ctx := context.Background()

	_, err := c.Login(ctx, "a@example.com", "wrong")
	assert.True(t, domain.IsUnauthorized(err), "got %v", err)

	_, err = c.Me(ctx)
	assert.True(t, domain.IsUnauthorized(err), "me without token: got %v", err)

	tok, err := c.Login(ctx, "a@example.com", "secret-pass")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok.Token)

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", me.User.Email)
	assert.Equal(t, []string{"customers:read"}, me.Permissions)
}

func TestClient_OrderTransitions(t *testing.T) {
	var rejectReason string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/sales-orders/{id}/{action}", func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"submit": "SUBMITTED", "approve": "APPROVED", "reject": "REJECTED"}[r.PathValue("action")]
		if r.PathValue("action") == "reject" {
			var in map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			rejectReason = in["reason"]
		}
		if r.PathValue("id") == "9" {
			w.WriteHeader(http.StatusConflict)
			_, _ = io.WriteString(w, `{"code":409,"message":"order is APPROVED, cannot submit"}`)
			return
		}
		writeEnvelope(w, http.StatusOK, map[string]any{"id": 1, "status": status})
	})
	c := newServer(t, mux)
	ctx := context.Background()

	order, err := c.Submit(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatus("SUBMITTED"), order.Status)

	order, err = c.Reject(ctx, 1, "credit hold")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatus("REJECTED"), order.Status)
	assert.Equal(t, "credit hold", rejectReason)

	_, err = c.Submit(ctx, 9)
	assert.Equal(t, "Conflict: order is APPROVED, cannot submit", DisplayMessage(err))

	_, err = c.Transition(ctx, 1, OrderAction("cancel"), "")
	assert.Error(t, err)
}

func TestClient_UnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).Me(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Could not reach the server", DisplayMessage(err))
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/auth/me", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := New(srv.URL).Me(ctx)
	require.Error(t, err)
	assert.Equal(t, "The server took too long to respond", DisplayMessage(err))
}
