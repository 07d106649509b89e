package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	r := chi.NewRouter()
	NewHTTPHandler(newTestService(t), zerolog.New(io.Discard)).Register(r)
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) (int, AllocationHTTPResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp AllocationHTTPResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func TestHTTP_AllocatePrefersInStock(t *testing.T) {
	h := newTestRouter(t)

	code, _ := doJSON(t, h, http.MethodPost, "/api/batches", `{"reference":"shipment-batch","sku":"RETRO-CLOCK","qty":100,"eta":"2030-01-01"}`)
	require.Equal(t, http.StatusCreated, code)
	code, _ = doJSON(t, h, http.MethodPost, "/api/batches", `{"reference":"in-stock-batch","sku":"RETRO-CLOCK","qty":100}`)
	require.Equal(t, http.StatusCreated, code)

	code, resp := doJSON(t, h, http.MethodPost, "/api/allocations", `{"order_id":"oref","sku":"RETRO-CLOCK","qty":10}`)
	assert.Equal(t, http.StatusCreated, code)
	assert.True(t, resp.Success)
	assert.Equal(t, "in-stock-batch", resp.BatchRef)
}

func TestHTTP_AllocateOutOfStock(t *testing.T) {
	h := newTestRouter(t)

	code, _ := doJSON(t, h, http.MethodPost, "/api/batches", `{"reference":"batch1","sku":"SMALL-FORK","qty":10}`)
	require.Equal(t, http.StatusCreated, code)
	code, _ = doJSON(t, h, http.MethodPost, "/api/allocations", `{"order_id":"order1","sku":"SMALL-FORK","qty":10}`)
	require.Equal(t, http.StatusCreated, code)

	code, resp := doJSON(t, h, http.MethodPost, "/api/allocations", `{"order_id":"order2","sku":"SMALL-FORK","qty":1}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.False(t, resp.Success)
	assert.Equal(t, "Out of stock for sku SMALL-FORK", resp.Message)
}

func TestHTTP_Deallocate(t *testing.T) {
	h := newTestRouter(t)

	doJSON(t, h, http.MethodPost, "/api/batches", `{"reference":"batch1","sku":"LAMP","qty":5}`)
	doJSON(t, h, http.MethodPost, "/api/allocations", `{"order_id":"order1","sku":"LAMP","qty":5}`)

	code, resp := doJSON(t, h, http.MethodDelete, "/api/allocations", `{"order_id":"order1","sku":"LAMP","qty":5}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "batch1", resp.BatchRef)

	code, resp = doJSON(t, h, http.MethodPost, "/api/allocations", `{"order_id":"order2","sku":"LAMP","qty":5}`)
	assert.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "batch1", resp.BatchRef)
}

func TestHTTP_BadRequests(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		name string
		path string
		body string
	}{
		{name: "malformed json", path: "/api/allocations", body: `{`},
		{name: "missing sku", path: "/api/allocations", body: `{"order_id":"o1","qty":1}`},
		{name: "zero qty", path: "/api/allocations", body: `{"order_id":"o1","sku":"LAMP","qty":0}`},
		{name: "batch without reference", path: "/api/batches", body: `{"sku":"LAMP","qty":1}`},
		{name: "batch bad eta", path: "/api/batches", body: `{"reference":"b","sku":"LAMP","qty":1,"eta":"tomorrow"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := doJSON(t, h, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.False(t, resp.Success)
		})
	}
}

func TestHTTP_DuplicateBatch(t *testing.T) {
	h := newTestRouter(t)

	code, _ := doJSON(t, h, http.MethodPost, "/api/batches", `{"reference":"b1","sku":"LAMP","qty":1}`)
	require.Equal(t, http.StatusCreated, code)

	code, resp := doJSON(t, h, http.MethodPost, "/api/batches", `{"reference":"b1","sku":"LAMP","qty":1}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "batch already exists", resp.Message)
}

func TestHTTP_HealthCheck(t *testing.T) {
	h := newTestRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
