package ledger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestRouter(svc *Service) http.Handler {
	r := chi.NewRouter()
	NewHandler(nil, svc).MountRoutes(r)
	return r
}

func recordSaleBody(t *testing.T, productID uuid.UUID, units int) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(RecordSaleRequest{ProductID: productID.String(), UnitsSold: units})
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func TestHandlerCreateSale(t *testing.T) {
	product := lipstick()
	router := newTestRouter(NewService(newLedgerRepoFake(), newProductStoreFake(product), nil, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", recordSaleBody(t, product.ID, 3)))

	require.Equal(t, http.StatusCreated, rec.Code)
	var sale Sale
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sale))
	require.Equal(t, 360.0, sale.TotalRevenue)
	require.Equal(t, 210.0, sale.Profit)
}

func TestHandlerCreateSaleInsufficientStock(t *testing.T) {
	product := lipstick()
	router := newTestRouter(NewService(newLedgerRepoFake(), newProductStoreFake(product), nil, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", recordSaleBody(t, product.ID, 11)))

	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "10 available, 11 requested")
}

func TestHandlerCreateSaleBadBody(t *testing.T) {
	router := newTestRouter(NewService(newLedgerRepoFake(), newProductStoreFake(), nil, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json")))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerListEmpty(t *testing.T) {
	router := newTestRouter(NewService(newLedgerRepoFake(), newProductStoreFake(), nil, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())
}

func TestHandlerDeleteSale(t *testing.T) {
	product := lipstick()
	repo := newLedgerRepoFake()
	store := newProductStoreFake(product)
	svc := NewService(repo, store, nil, nil)
	router := newTestRouter(svc)

	sale, err := svc.RecordSale(httptest.NewRequest(http.MethodGet, "/", nil).Context(),
		RecordSaleRequest{ProductID: product.ID.String(), UnitsSold: 2})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/"+sale.ID.String(), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Sale deleted and stock updated")
	require.Empty(t, repo.sales)
}

func TestHandlerDeleteUnknownSale(t *testing.T) {
	router := newTestRouter(NewService(newLedgerRepoFake(), newProductStoreFake(), nil, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/"+uuid.NewString(), nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerExportCSV(t *testing.T) {
	product := lipstick()
	svc := NewService(newLedgerRepoFake(), newProductStoreFake(product), nil, nil)
	router := newTestRouter(svc)

	_, err := svc.RecordSale(httptest.NewRequest(http.MethodGet, "/", nil).Context(),
		RecordSaleRequest{ProductID: product.ID.String(), UnitsSold: 3, Date: "2025-03-10"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export.csv", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), "sales-")
	require.Contains(t, rec.Body.String(), "date,sku,product,category,units_sold")
	require.Contains(t, rec.Body.String(), "LS-001")
	require.Contains(t, rec.Body.String(), "360.00")
}
