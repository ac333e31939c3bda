package prices

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	repo "github.com/freitasmatheusrn/pricelist-importer/internal/database/postgres/sqlc"
	"github.com/freitasmatheusrn/pricelist-importer/internal/pricelist"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type MockStore struct {
	products   []repo.Product
	prices     []repo.SupplierPrice
	productErr error
	priceErr   error
	mu         sync.Mutex
}

func (m *MockStore) ListProducts(ctx context.Context) ([]repo.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products, m.productErr
}

func (m *MockStore) ListSupplierPrices(ctx context.Context) ([]repo.SupplierPrice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prices, m.priceErr
}

func text(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func seededStore() *MockStore {
	p1 := pgtype.UUID{Bytes: [16]byte{1}, Valid: true}
	p2 := pgtype.UUID{Bytes: [16]byte{2}, Valid: true}
	return &MockStore{
		products: []repo.Product{
			{ID: p1, Code: "P100", Article: text("ART1"), Name: "Binder Clip", Barcode: text("BC001"), Category: text("Binders")},
			{ID: p2, Code: "P200", Name: "Gel Pen"},
		},
		prices: []repo.SupplierPrice{
			{ProductID: p1, Supplier: "Альт", Currency: text("RUB")},
			{ProductID: p1, Supplier: "Реалист", Price: decimal.NewNullDecimal(decimal.RequireFromString("10.5")), Currency: text("USD")},
			{ProductID: p1, Supplier: "Retired supplier", Price: decimal.NewNullDecimal(decimal.NewFromInt(1))},
			{ProductID: p2, Supplier: "Комус", Price: decimal.NewNullDecimal(decimal.NewFromInt(3))},
		},
	}
}

func TestExportToSpreadsheet_RoundTripsThroughImportLayout(t *testing.T) {
	service := NewService(seededStore(), pricelist.DefaultSuppliers(), zap.NewNop())

	buf, apiErr := service.ExportToSpreadsheet(context.Background())
	if apiErr != nil {
		t.Fatalf("unexpected error: %v", apiErr)
	}

	grid, err := pricelist.ReadGrid(buf)
	if err != nil {
		t.Fatalf("export is not readable: %v", err)
	}
	result := pricelist.Scan(grid, pricelist.DefaultSuppliers())

	if len(result.Products) != 2 || len(result.Errors) != 0 {
		t.Fatalf("unexpected scan result: %+v", result)
	}

	byCode := map[string]pricelist.ProductRecord{}
	for _, p := range result.Products {
		byCode[p.Code] = p
	}

	clip := byCode["P100"]
	if clip.Category != "Binders" || clip.Article != "ART1" || clip.Barcode != "BC001" {
		t.Errorf("unexpected P100: %+v", clip)
	}
	if len(clip.Prices) != 2 {
		t.Fatalf("expected 2 bound prices for P100, got %+v", clip.Prices)
	}
	if clip.Prices[0].Supplier != "Реалист" || !clip.Prices[0].Price.Decimal.Equal(decimal.RequireFromString("10.5")) {
		t.Errorf("unexpected first price: %+v", clip.Prices[0])
	}
	if clip.Prices[1].Supplier != "Альт" || clip.Prices[1].Price.Valid || clip.Prices[1].Currency != "RUB" {
		t.Errorf("unexpected second price: %+v", clip.Prices[1])
	}

	pen := byCode["P200"]
	if pen.Category != "" || len(pen.Prices) != 1 || pen.Prices[0].Supplier != "Комус" {
		t.Errorf("unexpected P200: %+v", pen)
	}
}

func TestExportToSpreadsheet_StoreErrors(t *testing.T) {
	for name, store := range map[string]*MockStore{
		"products": {productErr: errors.New("down")},
		"prices":   {priceErr: errors.New("down")},
	} {
		t.Run(name, func(t *testing.T) {
			_, apiErr := NewService(store, pricelist.DefaultSuppliers(), zap.NewNop()).ExportToSpreadsheet(context.Background())
			if apiErr == nil || apiErr.Code != http.StatusInternalServerError {
				t.Errorf("expected 500, got %+v", apiErr)
			}
		})
	}
}

func TestExportSpreadsheet_Handler(t *testing.T) {
	h := NewHandler(NewService(seededStore(), pricelist.DefaultSuppliers(), zap.NewNop()))

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/prices/export", nil), rec)

	if err := h.ExportSpreadsheet(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != xlsxContentType {
		t.Errorf("unexpected content type %q", ct)
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); !strings.HasPrefix(cd, "attachment; filename=") {
		t.Errorf("unexpected content disposition %q", cd)
	}
	if rec.Body.Len() == 0 {
		t.Error("expected a workbook body")
	}
}
