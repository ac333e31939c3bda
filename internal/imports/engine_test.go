package imports

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/freitasmatheusrn/pricelist-importer/internal/pricelist"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func price(supplier, amount, currency string) pricelist.SupplierPrice {
	sp := pricelist.SupplierPrice{Supplier: supplier, Currency: currency}
	if amount != "" {
		sp.Price = decimal.NewNullDecimal(decimal.RequireFromString(amount))
	}
	return sp
}

func binderClip() pricelist.ProductRecord {
	return pricelist.ProductRecord{
		Row:      6,
		Code:     "P100",
		Article:  "ART1",
		Name:     "Binder Clip",
		Barcode:  "BC001",
		Category: "Binders",
		Prices:   []pricelist.SupplierPrice{price("Реалист", "10.5", "USD")},
	}
}

func runEngine(store Store, cfg EngineConfig, records []pricelist.ProductRecord) ImportStats {
	rep := NewReporter()
	NewEngine(store, cfg, zap.NewNop()).Run(context.Background(), records, rep, nil)
	return rep.Snapshot()
}

func TestEngine_ReimportUpdatesInsteadOfInserting(t *testing.T) {
	store := NewMockStore()
	records := []pricelist.ProductRecord{binderClip()}

	first := runEngine(store, EngineConfig{}, records)
	if first.ProductsInserted != 1 || first.ProductsUpdated != 0 {
		t.Errorf("run 1: expected inserted=1 updated=0, got %+v", first)
	}
	if first.PricesInserted != 1 || first.PricesUpdated != 0 {
		t.Errorf("run 1: expected prices inserted=1 updated=0, got %+v", first)
	}

	second := runEngine(store, EngineConfig{}, records)
	if second.ProductsInserted != 0 || second.ProductsUpdated != 1 {
		t.Errorf("run 2: expected inserted=0 updated=1, got %+v", second)
	}
	if second.PricesInserted != 0 || second.PricesUpdated != 1 {
		t.Errorf("run 2: expected prices inserted=0 updated=1, got %+v", second)
	}

	if store.priceCount() != 1 {
		t.Errorf("expected a single stored price, got %d", store.priceCount())
	}
	p, ok := store.product("P100")
	if !ok {
		t.Fatal("product P100 not stored")
	}
	if p.Category.String != "Binders" || p.Article.String != "ART1" || p.Name != "Binder Clip" {
		t.Errorf("unexpected stored product: %+v", p)
	}
}

func TestEngine_UpdateRefreshesMutableFields(t *testing.T) {
	store := NewMockStore()
	runEngine(store, EngineConfig{}, []pricelist.ProductRecord{binderClip()})

	changed := binderClip()
	changed.Name = "Binder Clip 25mm"
	changed.Category = ""
	changed.Barcode = ""
	runEngine(store, EngineConfig{}, []pricelist.ProductRecord{changed})

	p, _ := store.product("P100")
	if p.Name != "Binder Clip 25mm" {
		t.Errorf("expected renamed product, got %q", p.Name)
	}
	if p.Category.Valid || p.Barcode.Valid {
		t.Errorf("expected category and barcode to be cleared, got %+v", p)
	}
}

func TestEngine_ProductFailureSkipsItsPrices(t *testing.T) {
	store := NewMockStore()
	store.createProductErr["P2"] = errors.New("connection reset")

	records := []pricelist.ProductRecord{
		{Row: 5, Code: "P1", Name: "Pen", Prices: []pricelist.SupplierPrice{price("Комус", "1", "")}},
		{Row: 6, Code: "P2", Name: "Pencil", Prices: []pricelist.SupplierPrice{price("Комус", "2", ""), price("Альт", "3", "")}},
		{Row: 7, Code: "P3", Name: "Marker", Prices: []pricelist.SupplierPrice{price("Альт", "4", "")}},
	}

	stats := runEngine(store, EngineConfig{}, records)

	if stats.ProductsInserted != 2 {
		t.Errorf("expected 2 inserted products, got %d", stats.ProductsInserted)
	}
	if stats.PricesInserted != 2 {
		t.Errorf("expected 2 inserted prices, got %d", stats.PricesInserted)
	}
	if len(stats.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", stats.Errors)
	}
	if want := "Product P2: create product: connection reset"; stats.Errors[0] != want {
		t.Errorf("expected %q, got %q", want, stats.Errors[0])
	}
	if store.priceCalls["P2"] != 0 {
		t.Errorf("expected no price calls for P2, got %d", store.priceCalls["P2"])
	}
}

func TestEngine_PriceFailureDoesNotAbortSiblings(t *testing.T) {
	store := NewMockStore()
	store.createPriceErr["Самсон"] = errors.New("numeric field overflow")

	records := []pricelist.ProductRecord{{
		Row:  5,
		Code: "P1",
		Name: "Stapler",
		Prices: []pricelist.SupplierPrice{
			price("Реалист", "10", "RUB"),
			price("Самсон", "99999999999999", "RUB"),
			price("Альт", "", "RUB"),
		},
	}}

	stats := runEngine(store, EngineConfig{}, records)

	if stats.ProductsInserted != 1 {
		t.Errorf("expected product to be inserted, got %+v", stats)
	}
	if stats.PricesInserted != 2 {
		t.Errorf("expected 2 inserted prices, got %d", stats.PricesInserted)
	}
	if len(stats.Errors) != 1 || stats.Errors[0] != "Price P1/Самсон: create price: numeric field overflow" {
		t.Errorf("unexpected errors: %v", stats.Errors)
	}
}

func TestEngine_UniqueViolationCountsAsUpdate(t *testing.T) {
	store := NewMockStore()
	store.raceOnCreate["P100"] = true

	stats := runEngine(store, EngineConfig{}, []pricelist.ProductRecord{binderClip()})

	if stats.ProductsInserted != 0 || stats.ProductsUpdated != 1 {
		t.Errorf("expected the lost race to count as an update, got %+v", stats)
	}
	if len(stats.Errors) != 0 {
		t.Errorf("expected no errors, got %v", stats.Errors)
	}
	p, _ := store.product("P100")
	if p.Name != "Binder Clip" {
		t.Errorf("expected our values to win the update, got %q", p.Name)
	}
}

func TestEngine_StalledStoreCallFailsOnlyThatProduct(t *testing.T) {
	store := NewMockStore()
	store.blockCodes["SLOW"] = true

	records := []pricelist.ProductRecord{
		{Row: 5, Code: "SLOW", Name: "Hangs"},
		{Row: 6, Code: "FAST", Name: "Fine"},
	}

	done := make(chan ImportStats, 1)
	go func() {
		done <- runEngine(store, EngineConfig{StoreTimeout: 20 * time.Millisecond}, records)
	}()

	select {
	case stats := <-done:
		if stats.ProductsInserted != 1 {
			t.Errorf("expected FAST to be inserted, got %+v", stats)
		}
		if len(stats.Errors) != 1 || !strings.HasPrefix(stats.Errors[0], "Product SLOW: find product: ") {
			t.Errorf("unexpected errors: %v", stats.Errors)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not finish")
	}
}

func TestEngine_WorkersKeepInputOrder(t *testing.T) {
	var records []pricelist.ProductRecord
	for i := 0; i < 23; i++ {
		code := fmt.Sprintf("C%02d", i)
		records = append(records, pricelist.ProductRecord{
			Row:    i + 5,
			Code:   code,
			Name:   "Item " + code,
			Prices: []pricelist.SupplierPrice{price("Реалист", "1.5", ""), price("Комус", "2", "EUR")},
		})
	}
	failing := func() *MockStore {
		s := NewMockStore()
		for _, code := range []string{"C03", "C11", "C19"} {
			s.createProductErr[code] = errors.New("boom")
		}
		s.createPriceErr["Комус"] = errors.New("price rejected")
		return s
	}

	sequential := runEngine(failing(), EngineConfig{BatchSize: 5, Workers: 1}, records)
	parallel := runEngine(failing(), EngineConfig{BatchSize: 5, Workers: 4}, records)

	if !reflect.DeepEqual(sequential, parallel) {
		t.Errorf("parallel run differs from sequential run:\nseq: %+v\npar: %+v", sequential, parallel)
	}
	if sequential.ProductsInserted != 20 {
		t.Errorf("expected 20 inserted products, got %d", sequential.ProductsInserted)
	}
	if want := 3 + 20; len(sequential.Errors) != want {
		t.Errorf("expected %d errors, got %d", want, len(sequential.Errors))
	}
	if sequential.Errors[0] != "Price C00/Комус: create price: price rejected" {
		t.Errorf("unexpected first error: %q", sequential.Errors[0])
	}
}

func TestEngine_BatchesAreObservedInOrder(t *testing.T) {
	var records []pricelist.ProductRecord
	for i := 0; i < 7; i++ {
		records = append(records, pricelist.ProductRecord{Row: i + 5, Code: fmt.Sprintf("B%d", i), Name: "x"})
	}

	var batches []Batch
	rep := NewReporter()
	NewEngine(NewMockStore(), EngineConfig{BatchSize: 3}, zap.NewNop()).Run(context.Background(), records, rep, func(b Batch) {
		batches = append(batches, b)
	})

	if len(batches) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(batches))
	}
	sizes := []int{3, 3, 1}
	next := 0
	for i, b := range batches {
		if b.Index != i+1 || b.Count != 3 {
			t.Errorf("batch %d: unexpected index/count %d/%d", i, b.Index, b.Count)
		}
		if len(b.Outcomes) != sizes[i] {
			t.Errorf("batch %d: expected %d outcomes, got %d", i, sizes[i], len(b.Outcomes))
		}
		for _, o := range b.Outcomes {
			if o.Record.Code != records[next].Code {
				t.Errorf("expected %s, got %s", records[next].Code, o.Record.Code)
			}
			next++
		}
	}
	if rep.Snapshot().ProductsInserted != 7 {
		t.Errorf("expected 7 inserted products")
	}
}

func TestEngine_NoRecords(t *testing.T) {
	called := false
	rep := NewReporter()
	NewEngine(NewMockStore(), EngineConfig{}, zap.NewNop()).Run(context.Background(), nil, rep, func(Batch) {
		called = true
	})

	if called {
		t.Error("observer must not be called without records")
	}
	if stats := rep.Snapshot(); stats.ProductsInserted != 0 || len(stats.Errors) != 0 {
		t.Errorf("expected empty stats, got %+v", stats)
	}
}
