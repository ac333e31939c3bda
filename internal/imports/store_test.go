package imports

import (
	"context"
	"encoding/binary"
	"sync"

	repo "github.com/freitasmatheusrn/pricelist-importer/internal/database/postgres/sqlc"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

type priceKey struct {
	productID pgtype.UUID
	supplier  string
}

// MockStore is an in-memory Store keyed like the real tables.
type MockStore struct {
	products map[string]repo.Product
	prices   map[priceKey]repo.SupplierPrice
	seq      uint64
	mu       sync.Mutex

	createProductErr map[string]error // by code
	createPriceErr   map[string]error // by supplier
	findProductErr   map[string]error // by code
	raceOnCreate     map[string]bool  // code inserted by someone else right before our insert
	blockCodes       map[string]bool  // lookups block until the context ends

	priceCalls map[string]int // by product code
}

func NewMockStore() *MockStore {
	return &MockStore{
		products:         make(map[string]repo.Product),
		prices:           make(map[priceKey]repo.SupplierPrice),
		createProductErr: make(map[string]error),
		createPriceErr:   make(map[string]error),
		findProductErr:   make(map[string]error),
		raceOnCreate:     make(map[string]bool),
		blockCodes:       make(map[string]bool),
		priceCalls:       make(map[string]int),
	}
}

func (m *MockStore) newID() pgtype.UUID {
	m.seq++
	var b [16]byte
	binary.BigEndian.PutUint64(b[8:], m.seq)
	return pgtype.UUID{Bytes: b, Valid: true}
}

func (m *MockStore) codeOf(id pgtype.UUID) string {
	for code, p := range m.products {
		if p.ID == id {
			return code
		}
	}
	return ""
}

func (m *MockStore) FindProductByCode(ctx context.Context, code string) (repo.Product, error) {
	m.mu.Lock()
	block := m.blockCodes[code]
	m.mu.Unlock()

	if block {
		<-ctx.Done()
		return repo.Product{}, ctx.Err()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.findProductErr[code]; err != nil {
		return repo.Product{}, err
	}
	p, ok := m.products[code]
	if !ok {
		return repo.Product{}, pgx.ErrNoRows
	}
	return p, nil
}

func (m *MockStore) CreateProduct(ctx context.Context, arg repo.CreateProductParams) (repo.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.createProductErr[arg.Code]; err != nil {
		return repo.Product{}, err
	}
	if m.raceOnCreate[arg.Code] {
		delete(m.raceOnCreate, arg.Code)
		m.products[arg.Code] = repo.Product{ID: m.newID(), Code: arg.Code, Name: "inserted concurrently"}
	}
	if _, exists := m.products[arg.Code]; exists {
		return repo.Product{}, &pgconn.PgError{Code: "23505", ConstraintName: "products_code_key"}
	}

	p := repo.Product{
		ID:       m.newID(),
		Code:     arg.Code,
		Article:  arg.Article,
		Name:     arg.Name,
		Barcode:  arg.Barcode,
		Category: arg.Category,
	}
	m.products[arg.Code] = p
	return p, nil
}

func (m *MockStore) UpdateProduct(ctx context.Context, arg repo.UpdateProductParams) (repo.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	code := m.codeOf(arg.ID)
	if code == "" {
		return repo.Product{}, pgx.ErrNoRows
	}
	p := m.products[code]
	p.Article = arg.Article
	p.Name = arg.Name
	p.Barcode = arg.Barcode
	p.Category = arg.Category
	m.products[code] = p
	return p, nil
}

func (m *MockStore) FindSupplierPrice(ctx context.Context, arg repo.FindSupplierPriceParams) (repo.SupplierPrice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.priceCalls[m.codeOf(arg.ProductID)]++
	sp, ok := m.prices[priceKey{arg.ProductID, arg.Supplier}]
	if !ok {
		return repo.SupplierPrice{}, pgx.ErrNoRows
	}
	return sp, nil
}

func (m *MockStore) CreateSupplierPrice(ctx context.Context, arg repo.CreateSupplierPriceParams) (repo.SupplierPrice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.createPriceErr[arg.Supplier]; err != nil {
		return repo.SupplierPrice{}, err
	}
	key := priceKey{arg.ProductID, arg.Supplier}
	if _, exists := m.prices[key]; exists {
		return repo.SupplierPrice{}, &pgconn.PgError{Code: "23505"}
	}
	sp := repo.SupplierPrice{
		ID:        m.newID(),
		ProductID: arg.ProductID,
		Supplier:  arg.Supplier,
		Price:     arg.Price,
		Currency:  arg.Currency,
	}
	m.prices[key] = sp
	return sp, nil
}

func (m *MockStore) UpdateSupplierPrice(ctx context.Context, arg repo.UpdateSupplierPriceParams) (repo.SupplierPrice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, sp := range m.prices {
		if sp.ID == arg.ID {
			sp.Price = arg.Price
			sp.Currency = arg.Currency
			m.prices[key] = sp
			return sp, nil
		}
	}
	return repo.SupplierPrice{}, pgx.ErrNoRows
}

func (m *MockStore) product(code string) (repo.Product, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[code]
	return p, ok
}

func (m *MockStore) priceCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prices)
}
