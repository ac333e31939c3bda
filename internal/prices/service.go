// Package prices exports the stored catalog in the price list layout.
package prices

import (
	"bytes"
	"context"

	repo "github.com/freitasmatheusrn/pricelist-importer/internal/database/postgres/sqlc"
	"github.com/freitasmatheusrn/pricelist-importer/internal/pricelist"
	"github.com/freitasmatheusrn/pricelist-importer/pkg/rest"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"
)

type Service interface {
	ExportToSpreadsheet(ctx context.Context) (*bytes.Buffer, *rest.ApiErr)
}

type Store interface {
	ListProducts(ctx context.Context) ([]repo.Product, error)
	ListSupplierPrices(ctx context.Context) ([]repo.SupplierPrice, error)
}

type svc struct {
	store     Store
	suppliers []pricelist.SupplierBinding
	logger    *zap.Logger
}

func NewService(store Store, suppliers []pricelist.SupplierBinding, logger *zap.Logger) *svc {
	return &svc{
		store:     store,
		suppliers: suppliers,
		logger:    logger,
	}
}

// ExportToSpreadsheet renders every stored product with its supplier prices.
// Prices of suppliers without a column binding are left out.
func (s *svc) ExportToSpreadsheet(ctx context.Context) (*bytes.Buffer, *rest.ApiErr) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		s.logger.Error("failed to list products for export", zap.Error(err))
		return nil, rest.NewInternalServerError("failed to load products for export")
	}
	prices, err := s.store.ListSupplierPrices(ctx)
	if err != nil {
		s.logger.Error("failed to list supplier prices for export", zap.Error(err))
		return nil, rest.NewInternalServerError("failed to load prices for export")
	}

	buf := new(bytes.Buffer)
	if err := pricelist.WriteWorkbook(buf, toRecords(products, prices, s.suppliers), s.suppliers); err != nil {
		s.logger.Error("failed to write spreadsheet to buffer", zap.Error(err))
		return nil, rest.NewInternalServerError("failed to build spreadsheet")
	}

	s.logger.Info("catalog exported",
		zap.Int("products", len(products)),
		zap.Int("prices", len(prices)),
	)
	return buf, nil
}

func toRecords(products []repo.Product, prices []repo.SupplierPrice, suppliers []pricelist.SupplierBinding) []pricelist.ProductRecord {
	order := make(map[string]int, len(suppliers))
	for i, b := range suppliers {
		order[b.Name] = i
	}

	byProduct := make(map[pgtype.UUID][]repo.SupplierPrice)
	for _, p := range prices {
		if _, ok := order[p.Supplier]; !ok {
			continue
		}
		byProduct[p.ProductID] = append(byProduct[p.ProductID], p)
	}

	records := make([]pricelist.ProductRecord, 0, len(products))
	for _, p := range products {
		rec := pricelist.ProductRecord{
			Code:     p.Code,
			Article:  p.Article.String,
			Name:     p.Name,
			Barcode:  p.Barcode.String,
			Category: p.Category.String,
		}

		quotes := make([]pricelist.SupplierPrice, len(suppliers))
		present := make([]bool, len(suppliers))
		for _, sp := range byProduct[p.ID] {
			i := order[sp.Supplier]
			quotes[i] = pricelist.SupplierPrice{
				Supplier: sp.Supplier,
				Price:    sp.Price,
				Currency: sp.Currency.String,
			}
			present[i] = true
		}
		for i, ok := range present {
			if ok {
				rec.Prices = append(rec.Prices, quotes[i])
			}
		}

		records = append(records, rec)
	}
	return records
}
