package imports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/freitasmatheusrn/pricelist-importer/internal/database"
	repo "github.com/freitasmatheusrn/pricelist-importer/internal/database/postgres/sqlc"
	"github.com/freitasmatheusrn/pricelist-importer/internal/pricelist"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultBatchSize    = 50
	DefaultStoreTimeout = 10 * time.Second
)

// Store is the part of the querier the upsert engine uses.
type Store interface {
	FindProductByCode(ctx context.Context, code string) (repo.Product, error)
	CreateProduct(ctx context.Context, arg repo.CreateProductParams) (repo.Product, error)
	UpdateProduct(ctx context.Context, arg repo.UpdateProductParams) (repo.Product, error)
	FindSupplierPrice(ctx context.Context, arg repo.FindSupplierPriceParams) (repo.SupplierPrice, error)
	CreateSupplierPrice(ctx context.Context, arg repo.CreateSupplierPriceParams) (repo.SupplierPrice, error)
	UpdateSupplierPrice(ctx context.Context, arg repo.UpdateSupplierPriceParams) (repo.SupplierPrice, error)
}

type Action int

const (
	ActionNone Action = iota
	ActionInserted
	ActionUpdated
)

type PriceOutcome struct {
	Supplier string
	Action   Action
	Err      error
}

// ProductOutcome is the result of upserting one product. When Err is set no
// price was attempted and Prices is empty.
type ProductOutcome struct {
	Record pricelist.ProductRecord
	Action Action
	Err    error
	Prices []PriceOutcome
}

// PriceErrors counts the failed prices of a product.
func (o ProductOutcome) PriceErrors() int {
	n := 0
	for _, p := range o.Prices {
		if p.Err != nil {
			n++
		}
	}
	return n
}

// Batch is reported once all of its products are done. Index is 1-based.
type Batch struct {
	Index    int
	Count    int
	Outcomes []ProductOutcome
}

type BatchObserver func(b Batch)

type EngineConfig struct {
	BatchSize    int
	Workers      int // products upserted concurrently within a batch
	StoreTimeout time.Duration
}

type Engine struct {
	store  Store
	cfg    EngineConfig
	logger *zap.Logger
}

func NewEngine(store Store, cfg EngineConfig, logger *zap.Logger) *Engine {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = DefaultStoreTimeout
	}
	return &Engine{
		store:  store,
		cfg:    cfg,
		logger: logger,
	}
}

// Run upserts records batch by batch and folds every outcome into rep in
// input order. observe, if set, is called after each batch from the calling
// goroutine.
func (e *Engine) Run(ctx context.Context, records []pricelist.ProductRecord, rep *Reporter, observe BatchObserver) {
	batches := (len(records) + e.cfg.BatchSize - 1) / e.cfg.BatchSize

	for b := 0; b < batches; b++ {
		start := b * e.cfg.BatchSize
		end := min(start+e.cfg.BatchSize, len(records))

		outcomes := e.runBatch(ctx, records[start:end])
		for _, o := range outcomes {
			rep.AddProduct(o)
		}

		e.logger.Debug("batch upserted",
			zap.Int("batch", b+1),
			zap.Int("batches", batches),
			zap.Int("products", len(outcomes)),
		)

		if observe != nil {
			observe(Batch{Index: b + 1, Count: batches, Outcomes: outcomes})
		}
	}
}

func (e *Engine) runBatch(ctx context.Context, batch []pricelist.ProductRecord) []ProductOutcome {
	outcomes := make([]ProductOutcome, len(batch))

	if e.cfg.Workers == 1 {
		for i, rec := range batch {
			outcomes[i] = e.upsertProduct(ctx, rec)
		}
		return outcomes
	}

	var g errgroup.Group
	g.SetLimit(e.cfg.Workers)
	for i := range batch {
		g.Go(func() error {
			outcomes[i] = e.upsertProduct(ctx, batch[i])
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func (e *Engine) upsertProduct(ctx context.Context, rec pricelist.ProductRecord) ProductOutcome {
	out := ProductOutcome{Record: rec}

	product, action, err := e.saveProduct(ctx, rec)
	if err != nil {
		e.logger.Warn("failed to upsert product",
			zap.String("code", rec.Code),
			zap.Int("row", rec.Row),
			zap.Error(err),
		)
		out.Err = err
		return out
	}
	out.Action = action

	for _, sp := range rec.Prices {
		po := e.savePrice(ctx, product.ID, sp)
		if po.Err != nil {
			e.logger.Warn("failed to upsert supplier price",
				zap.String("code", rec.Code),
				zap.String("supplier", sp.Supplier),
				zap.Int("row", rec.Row),
				zap.Error(po.Err),
			)
		}
		out.Prices = append(out.Prices, po)
	}

	return out
}

func (e *Engine) saveProduct(ctx context.Context, rec pricelist.ProductRecord) (repo.Product, Action, error) {
	existing, err := withTimeout(ctx, e.cfg.StoreTimeout, func(ctx context.Context) (repo.Product, error) {
		return e.store.FindProductByCode(ctx, rec.Code)
	})
	if err == nil {
		product, err := e.updateProduct(ctx, existing.ID, rec)
		return product, ActionUpdated, err
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return repo.Product{}, ActionNone, fmt.Errorf("find product: %w", err)
	}

	created, err := withTimeout(ctx, e.cfg.StoreTimeout, func(ctx context.Context) (repo.Product, error) {
		return e.store.CreateProduct(ctx, repo.CreateProductParams{
			Code:     rec.Code,
			Article:  toPgText(rec.Article),
			Name:     rec.Name,
			Barcode:  toPgText(rec.Barcode),
			Category: toPgText(rec.Category),
		})
	})
	if err == nil {
		return created, ActionInserted, nil
	}
	if !database.IsUniqueViolation(err) {
		return repo.Product{}, ActionNone, fmt.Errorf("create product: %w", err)
	}

	// another import inserted the same code between lookup and insert
	existing, err = withTimeout(ctx, e.cfg.StoreTimeout, func(ctx context.Context) (repo.Product, error) {
		return e.store.FindProductByCode(ctx, rec.Code)
	})
	if err != nil {
		return repo.Product{}, ActionNone, fmt.Errorf("find product after conflict: %w", err)
	}
	product, err := e.updateProduct(ctx, existing.ID, rec)
	return product, ActionUpdated, err
}

func (e *Engine) updateProduct(ctx context.Context, id pgtype.UUID, rec pricelist.ProductRecord) (repo.Product, error) {
	product, err := withTimeout(ctx, e.cfg.StoreTimeout, func(ctx context.Context) (repo.Product, error) {
		return e.store.UpdateProduct(ctx, repo.UpdateProductParams{
			ID:       id,
			Article:  toPgText(rec.Article),
			Name:     rec.Name,
			Barcode:  toPgText(rec.Barcode),
			Category: toPgText(rec.Category),
		})
	})
	if err != nil {
		return repo.Product{}, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

func (e *Engine) savePrice(ctx context.Context, productID pgtype.UUID, sp pricelist.SupplierPrice) PriceOutcome {
	out := PriceOutcome{Supplier: sp.Supplier}

	existing, err := withTimeout(ctx, e.cfg.StoreTimeout, func(ctx context.Context) (repo.SupplierPrice, error) {
		return e.store.FindSupplierPrice(ctx, repo.FindSupplierPriceParams{
			ProductID: productID,
			Supplier:  sp.Supplier,
		})
	})
	switch {
	case err == nil:
		out.Action = ActionUpdated
		out.Err = e.updatePrice(ctx, existing.ID, sp)
		return out
	case !errors.Is(err, pgx.ErrNoRows):
		out.Err = fmt.Errorf("find price: %w", err)
		return out
	}

	_, err = withTimeout(ctx, e.cfg.StoreTimeout, func(ctx context.Context) (repo.SupplierPrice, error) {
		return e.store.CreateSupplierPrice(ctx, repo.CreateSupplierPriceParams{
			ProductID: productID,
			Supplier:  sp.Supplier,
			Price:     sp.Price,
			Currency:  toPgText(sp.Currency),
		})
	})
	if err == nil {
		out.Action = ActionInserted
		return out
	}
	if !database.IsUniqueViolation(err) {
		out.Err = fmt.Errorf("create price: %w", err)
		return out
	}

	existing, err = withTimeout(ctx, e.cfg.StoreTimeout, func(ctx context.Context) (repo.SupplierPrice, error) {
		return e.store.FindSupplierPrice(ctx, repo.FindSupplierPriceParams{
			ProductID: productID,
			Supplier:  sp.Supplier,
		})
	})
	if err != nil {
		out.Err = fmt.Errorf("find price after conflict: %w", err)
		return out
	}
	out.Action = ActionUpdated
	out.Err = e.updatePrice(ctx, existing.ID, sp)
	return out
}

func (e *Engine) updatePrice(ctx context.Context, id pgtype.UUID, sp pricelist.SupplierPrice) error {
	_, err := withTimeout(ctx, e.cfg.StoreTimeout, func(ctx context.Context) (repo.SupplierPrice, error) {
		return e.store.UpdateSupplierPrice(ctx, repo.UpdateSupplierPriceParams{
			ID:       id,
			Price:    sp.Price,
			Currency: toPgText(sp.Currency),
		})
	})
	if err != nil {
		return fmt.Errorf("update price: %w", err)
	}
	return nil
}

// withTimeout bounds a single store call.
func withTimeout[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	return fn(ctx)
}

func toPgText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}
