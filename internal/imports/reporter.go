package imports

import (
	"fmt"
	"sync"

	"github.com/freitasmatheusrn/pricelist-importer/internal/pricelist"
)

// Reporter accumulates the stats of a run. Counters only grow.
type Reporter struct {
	mu    sync.Mutex
	stats ImportStats
}

func NewReporter() *Reporter {
	return &Reporter{stats: ImportStats{Errors: []string{}}}
}

// AddScan records the classification pass: every product row counts as
// processed, malformed ones also add a row error.
func (r *Reporter) AddScan(res pricelist.ScanResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stats.ProductsProcessed += res.Processed
	r.stats.CategoriesFound += len(res.Categories)
	for _, rowErr := range res.Errors {
		r.stats.Errors = append(r.stats.Errors, rowErr.Error())
	}
}

// AddProduct folds one product outcome and its price outcomes.
func (r *Reporter) AddProduct(o ProductOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if o.Err != nil {
		r.stats.Errors = append(r.stats.Errors, fmt.Sprintf("Product %s: %v", o.Record.Code, o.Err))
		return
	}
	switch o.Action {
	case ActionInserted:
		r.stats.ProductsInserted++
	case ActionUpdated:
		r.stats.ProductsUpdated++
	}

	for _, p := range o.Prices {
		if p.Err != nil {
			r.stats.Errors = append(r.stats.Errors, fmt.Sprintf("Price %s/%s: %v", o.Record.Code, p.Supplier, p.Err))
			continue
		}
		switch p.Action {
		case ActionInserted:
			r.stats.PricesInserted++
		case ActionUpdated:
			r.stats.PricesUpdated++
		}
	}
}

// Snapshot returns a copy that later updates do not touch.
func (r *Reporter) Snapshot() ImportStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.stats
	out.Errors = append(make([]string, 0, len(r.stats.Errors)), r.stats.Errors...)
	return out
}
