package services

import (
	"context"
	"strconv"
	"time"

	"securecheck/catalog"
	"securecheck/cleaning"
	"securecheck/metrics"
	"securecheck/prediction"
	"securecheck/table"

	"go.uber.org/zap"
)

// PreviewRows is how many matching rows a prediction shows.
const PreviewRows = 5

// Dashboard composes the record store, the cleaning pipeline, the catalog
// and the prediction rule. It keeps no per-request state: every call
// re-reads and re-cleans traffic_stops.
type Dashboard struct {
	store   Fetcher
	catalog *catalog.Catalog
	cache   *CacheService
	ttl     time.Duration
	log     *zap.Logger
}

func NewDashboard(store Fetcher, cat *catalog.Catalog, cache *CacheService, ttl time.Duration, log *zap.Logger) *Dashboard {
	if cache == nil {
		cache = NewDisabledCache()
	}
	return &Dashboard{store: store, catalog: cat, cache: cache, ttl: ttl, log: log.Named("dashboard")}
}

func (d *Dashboard) Catalog() *catalog.Catalog { return d.catalog }

// Stops returns the canonical stops table, freshly fetched and cleaned.
func (d *Dashboard) Stops(ctx context.Context) table.Table {
	raw := d.store.Fetch(ctx, StopsQuery)
	metrics.RowsCleaned.Add(float64(raw.Len()))
	return cleaning.Clean(raw)
}

// QueryResult is the outcome of running one catalog entry.
type QueryResult struct {
	Query  catalog.Query
	Table  table.Table
	Cached bool
}

type cachedTable struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// RunQuery executes a catalog entry through the record store read path.
// Non-empty results are cached for the configured TTL unless refresh is
// set. The only error is catalog.ErrNotFound.
func (d *Dashboard) RunQuery(ctx context.Context, id string, refresh bool) (QueryResult, error) {
	q, err := d.catalog.Get(id)
	if err != nil {
		return QueryResult{}, err
	}

	key := "catalog:" + q.ID
	if !refresh && d.ttl > 0 {
		var cached cachedTable
		if err := d.cache.Get(ctx, key, &cached); err == nil && cached.Columns != nil {
			metrics.CatalogRuns.WithLabelValues(q.ID, "cached").Inc()
			return QueryResult{Query: q, Table: table.New(cached.Columns, cached.Rows), Cached: true}, nil
		}
	}

	result := d.store.Fetch(ctx, q.SQL)
	if result.Empty() {
		metrics.CatalogRuns.WithLabelValues(q.ID, "empty").Inc()
		return QueryResult{Query: q, Table: result}, nil
	}

	metrics.CatalogRuns.WithLabelValues(q.ID, "rows").Inc()
	if d.ttl > 0 {
		go func() {
			if err := d.cache.Set(context.Background(), key, cachedTable{result.Columns, result.Rows}, d.ttl); err != nil {
				d.log.Debug("cache set failed", zap.String("key", key), zap.Error(err))
			}
		}()
	}
	return QueryResult{Query: q, Table: result}, nil
}

// PredictionResult pairs the rule's answer with a preview of the rows it
// was drawn from.
type PredictionResult struct {
	prediction.Result
	Preview table.Table
}

func (d *Dashboard) Predict(ctx context.Context, c prediction.Candidate) PredictionResult {
	stops := d.Stops(ctx)
	res := prediction.Predict(stops, c)
	metrics.Predictions.WithLabelValues(strconv.FormatBool(res.Fallback)).Inc()

	d.log.Info("prediction served",
		zap.String("outcome", res.Outcome),
		zap.String("violation", res.Violation),
		zap.Int("matches", res.Matches),
		zap.Bool("fallback", res.Fallback))

	return PredictionResult{
		Result:  res,
		Preview: prediction.Matches(stops, c).Head(PreviewRows),
	}
}
