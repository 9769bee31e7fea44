package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"securecheck/metrics"
	"securecheck/table"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StopsQuery fetches the whole record store table.
const StopsQuery = "SELECT * FROM traffic_stops"

var errNoDatabase = errors.New("record store not configured")

// Fetcher runs complete SQL text against the record store.
type Fetcher interface {
	Fetch(ctx context.Context, sqlText string) table.Table
}

// RecordStore is the read-only path to traffic_stops. Reads never fail:
// connection and query errors are logged and yield an empty table.
type RecordStore struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewRecordStore(db *gorm.DB, log *zap.Logger) *RecordStore {
	return &RecordStore{db: db, log: log.Named("record_store")}
}

func (s *RecordStore) Fetch(ctx context.Context, sqlText string) table.Table {
	t, err := s.Query(ctx, sqlText)
	if err != nil {
		metrics.StoreFailures.Inc()
		s.log.Warn("record store read failed, returning empty table", zap.Error(err))
		return table.Table{}
	}
	return t
}

// Query is Fetch with the error surfaced, for callers that report it.
func (s *RecordStore) Query(ctx context.Context, sqlText string) (table.Table, error) {
	if s.db == nil {
		return table.Table{}, errNoDatabase
	}

	start := time.Now()
	metrics.StoreQueries.Inc()
	defer func() {
		metrics.StoreDuration.Observe(time.Since(start).Seconds())
	}()

	rows, err := s.db.WithContext(ctx).Raw(sqlText).Rows()
	if err != nil {
		return table.Table{}, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return table.Table{}, fmt.Errorf("columns: %w", err)
	}

	out := table.Table{Columns: cols}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return table.Table{}, fmt.Errorf("scan: %w", err)
		}
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		out.Rows = append(out.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return table.Table{}, fmt.Errorf("rows: %w", err)
	}

	s.log.Debug("record store read", zap.Int("rows", len(out.Rows)), zap.Duration("took", time.Since(start)))
	return out, nil
}

func (s *RecordStore) Ping(ctx context.Context) error {
	if s.db == nil {
		return errNoDatabase
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
