package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"cryptomax/internal/rates"
)

var (
	// ErrNotConfigured indicates the storage pool was not initialised.
	ErrNotConfigured = errors.New("storage: pool not configured")
)

const (
	insertRecordSQL = `INSERT INTO rate_records (
        run_ts,
        provider,
        network,
        rate,
        metric,
        source,
        raw_snippet
    ) VALUES (
        $1,$2,$3,$4,$5,$6,$7
    );`

	listRecordsBetweenSQL = `SELECT
        id,
        run_ts,
        provider,
        network,
        rate,
        metric,
        source,
        raw_snippet,
        created_at
    FROM rate_records
    WHERE run_ts >= $1
      AND run_ts < $2
    ORDER BY run_ts, id;`

	listRecentRecordsSQL = `SELECT
        id,
        run_ts,
        provider,
        network,
        rate,
        metric,
        source,
        raw_snippet,
        created_at
    FROM rate_records
    ORDER BY run_ts DESC, id
    LIMIT $1;`

	latestRunRecordsSQL = `SELECT
        id,
        run_ts,
        provider,
        network,
        rate,
        metric,
        source,
        raw_snippet,
        created_at
    FROM rate_records
    WHERE run_ts = (SELECT MAX(run_ts) FROM rate_records)
    ORDER BY id;`

	countRecordsSQL = `SELECT COUNT(*) FROM rate_records;`

	tryAdvisoryLockSQL = `SELECT pg_try_advisory_lock($1);`
	advisoryUnlockSQL  = `SELECT pg_advisory_unlock($1);`
)

// RateRecordStore defines operations for rate record persistence.
type RateRecordStore interface {
	InsertRunRecords(ctx context.Context, runTS time.Time, records []rates.RateRecord) error
	ListRecordsBetween(ctx context.Context, from, to time.Time) ([]StoredRecord, error)
	ListRecentRecords(ctx context.Context, limit int) ([]StoredRecord, error)
	LatestRunRecords(ctx context.Context) ([]StoredRecord, error)
	CountRecords(ctx context.Context) (int64, error)
}

// AdvisoryLocker exposes advisory lock helpers.
type AdvisoryLocker interface {
	TryAdvisoryLock(ctx context.Context, key int64) (unlock func(), acquired bool, err error)
}

// Store provides Postgres-backed history of collection runs.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wires a pgx pool into a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

func (s *Store) getPool() (*pgxpool.Pool, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotConfigured
	}
	return s.pool, nil
}

// InsertRunRecords persists one collection run's aggregate inside a single
// transaction so a run is either fully stored or not at all.
func (s *Store) InsertRunRecords(ctx context.Context, runTS time.Time, records []rates.RateRecord) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin insert run: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, record := range records {
		if _, err := tx.Exec(ctx, insertRecordSQL,
			runTS,
			record.Provider,
			record.Network,
			record.Rate.String(),
			string(record.Metric),
			record.Source,
			record.RawSnippet,
		); err != nil {
			return fmt.Errorf("insert rate record: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit insert run: %w", err)
	}
	return nil
}

// ListRecordsBetween lists records whose run falls in the window.
func (s *Store) ListRecordsBetween(ctx context.Context, from, to time.Time) ([]StoredRecord, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listRecordsBetweenSQL, from, to)
	if queryErr != nil {
		return nil, fmt.Errorf("list records between: %w", queryErr)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// ListRecentRecords lists the most recent records ordered by run.
func (s *Store) ListRecentRecords(ctx context.Context, limit int) ([]StoredRecord, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listRecentRecordsSQL, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("list recent records: %w", queryErr)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// LatestRunRecords returns the records of the most recent stored run.
func (s *Store) LatestRunRecords(ctx context.Context) ([]StoredRecord, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, latestRunRecordsSQL)
	if queryErr != nil {
		return nil, fmt.Errorf("latest run records: %w", queryErr)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// CountRecords counts stored records.
func (s *Store) CountRecords(ctx context.Context) (int64, error) {
	pool, err := s.getPool()
	if err != nil {
		return 0, err
	}
	var count int64
	if scanErr := pool.QueryRow(ctx, countRecordsSQL).Scan(&count); scanErr != nil {
		return 0, fmt.Errorf("count records: %w", scanErr)
	}
	return count, nil
}

// TryAdvisoryLock attempts to acquire a postgres advisory lock and returns
// a release func. Used by watch mode to keep instances from double-sampling.
func (s *Store) TryAdvisoryLock(ctx context.Context, key int64) (func(), bool, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, false, err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("acquire connection: %w", err)
	}

	var acquired bool
	if err := conn.QueryRow(ctx, tryAdvisoryLockSQL, key).Scan(&acquired); err != nil {
		conn.Release()
		return nil, false, fmt.Errorf("try advisory lock: %w", err)
	}
	if !acquired {
		conn.Release()
		return nil, false, nil
	}

	unlock := func() {
		ctxUnlock, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if _, err := conn.Exec(ctxUnlock, advisoryUnlockSQL, key); err != nil {
			// unlock best effort; log omitted in storage package
		}
		conn.Release()
	}
	return unlock, true, nil
}

func collectRecords(rows pgx.Rows) ([]StoredRecord, error) {
	stored := make([]StoredRecord, 0)
	for rows.Next() {
		record, scanErr := scanStoredRecord(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		stored = append(stored, record)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return stored, nil
}

func scanStoredRecord(rows pgx.Rows) (StoredRecord, error) {
	var (
		id         int64
		runTS      time.Time
		providerID string
		network    string
		rateStr    string
		metric     string
		source     string
		rawSnippet string
		createdAt  time.Time
	)

	if err := rows.Scan(
		&id,
		&runTS,
		&providerID,
		&network,
		&rateStr,
		&metric,
		&source,
		&rawSnippet,
		&createdAt,
	); err != nil {
		return StoredRecord{}, err
	}

	rate, err := decimal.NewFromString(rateStr)
	if err != nil {
		return StoredRecord{}, fmt.Errorf("parse stored rate: %w", err)
	}

	return StoredRecord{
		ID:    id,
		RunTS: runTS,
		Record: rates.RateRecord{
			Provider:   providerID,
			Network:    network,
			Rate:       rate,
			Metric:     rates.Metric(metric),
			Source:     source,
			RawSnippet: rawSnippet,
		},
		CreatedAt: createdAt,
	}, nil
}

var _ RateRecordStore = (*Store)(nil)
var _ AdvisoryLocker = (*Store)(nil)
