package market

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/pesotrader/pesotrader/internal/logger"
	"github.com/pesotrader/pesotrader/internal/types"
	"github.com/pesotrader/pesotrader/pkg/errors"
	"go.uber.org/zap"
)

// DuckDBQuoteStore serves quotes from a DuckDB view over a Parquet or
// CSV file. The file must carry the columns symbol, time, open, high,
// low, close, volume.
type DuckDBQuoteStore struct {
	db     *sql.DB
	sq     sq.StatementBuilderType
	logger *logger.Logger
}

// NewDuckDBQuoteStore opens an in-memory DuckDB instance tuned for
// sequential scans over market data.
func NewDuckDBQuoteStore(l *logger.Logger) (*DuckDBQuoteStore, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	optimizations := []string{
		"SET memory_limit='4GB'",
		"SET threads TO 4",
		"SET enable_object_cache=true",
	}

	for _, opt := range optimizations {
		if _, err := db.Exec(opt); err != nil {
			l.Warn("Failed to apply duckdb optimization", zap.String("setting", opt), zap.Error(err))
		}
	}

	return &DuckDBQuoteStore{
		db:     db,
		sq:     sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		logger: l,
	}, nil
}

// Initialize creates the quotes view over the given data file. The
// reader function is chosen from the file extension.
func (d *DuckDBQuoteStore) Initialize(path string) error {
	reader := "read_parquet"
	if strings.HasSuffix(path, ".csv") {
		reader = "read_csv_auto"
	}

	query := fmt.Sprintf("CREATE OR REPLACE VIEW quotes AS SELECT * FROM %s('%s')", reader, path)
	if _, err := d.db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to create quotes view from %s", path)
	}

	var count int
	if err := d.db.QueryRow("SELECT COUNT(*) FROM quotes").Scan(&count); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to count quotes", err)
	}

	d.logger.Info("Initialized quote store", zap.String("path", path), zap.Int("rows", count))

	return nil
}

// Dates implements QuoteStore.
func (d *DuckDBQuoteStore) Dates(start optional.Option[time.Time], end optional.Option[time.Time]) ([]time.Time, error) {
	builder := d.sq.Select("DISTINCT time").From("quotes").OrderBy("time ASC")
	builder = boundTime(builder, start, end)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build dates query", err)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query dates", err)
	}
	defer rows.Close()

	var dates []time.Time

	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan date", err)
		}

		dates = append(dates, t)
	}

	return dates, rows.Err()
}

// Symbols implements QuoteStore.
func (d *DuckDBQuoteStore) Symbols(date optional.Option[time.Time]) ([]string, error) {
	builder := d.sq.Select("DISTINCT symbol").From("quotes").OrderBy("symbol ASC")
	if date.IsSome() {
		builder = builder.Where(sq.Eq{"time": date.Unwrap()})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build symbols query", err)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query symbols", err)
	}
	defer rows.Close()

	var symbols []string

	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan symbol", err)
		}

		symbols = append(symbols, s)
	}

	return symbols, rows.Err()
}

// Quotes implements QuoteStore.
func (d *DuckDBQuoteStore) Quotes(symbol string, start optional.Option[time.Time], end optional.Option[time.Time]) (types.QuoteSeries, error) {
	builder := d.sq.Select("time", "open", "high", "low", "close", "volume").
		From("quotes").
		Where(sq.Eq{"symbol": symbol}).
		OrderBy("time ASC")
	builder = boundTime(builder, start, end)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build quotes query", err)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to query quotes for %s", symbol)
	}
	defer rows.Close()

	var series types.QuoteSeries

	for rows.Next() {
		var q types.Quote
		if err := rows.Scan(&q.Time, &q.Open, &q.High, &q.Low, &q.Close, &q.Volume); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan quote", err)
		}

		series = append(series, q)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to iterate quotes", err)
	}

	if len(series) == 0 {
		return nil, errors.Newf(errors.ErrCodeDataNotFound, "Quotes: no data for symbol %s", symbol)
	}

	if err := series.Validate(); err != nil {
		return nil, err
	}

	return series, nil
}

// ClosePrice implements QuoteStore.
func (d *DuckDBQuoteStore) ClosePrice(date time.Time, symbol string) (optional.Option[float64], error) {
	query, args, err := d.sq.Select("close").
		From("quotes").
		Where(sq.Eq{"symbol": symbol, "time": date}).
		Limit(1).
		ToSql()
	if err != nil {
		return optional.None[float64](), errors.Wrap(errors.ErrCodeQueryFailed, "failed to build close query", err)
	}

	var close float64

	err = d.db.QueryRow(query, args...).Scan(&close)
	if err == sql.ErrNoRows {
		return optional.None[float64](), nil
	}

	if err != nil {
		return optional.None[float64](), errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to query close for %s", symbol)
	}

	return optional.Some(close), nil
}

// Close releases the underlying database handle.
func (d *DuckDBQuoteStore) Close() error {
	return d.db.Close()
}

func boundTime(builder sq.SelectBuilder, start optional.Option[time.Time], end optional.Option[time.Time]) sq.SelectBuilder {
	if start.IsSome() {
		builder = builder.Where(sq.GtOrEq{"time": start.Unwrap()})
	}

	if end.IsSome() {
		builder = builder.Where(sq.LtOrEq{"time": end.Unwrap()})
	}

	return builder
}
