package portfolio

import (
	"database/sql"
	"fmt"
	"math"
	"path/filepath"
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

// State persists a run's equity curve, positions, and transactions to
// DuckDB as three independently loadable tables, sufficient to resume a
// backtest from the last saved date without replaying history.
type State struct {
	db     *sql.DB
	sq     sq.StatementBuilderType
	logger *logger.Logger
}

// Snapshot is the resumable tail of a persisted run.
type Snapshot struct {
	Account       types.Account
	OpenPositions []*types.Position
	LastDate      time.Time
}

// NewState opens (or creates) the state database at path. An empty path
// keeps the state in memory, which tests use.
func NewState(path string, l *logger.Logger) (*State, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistenceFailed, "failed to open state database", err)
	}

	return &State{
		db:     db,
		sq:     sq.StatementBuilder.PlaceholderFormat(sq.Question),
		logger: l,
	}, nil
}

// Initialize creates the three tables if they do not exist.
func (s *State) Initialize() error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS equity_curve (
			date TIMESTAMP PRIMARY KEY,
			equity DOUBLE NOT NULL,
			cash DOUBLE NOT NULL,
			drawdown DOUBLE NOT NULL,
			drawdown_percent DOUBLE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS positions (
			id VARCHAR PRIMARY KEY,
			symbol VARCHAR NOT NULL,
			direction VARCHAR NOT NULL,
			shares BIGINT NOT NULL,
			entry_date TIMESTAMP NOT NULL,
			exit_date TIMESTAMP,
			entry_price DOUBLE NOT NULL,
			price DOUBLE NOT NULL,
			value DOUBLE NOT NULL,
			tags VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id VARCHAR PRIMARY KEY,
			action VARCHAR NOT NULL,
			date TIMESTAMP NOT NULL,
			symbol VARCHAR NOT NULL,
			shares BIGINT NOT NULL,
			price DOUBLE NOT NULL,
			value DOUBLE NOT NULL,
			tags VARCHAR
		)`,
	}

	for _, schema := range schemas {
		if _, err := s.db.Exec(schema); err != nil {
			return errors.Wrap(errors.ErrCodePersistenceFailed, "failed to create state tables", err)
		}
	}

	return nil
}

// Save replaces the persisted run with the portfolio's current equity
// curve, full position set (open and closed), and transaction ledger.
func (s *State) Save(p *Portfolio) error {
	for _, table := range []string{"equity_curve", "positions", "transactions"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return errors.Wrapf(errors.ErrCodePersistenceFailed, err, "failed to clear %s", table)
		}
	}

	for _, point := range p.EquityCurve().Points() {
		query, args, err := s.sq.Insert("equity_curve").
			Columns("date", "equity", "cash", "drawdown", "drawdown_percent").
			Values(point.Date, point.Equity, point.Cash, point.Drawdown, point.DrawdownPercent).
			ToSql()
		if err != nil {
			return errors.Wrap(errors.ErrCodePersistenceFailed, "failed to build equity insert", err)
		}

		if _, err := s.db.Exec(query, args...); err != nil {
			return errors.Wrap(errors.ErrCodePersistenceFailed, "failed to insert equity point", err)
		}
	}

	positions := append([]*types.Position{}, p.ClosedPositions()...)
	positions = append(positions, p.OpenPositions()...)

	for _, pos := range positions {
		var exitDate any
		if d, err := pos.ExitDate.Take(); err == nil {
			exitDate = d
		}

		query, args, err := s.sq.Insert("positions").
			Columns("id", "symbol", "direction", "shares", "entry_date", "exit_date", "entry_price", "price", "value", "tags").
			Values(pos.ID, pos.Symbol, string(pos.Direction), pos.Shares, pos.EntryDate, exitDate,
				pos.EntryPrice, pos.Price, pos.Value, strings.Join(pos.Tags, ",")).
			ToSql()
		if err != nil {
			return errors.Wrap(errors.ErrCodePersistenceFailed, "failed to build position insert", err)
		}

		if _, err := s.db.Exec(query, args...); err != nil {
			return errors.Wrap(errors.ErrCodePersistenceFailed, "failed to insert position", err)
		}
	}

	for _, tx := range p.Transactions() {
		query, args, err := s.sq.Insert("transactions").
			Columns("id", "action", "date", "symbol", "shares", "price", "value", "tags").
			Values(tx.ID, string(tx.Action), tx.Date, tx.Symbol, tx.Shares, tx.Price, tx.Value, tx.Tags).
			ToSql()
		if err != nil {
			return errors.Wrap(errors.ErrCodePersistenceFailed, "failed to build transaction insert", err)
		}

		if _, err := s.db.Exec(query, args...); err != nil {
			return errors.Wrap(errors.ErrCodePersistenceFailed, "failed to insert transaction", err)
		}
	}

	s.logger.Info("Saved run state",
		zap.Int("equity_points", p.EquityCurve().Len()),
		zap.Int("positions", len(positions)),
		zap.Int("transactions", len(p.Transactions())))

	return nil
}

// ExportParquet writes each table as a Parquet file under dir.
func (s *State) ExportParquet(dir string) error {
	for _, table := range []string{"equity_curve", "positions", "transactions"} {
		target := filepath.Join(dir, table+".parquet")
		query := fmt.Sprintf("COPY %s TO '%s' (FORMAT PARQUET)", table, target)

		if _, err := s.db.Exec(query); err != nil {
			return errors.Wrapf(errors.ErrCodePersistenceFailed, err, "failed to export %s to parquet", table)
		}
	}

	return nil
}

// LoadEquityCurve reads the persisted curve in date order.
func (s *State) LoadEquityCurve() ([]types.EquityPoint, error) {
	query, args, err := s.sq.Select("date", "equity", "cash", "drawdown", "drawdown_percent").
		From("equity_curve").
		OrderBy("date ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistenceFailed, "failed to build equity query", err)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistenceFailed, "failed to query equity curve", err)
	}
	defer rows.Close()

	var points []types.EquityPoint

	for rows.Next() {
		var point types.EquityPoint
		if err := rows.Scan(&point.Date, &point.Equity, &point.Cash, &point.Drawdown, &point.DrawdownPercent); err != nil {
			return nil, errors.Wrap(errors.ErrCodePersistenceFailed, "failed to scan equity point", err)
		}

		points = append(points, point)
	}

	return points, rows.Err()
}

// LoadPositions reads every persisted position.
func (s *State) LoadPositions() ([]*types.Position, error) {
	query, args, err := s.sq.Select("id", "symbol", "direction", "shares", "entry_date", "exit_date", "entry_price", "price", "value", "tags").
		From("positions").
		OrderBy("entry_date ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistenceFailed, "failed to build positions query", err)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistenceFailed, "failed to query positions", err)
	}
	defer rows.Close()

	var positions []*types.Position

	for rows.Next() {
		var (
			pos       types.Position
			direction string
			exitDate  sql.NullTime
			tags      sql.NullString
		)

		if err := rows.Scan(&pos.ID, &pos.Symbol, &direction, &pos.Shares, &pos.EntryDate, &exitDate,
			&pos.EntryPrice, &pos.Price, &pos.Value, &tags); err != nil {
			return nil, errors.Wrap(errors.ErrCodePersistenceFailed, "failed to scan position", err)
		}

		pos.Direction = types.Direction(direction)

		if exitDate.Valid {
			pos.ExitDate = optional.Some(exitDate.Time)
		}

		if tags.Valid && tags.String != "" {
			pos.Tags = strings.Split(tags.String, ",")
		}

		positions = append(positions, &pos)
	}

	return positions, rows.Err()
}

// LoadTransactions reads the persisted ledger in date order.
func (s *State) LoadTransactions() ([]types.Transaction, error) {
	query, args, err := s.sq.Select("id", "action", "date", "symbol", "shares", "price", "value", "tags").
		From("transactions").
		OrderBy("date ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistenceFailed, "failed to build transactions query", err)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistenceFailed, "failed to query transactions", err)
	}
	defer rows.Close()

	var transactions []types.Transaction

	for rows.Next() {
		var (
			tx     types.Transaction
			action string
		)

		if err := rows.Scan(&tx.ID, &action, &tx.Date, &tx.Symbol, &tx.Shares, &tx.Price, &tx.Value, &tx.Tags); err != nil {
			return nil, errors.Wrap(errors.ErrCodePersistenceFailed, "failed to scan transaction", err)
		}

		tx.Action = types.Action(action)
		transactions = append(transactions, tx)
	}

	return transactions, rows.Err()
}

// LoadSnapshot restores the resumable state: the account rebuilt from the
// first and last equity-curve rows, plus the still-open positions. The
// restored equity must equal cash plus the open positions' market values;
// a mismatch means the tables disagree and the snapshot is unusable.
func (s *State) LoadSnapshot() (*Snapshot, error) {
	points, err := s.LoadEquityCurve()
	if err != nil {
		return nil, err
	}

	if len(points) == 0 {
		return nil, errors.New(errors.ErrCodeDataNotFound, "no persisted equity curve to resume from")
	}

	first := points[0]
	last := points[len(points)-1]

	positions, err := s.LoadPositions()
	if err != nil {
		return nil, err
	}

	var open []*types.Position

	total := 0.0

	for _, pos := range positions {
		if pos.IsOpen() {
			open = append(open, pos)
			total += pos.Value
		}
	}

	if math.Abs(last.Cash+total-last.Equity) > 1e-6 {
		return nil, errors.Newf(errors.ErrCodeSnapshotMismatch,
			"persisted equity %.6f does not match cash %.6f plus open position value %.6f",
			last.Equity, last.Cash, total)
	}

	return &Snapshot{
		Account: types.Account{
			StartingBalance: first.Equity,
			Cash:            last.Cash,
			Equity:          last.Equity,
			BuyingPower:     last.Cash,
		},
		OpenPositions: open,
		LastDate:      last.Date,
	}, nil
}

// Close releases the database handle.
func (s *State) Close() error {
	return s.db.Close()
}
