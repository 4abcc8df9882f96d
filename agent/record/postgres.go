package record

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// PostgresConfig describes the contract database connection.
type PostgresConfig struct {
	URL          string        `envconfig:"URL" split_words:"true"`
	MaxOpenConns int           `envconfig:"MAX_OPEN_CONNS" split_words:"true" default:"8"`
	Timeout      time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

// PostgresStore persists contracts in Postgres through bun.
type PostgresStore struct {
	db *bun.DB
}

// NewPostgresStore opens the pool, verifies connectivity and ensures the
// contracts table exists.
func NewPostgresStore(ctx context.Context, cfg PostgresConfig) (*PostgresStore, error) {
	dsn := strings.TrimSpace(cfg.URL)
	if dsn == "" {
		return nil, errors.New("postgres url is required")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	db := bun.NewDB(sqldb, pgdialect.New())

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().
		Model((*Contract)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create contracts table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *PostgresStore) GetAll(ctx context.Context) ([]Contract, error) {
	var contracts []Contract
	if err := s.db.NewSelect().
		Model(&contracts).
		Order("created_at DESC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("select contracts: %w", err)
	}
	return contracts, nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id string) (Contract, error) {
	var c Contract
	err := s.db.NewSelect().
		Model(&c).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Contract{}, ErrNotFound
		}
		return Contract{}, fmt.Errorf("select contract %s: %w", id, err)
	}
	return c, nil
}

func (s *PostgresStore) Insert(ctx context.Context, c Contract) error {
	if _, err := s.db.NewInsert().Model(&c).Exec(ctx); err != nil {
		return fmt.Errorf("insert contract: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateByID(ctx context.Context, id string, patch Patch) (Contract, error) {
	q := s.db.NewUpdate().Model((*Contract)(nil)).Where("id = ?", id)
	if patch.Name != nil {
		q = q.Set("name = ?", *patch.Name)
	}
	if patch.CounterpartyName != nil {
		q = q.Set("counterparty_name = ?", *patch.CounterpartyName)
	}
	if patch.Amount != nil {
		q = q.Set("amount = ?", *patch.Amount)
	}
	if patch.StartDate != nil {
		q = q.Set("start_date = ?", *patch.StartDate)
	}
	if patch.EndDate != nil {
		q = q.Set("end_date = ?", *patch.EndDate)
	}
	if patch.Status != nil {
		q = q.Set("status = ?", string(*patch.Status))
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return Contract{}, fmt.Errorf("update contract %s: %w", id, err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return Contract{}, ErrNotFound
	}
	return s.GetByID(ctx, id)
}

func (s *PostgresStore) FindFirstByNameContains(ctx context.Context, text string) (Contract, error) {
	needle := strings.TrimSpace(text)
	if needle == "" {
		return Contract{}, ErrNotFound
	}
	var c Contract
	err := s.db.NewSelect().
		Model(&c).
		Where("name ILIKE ?", "%"+needle+"%").
		Order("created_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Contract{}, ErrNotFound
		}
		return Contract{}, fmt.Errorf("find contract by name: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) DeleteByID(ctx context.Context, id string) error {
	res, err := s.db.NewDelete().
		Model((*Contract)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete contract %s: %w", id, err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.db.NewDelete().
		Model((*Contract)(nil)).
		Where("id IN (?)", bun.In(ids)).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete contracts: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return rows, nil
}

var _ Store = (*PostgresStore)(nil)
