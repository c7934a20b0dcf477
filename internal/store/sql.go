package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// SQLStore implements Store over database/sql with either the pgx or the
// modernc sqlite driver. IDs are generated in Go and timestamps stored as
// unix seconds so both backends share the same statements.
type SQLStore struct {
	db *sql.DB
}

// Open connects, pings and ensures the schema.
func Open(ctx context.Context, driver Driver, dsn string) (*SQLStore, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite"
	case DriverPostgres:
		drvName = "pgx"
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := ensureSchema(ctx, db, driver); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	schema := schemaSQLite
	if driver == DriverPostgres {
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  preferences TEXT NOT NULL,
  max_distance REAL NOT NULL,
  price_sensitivity REAL NOT NULL,
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS observations (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  customer_id TEXT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
  sku TEXT NOT NULL,
  category INTEGER NOT NULL,
  price REAL NOT NULL,
  features TEXT NOT NULL,
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS evaluations (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
  sku TEXT NOT NULL,
  category INTEGER NOT NULL,
  price REAL NOT NULL,
  score REAL NOT NULL,
  value REAL NOT NULL,
  reference_price REAL NOT NULL,
  reference_source TEXT NOT NULL,
  memory_updated INTEGER NOT NULL,
  created_at INTEGER NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  preferences TEXT NOT NULL,
  max_distance DOUBLE PRECISION NOT NULL,
  price_sensitivity DOUBLE PRECISION NOT NULL,
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS observations (
  id BIGSERIAL PRIMARY KEY,
  customer_id TEXT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
  sku TEXT NOT NULL,
  category INTEGER NOT NULL,
  price DOUBLE PRECISION NOT NULL,
  features TEXT NOT NULL,
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS evaluations (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
  sku TEXT NOT NULL,
  category INTEGER NOT NULL,
  price DOUBLE PRECISION NOT NULL,
  score DOUBLE PRECISION NOT NULL,
  value DOUBLE PRECISION NOT NULL,
  reference_price DOUBLE PRECISION NOT NULL,
  reference_source TEXT NOT NULL,
  memory_updated BOOLEAN NOT NULL,
  created_at BIGINT NOT NULL
);
`

func (s *SQLStore) CreateCustomer(ctx context.Context, c *Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}
	prefsJSON, err := json.Marshal(c.Preferences)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, preferences, max_distance, price_sensitivity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID.String(), c.Name, string(prefsJSON), c.MaxDistance, c.PriceSensitivity, c.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (s *SQLStore) GetCustomer(ctx context.Context, id uuid.UUID) (*Customer, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, preferences, max_distance, price_sensitivity, created_at
		FROM customers WHERE id = $1`, id.String())
	c, err := scanCustomer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

func (s *SQLStore) ListCustomers(ctx context.Context) ([]*Customer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, preferences, max_distance, price_sensitivity, created_at
		FROM customers ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCustomer(r rowScanner) (*Customer, error) {
	c := &Customer{}
	var id, prefsJSON string
	var createdAt int64
	if err := r.Scan(&id, &c.Name, &prefsJSON, &c.MaxDistance, &c.PriceSensitivity, &createdAt); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse customer id: %w", err)
	}
	c.ID = parsed
	if err := json.Unmarshal([]byte(prefsJSON), &c.Preferences); err != nil {
		return nil, fmt.Errorf("unmarshal preferences: %w", err)
	}
	c.CreatedAt = time.Unix(createdAt, 0).UTC()
	return c, nil
}

func (s *SQLStore) AppendObservation(ctx context.Context, o *Observation) error {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}
	featuresJSON, err := json.Marshal(o.Features)
	if err != nil {
		return fmt.Errorf("marshal features: %w", err)
	}
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO observations (customer_id, sku, category, price, features, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		o.CustomerID.String(), o.SKU, o.Category, o.Price, string(featuresJSON), o.CreatedAt.Unix(),
	).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("insert observation: %w", err)
	}
	return nil
}

func (s *SQLStore) ListObservations(ctx context.Context, customerID uuid.UUID) ([]*Observation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, customer_id, sku, category, price, features, created_at
		FROM observations WHERE customer_id = $1 ORDER BY id ASC`, customerID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Observation
	for rows.Next() {
		o := &Observation{}
		var cid, featuresJSON string
		var createdAt int64
		if err := rows.Scan(&o.ID, &cid, &o.SKU, &o.Category, &o.Price, &featuresJSON, &createdAt); err != nil {
			return nil, err
		}
		parsed, err := uuid.Parse(cid)
		if err != nil {
			return nil, fmt.Errorf("parse customer id: %w", err)
		}
		o.CustomerID = parsed
		if err := json.Unmarshal([]byte(featuresJSON), &o.Features); err != nil {
			return nil, fmt.Errorf("unmarshal features: %w", err)
		}
		o.CreatedAt = time.Unix(createdAt, 0).UTC()
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *SQLStore) RecordEvaluation(ctx context.Context, e *Evaluation) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO evaluations (id, customer_id, sku, category, price, score, value,
			reference_price, reference_source, memory_updated, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		e.ID.String(), e.CustomerID.String(), e.SKU, e.Category, e.Price, e.Score, e.Value,
		e.ReferencePrice, e.ReferenceSource, e.MemoryUpdated, e.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert evaluation: %w", err)
	}
	return nil
}

func (s *SQLStore) ListEvaluations(ctx context.Context, customerID uuid.UUID, limit int) ([]*Evaluation, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, customer_id, sku, category, price, score, value,
			reference_price, reference_source, memory_updated, created_at
		FROM evaluations WHERE customer_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2`, customerID.String(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Evaluation
	for rows.Next() {
		e := &Evaluation{}
		var id, cid string
		var createdAt int64
		if err := rows.Scan(&id, &cid, &e.SKU, &e.Category, &e.Price, &e.Score, &e.Value,
			&e.ReferencePrice, &e.ReferenceSource, &e.MemoryUpdated, &createdAt); err != nil {
			return nil, err
		}
		eid, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse evaluation id: %w", err)
		}
		e.ID = eid
		parsed, err := uuid.Parse(cid)
		if err != nil {
			return nil, fmt.Errorf("parse customer id: %w", err)
		}
		e.CustomerID = parsed
		e.CreatedAt = time.Unix(createdAt, 0).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM customers),
			(SELECT COUNT(*) FROM observations),
			(SELECT COUNT(*) FROM evaluations),
			(SELECT COALESCE(AVG(score), 0) FROM evaluations)`,
	).Scan(&stats.TotalCustomers, &stats.TotalObservations, &stats.TotalEvaluations, &stats.AvgScore)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
