// Package repository implements the inventory and lead stores on Postgres.
// Both tables are append-only row stores keyed the way the engine's header
// schema describes them; nothing here updates or deletes listing rows.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"core/internal/logger"
	"core/internal/model"
)

// PostgresRepository handles database operations
type PostgresRepository struct {
	db  *sqlx.DB
	log logger.Logger
}

// NewPostgresRepository connects and prepares the row store.
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int, log logger.Logger) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db, log: log}, nil
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// EnsureSchema creates the row stores when they do not exist yet, mirroring
// how the sheet tabs used to be created with their header rows on first run.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS listings (
		source_id        BIGINT PRIMARY KEY,
		created_at       TIMESTAMPTZ NOT NULL,
		title            TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		location         TEXT NOT NULL DEFAULT '',
		bedrooms         INT,
		bathrooms        INT,
		price_month      INT,
		pets             TEXT NOT NULL DEFAULT 'unknown',
		available        TEXT NOT NULL DEFAULT '',
		electricity_rate DOUBLE PRECISION,
		water_rate       DOUBLE PRECISION,
		pool             TEXT NOT NULL DEFAULT 'unknown',
		furnished        TEXT NOT NULL DEFAULT 'unknown',
		link             TEXT NOT NULL DEFAULT '',
		images           JSONB,
		tags             JSONB,
		raw_text         TEXT NOT NULL DEFAULT ''
	);
	CREATE TABLE IF NOT EXISTS leads (
		id          TEXT PRIMARY KEY,
		created_at  TIMESTAMPTZ NOT NULL,
		chat_id     BIGINT NOT NULL,
		username    TEXT NOT NULL DEFAULT '',
		query       TEXT NOT NULL DEFAULT '',
		matched_ids TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT 'new'
	);`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// ListingExists checks the dedup key column for the source message id.
func (r *PostgresRepository) ListingExists(ctx context.Context, sourceID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM listings WHERE source_id = $1)`, sourceID)
	if err != nil {
		return false, fmt.Errorf("failed to check listing existence: %w", err)
	}
	return exists, nil
}

// AppendListing writes one listing row. A concurrent duplicate of the same
// source id becomes a no-op instead of an error; dedup is checked upstream
// but the insert stays idempotent.
func (r *PostgresRepository) AppendListing(ctx context.Context, rec model.ListingRecord) error {
	const q = `
	INSERT INTO listings (
		source_id, created_at, title, description, location, bedrooms, bathrooms,
		price_month, pets, available, electricity_rate, water_rate, pool,
		furnished, link, images, tags, raw_text
	) VALUES (
		:source_id, :created_at, :title, :description, :location, :bedrooms, :bathrooms,
		:price_month, :pets, :available, :electricity_rate, :water_rate, :pool,
		:furnished, :link, :images, :tags, :raw_text
	) ON CONFLICT (source_id) DO NOTHING`
	if _, err := r.db.NamedExecContext(ctx, q, rec); err != nil {
		return fmt.Errorf("failed to append listing: %w", err)
	}
	return nil
}

// Snapshot returns the full current inventory, oldest first. A row that fails
// to coerce into a ListingRecord is skipped with a warning so one bad row
// never empties the snapshot.
func (r *PostgresRepository) Snapshot(ctx context.Context) ([]model.ListingRecord, error) {
	const q = `
	SELECT source_id, created_at, title, description, location, bedrooms, bathrooms,
	       price_month, pets, available, electricity_rate, water_rate, pool,
	       furnished, link, images, tags, raw_text
	FROM listings
	ORDER BY created_at, source_id`

	rows, err := r.db.QueryxContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch inventory snapshot: %w", err)
	}
	defer rows.Close()

	var listings []model.ListingRecord
	for rows.Next() {
		var rec model.ListingRecord
		if err := rows.StructScan(&rec); err != nil {
			r.log.WithError(err).Warn("skipping unreadable listing row")
			continue
		}
		listings = append(listings, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inventory snapshot: %w", err)
	}
	return listings, nil
}

// AppendLead writes one captured inquiry row.
func (r *PostgresRepository) AppendLead(ctx context.Context, lead model.LeadRecord) error {
	const q = `
	INSERT INTO leads (id, created_at, chat_id, username, query, matched_ids, status)
	VALUES (:id, :created_at, :chat_id, :username, :query, :matched_ids, :status)`
	if _, err := r.db.NamedExecContext(ctx, q, lead); err != nil {
		return fmt.Errorf("failed to append lead: %w", err)
	}
	return nil
}
