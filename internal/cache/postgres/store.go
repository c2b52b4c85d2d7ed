// Package postgres provides a Postgres-backed response cache shared by all
// service replicas.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JakeFAU/workshop-aggregator/internal/clock/system"
	"github.com/JakeFAU/workshop-aggregator/internal/hash/sha256"
	"github.com/JakeFAU/workshop-aggregator/internal/workshop"
)

const defaultTable = "response_cache"

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// StoreConfig controls the Postgres connection pool and entry lifetime.
type StoreConfig struct {
	DSN             string
	Table           string
	TTL             time.Duration
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type pool interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	QueryRow(context.Context, string, ...any) pgx.Row
	Close()
}

// Store implements workshop.ResponseCache on a single table keyed by the
// SHA-256 digest of the cache key.
type Store struct {
	pool  pool
	table string
	ttl   time.Duration
	now   func() time.Time
}

// NewStore connects to Postgres using the provided config.
func NewStore(ctx context.Context, cfg StoreConfig) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	p, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	store, err := NewStoreWithPool(p, cfg.Table, cfg.TTL)
	if err != nil {
		p.Close()
		return nil, err
	}
	return store, nil
}

// NewStoreWithPool constructs a store from an existing pool (primarily for testing).
func NewStoreWithPool(p pool, table string, ttl time.Duration) (*Store, error) {
	if p == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if table == "" {
		table = defaultTable
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("ttl must be > 0")
	}
	return &Store{
		pool:  p,
		table: table,
		ttl:   ttl,
		now:   system.New().Now,
	}, nil
}

// EnsureSchema creates the cache table when it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	key_digest TEXT PRIMARY KEY,
	cache_key  TEXT NOT NULL,
	status     INTEGER NOT NULL,
	headers    JSONB NOT NULL,
	body       BYTEA NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL
)`, s.table)
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("create cache table: %w", err)
	}
	return nil
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// Get returns the unexpired response stored under key.
func (s *Store) Get(ctx context.Context, key string) (workshop.CachedResponse, bool, error) {
	query := fmt.Sprintf(`SELECT status, headers, body FROM %s WHERE key_digest = $1 AND expires_at > $2`, s.table)

	var (
		status  int32
		headers []byte
		body    []byte
	)
	err := s.pool.QueryRow(ctx, query, digest(key), s.now()).Scan(&status, &headers, &body)
	if errors.Is(err, pgx.ErrNoRows) {
		return workshop.CachedResponse{}, false, nil
	}
	if err != nil {
		return workshop.CachedResponse{}, false, fmt.Errorf("select cached response: %w", err)
	}

	resp := workshop.CachedResponse{Status: int(status), Header: http.Header{}, Body: body}
	if err := json.Unmarshal(headers, &resp.Header); err != nil {
		return workshop.CachedResponse{}, false, fmt.Errorf("decode cached headers: %w", err)
	}
	return resp, true, nil
}

// Put upserts resp under key with a fresh expiry.
func (s *Store) Put(ctx context.Context, key string, resp workshop.CachedResponse) error {
	headers := resp.Header
	if headers == nil {
		headers = http.Header{}
	}
	headersJSON, err := json.Marshal(headers)
	if err != nil {
		return fmt.Errorf("marshal headers: %w", err)
	}
	body := resp.Body
	if body == nil {
		body = []byte{}
	}
	query := fmt.Sprintf(`
INSERT INTO %s (key_digest, cache_key, status, headers, body, expires_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (key_digest) DO UPDATE SET
	status = EXCLUDED.status,
	headers = EXCLUDED.headers,
	body = EXCLUDED.body,
	expires_at = EXCLUDED.expires_at`, s.table)

	args := []any{
		digest(key),
		key,
		int32(resp.Status),
		headersJSON,
		body,
		s.now().Add(s.ttl),
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert cached response: %w", err)
	}
	return nil
}

// PurgeExpired deletes expired rows and reports how many were removed.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE expires_at <= $1`, s.table)
	tag, err := s.pool.Exec(ctx, query, s.now())
	if err != nil {
		return 0, fmt.Errorf("purge expired responses: %w", err)
	}
	return tag.RowsAffected(), nil
}

func digest(key string) string {
	return sha256.KeyDigest(key)
}
