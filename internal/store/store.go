/*
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package store persists masters, orders, the working-day calendar and
// computed loading plans in Postgres. Master reads are cached; any replace
// flushes the cache.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	_ "github.com/lib/pq"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	pingAttempts = 5
	cacheTTL     = 5 * time.Minute
)

// ErrNotFound is returned when a requested plan does not exist.
var ErrNotFound = errors.New("plan not found")

// Store wraps the database handle and the master read cache.
type Store struct {
	db    *sql.DB
	cache *cache.Cache
}

// Open connects, waits for the database to answer, and ensures the schema.
// The ping retries with backoff so the process survives a database that is
// still starting.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := retry.Do(
		func() error { return db.PingContext(ctx) },
		retry.Attempts(pingAttempts),
		retry.Delay(time.Second),
		retry.OnRetry(func(n uint, err error) {
			zap.S().Warnw("database not ready", "attempt", n+1, "error", err)
		}),
	); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	s := &Store{db: db, cache: cache.New(cacheTTL, 2*cacheTTL)}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Healthy reports whether the database currently answers.
func (s *Store) Healthy(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) ensureSchema(ctx context.Context) error {
	for _, statement := range schema {
		if _, err := s.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("ensuring schema: %w", err)
		}
	}
	return nil
}
